package analytic

import (
	"math"

	"github.com/golang/glog"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// IVOptions bounds the implied volatility search.
type IVOptions struct {
	Lower     float64 // lowest volatility tried
	Upper     float64 // highest volatility tried
	Tolerance float64 // width of the final bracket
	MaxIter   int
}

// DefaultIVOptions searches sigma in [1e-6, 5].
func DefaultIVOptions() IVOptions {
	return IVOptions{Lower: 1e-6, Upper: 5.0, Tolerance: 1e-10, MaxIter: 200}
}

func (o IVOptions) withDefaults() IVOptions {
	d := DefaultIVOptions()
	if o.Lower <= 0 {
		o.Lower = d.Lower
	}
	if o.Upper <= 0 {
		o.Upper = d.Upper
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	return o
}

// NoArbitrageBounds returns the range a European option price must lie in.
func NoArbitrageBounds(opt domain.EuropeanOption, mkt domain.Market) (lower, upper float64) {
	t := opt.Expiry()
	discSpot := mkt.Spot() * mkt.DFDividend(t)
	discStrike := opt.Strike() * mkt.DFRate(t)
	if opt.IsCall() {
		return math.Max(discSpot-discStrike, 0), discSpot
	}
	return math.Max(discStrike-discSpot, 0), discStrike
}

// ImpliedVolatility finds the sigma whose Black-Scholes price equals price.
// A price inside the no-arbitrage bounds that no sigma in [Lower, Upper]
// reproduces is reported as ErrModelAssumption.
// The root is located by bisection: the price is monotone in sigma so the
// bracket always shrinks onto it.
func ImpliedVolatility(price float64, opt domain.EuropeanOption, mkt domain.Market, o IVOptions) (float64, error) {
	o = o.withDefaults()
	if err := opt.Validate(); err != nil {
		return 0, err
	}
	if err := mkt.Validate(); err != nil {
		return 0, err
	}
	if err := domain.CheckFinite("price", price); err != nil {
		return 0, err
	}
	if price < 0 {
		return 0, domain.Invalidf("option price must be non-negative, got %v", price)
	}
	if opt.Expiry() == 0 {
		return 0, domain.Invalidf("implied volatility is undefined at expiry")
	}
	if o.Lower >= o.Upper {
		return 0, domain.Invalidf("volatility search range [%v, %v] is empty", o.Lower, o.Upper)
	}
	lo, hi := NoArbitrageBounds(opt, mkt)
	if price < lo || price > hi {
		return 0, domain.Invalidf("price %v outside bounds [%v, %v]", price, lo, hi)
	}

	objective := func(sigma float64) float64 {
		bs := newBlackScholes(opt, mkt, sigma)
		return bs.price(opt.Kind()) - price
	}

	lower, upper := o.Lower, o.Upper
	fLower, fUpper := objective(lower), objective(upper)
	switch {
	case fLower == 0:
		return lower, nil
	case fUpper == 0:
		return upper, nil
	case fLower*fUpper > 0:
		return 0, domain.ModelAssumptionf("cannot bracket implied volatility in [%v, %v]", lower, upper)
	}

	iv := (lower + upper) / 2
	for i := 0; i < o.MaxIter; i++ {
		iv = (lower + upper) / 2
		f := objective(iv)
		if f == 0 || upper-lower < o.Tolerance {
			glog.V(2).Infof("implied vol converged to %v after %d iterations", iv, i+1)
			return iv, nil
		}
		if (f < 0) == (fLower < 0) {
			lower, fLower = iv, f
		} else {
			upper = iv
		}
	}
	glog.V(1).Infof("implied vol stopped at %v after %d iterations, bracket width %v", iv, o.MaxIter, upper-lower)
	return iv, nil
}
