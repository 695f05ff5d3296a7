// Package analytic prices European options with the closed-form
// Black-Scholes formulas and inverts them for implied volatility.
package analytic

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

const methodName = "analytic"

// blackScholes holds the scalar inputs of one closed-form evaluation.
type blackScholes struct {
	spot   float64
	strike float64
	expiry float64
	rate   float64
	yield  float64
	sigma  float64
}

func newBlackScholes(opt domain.EuropeanOption, mkt domain.Market, sigma float64) blackScholes {
	t := opt.Expiry()
	return blackScholes{
		spot:   mkt.Spot(),
		strike: opt.Strike(),
		expiry: t,
		rate:   mkt.Rate(t),
		yield:  mkt.DividendYield(t),
		sigma:  sigma,
	}
}

// aValue is the standard deviation of the log return to expiry.
func (bs blackScholes) aValue() float64 {
	return bs.sigma * math.Sqrt(bs.expiry)
}

func (bs blackScholes) d1() float64 {
	return (math.Log(bs.spot/bs.strike) +
		(bs.rate-bs.yield+bs.sigma*bs.sigma/2)*bs.expiry) / bs.aValue()
}

func (bs blackScholes) d2() float64 {
	return bs.d1() - bs.aValue()
}

func (bs blackScholes) dfRate() float64 { return math.Exp(-bs.rate * bs.expiry) }
func (bs blackScholes) dfDividend() float64 { return math.Exp(-bs.yield * bs.expiry) }

// degenerate reports whether no diffusion is left: expiry or volatility is zero.
func (bs blackScholes) degenerate() bool {
	return bs.expiry == 0 || bs.sigma == 0
}

func normCdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normPdf(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

func (bs blackScholes) price(kind domain.OptionKind) float64 {
	d1, d2 := bs.d1(), bs.d2()
	if kind == domain.Call {
		return bs.spot*bs.dfDividend()*normCdf(d1) - bs.strike*bs.dfRate()*normCdf(d2)
	}
	return bs.strike*bs.dfRate()*normCdf(-d2) - bs.spot*bs.dfDividend()*normCdf(-d1)
}

func (bs blackScholes) greeks(kind domain.OptionKind) map[domain.Greek]float64 {
	d1, d2 := bs.d1(), bs.d2()
	sqrtT := math.Sqrt(bs.expiry)
	dfr, dfq := bs.dfRate(), bs.dfDividend()
	pdf := normPdf(d1)

	// Time decay shared by calls and puts.
	decay := -(bs.spot * dfq * pdf * bs.sigma) / (2 * sqrtT)

	g := map[domain.Greek]float64{
		domain.Gamma: dfq * pdf / (bs.spot * bs.sigma * sqrtT),
		domain.Vega:  bs.spot * dfq * pdf * sqrtT,
	}
	if kind == domain.Call {
		g[domain.Delta] = dfq * normCdf(d1)
		g[domain.Theta] = decay - bs.rate*bs.strike*dfr*normCdf(d2) + bs.yield*bs.spot*dfq*normCdf(d1)
		g[domain.Rho] = bs.strike * bs.expiry * dfr * normCdf(d2)
	} else {
		g[domain.Delta] = dfq * (normCdf(d1) - 1)
		g[domain.Theta] = decay + bs.rate*bs.strike*dfr*normCdf(-d2) - bs.yield*bs.spot*dfq*normCdf(-d1)
		g[domain.Rho] = -bs.strike * bs.expiry * dfr * normCdf(-d2)
	}
	return g
}

// degenerateGreeks are the sensitivities of the deterministic value left when
// there is no diffusion: only the discounted forward payoff remains.
func degenerateGreeks(opt domain.EuropeanOption, mkt domain.Market) map[domain.Greek]float64 {
	t := opt.Expiry()
	g := map[domain.Greek]float64{
		domain.Delta: domain.DiscountedForwardDelta(opt, mkt),
		domain.Gamma: 0,
		domain.Vega:  0,
		domain.Theta: 0,
		domain.Rho:   0,
	}
	if domain.DiscountedForwardValue(opt, mkt) == 0 {
		return g
	}
	carry := mkt.DividendYield(t) * mkt.Spot() * mkt.DFDividend(t)
	funding := mkt.Rate(t) * opt.Strike() * mkt.DFRate(t)
	bond := opt.Strike() * t * mkt.DFRate(t)
	if opt.IsCall() {
		g[domain.Theta] = carry - funding
		g[domain.Rho] = bond
	} else {
		g[domain.Theta] = funding - carry
		g[domain.Rho] = -bond
	}
	return g
}

func meta(model domain.BlackScholesModel) domain.Meta {
	return domain.Meta{Method: methodName, Model: model.Name()}
}

// Price returns the closed-form value. Expiry 0 gives the intrinsic value and
// zero volatility the discounted intrinsic value of the forward.
func Price(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel) domain.PriceResult {
	bs := newBlackScholes(opt, mkt, model.Sigma())
	if bs.degenerate() {
		return domain.PriceResult{Value: domain.DiscountedForwardValue(opt, mkt), Meta: meta(model)}
	}
	return domain.PriceResult{Value: bs.price(opt.Kind()), Meta: meta(model)}
}

// Greeks returns Delta, Gamma, Vega, Theta (decay per year, dV/dt) and Rho.
// Without diffusion the deterministic limits are returned.
func Greeks(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel) domain.GreeksResult {
	bs := newBlackScholes(opt, mkt, model.Sigma())
	m := meta(model)
	if bs.degenerate() {
		m.Details = map[string]interface{}{"degenerate": true}
		return domain.GreeksResult{Values: degenerateGreeks(opt, mkt), Meta: m}
	}
	return domain.GreeksResult{Values: bs.greeks(opt.Kind()), Meta: m}
}
