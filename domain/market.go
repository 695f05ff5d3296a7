package domain

import "math"

// FlatRateCurve is a continuously compounded risk-free rate that does not
// vary with maturity.
type FlatRateCurve struct {
	rate float64
}

// NewFlatRateCurve rejects negative rates unless allowNegative is set.
func NewFlatRateCurve(rate float64, allowNegative bool) (FlatRateCurve, error) {
	if err := CheckFinite("rate", rate); err != nil {
		return FlatRateCurve{}, err
	}
	if rate < 0 && !allowNegative {
		return FlatRateCurve{}, Invalidf("rate must be >= 0 unless negative rates are allowed, got %v", rate)
	}
	return FlatRateCurve{rate: rate}, nil
}

// Rate returns the zero rate for maturity t.
func (c FlatRateCurve) Rate(t float64) float64 { return c.rate }

// DF returns the discount factor exp(-r t).
func (c FlatRateCurve) DF(t float64) (float64, error) {
	if t < 0 {
		return 0, Invalidf("t must be >= 0, got %v", t)
	}
	return math.Exp(-c.rate * t), nil
}

// FlatDividendCurve is a continuous dividend yield that does not vary with
// maturity.
type FlatDividendCurve struct {
	yield float64
}

// NewFlatDividendCurve rejects negative yields unless allowNegative is set.
func NewFlatDividendCurve(yield float64, allowNegative bool) (FlatDividendCurve, error) {
	if err := CheckFinite("dividend yield", yield); err != nil {
		return FlatDividendCurve{}, err
	}
	if yield < 0 && !allowNegative {
		return FlatDividendCurve{}, Invalidf("dividend yield must be >= 0 unless negative yields are allowed, got %v", yield)
	}
	return FlatDividendCurve{yield: yield}, nil
}

func (c FlatDividendCurve) Yield(t float64) float64 { return c.yield }

// DF returns exp(-q t).
func (c FlatDividendCurve) DF(t float64) (float64, error) {
	if t < 0 {
		return 0, Invalidf("t must be >= 0, got %v", t)
	}
	return math.Exp(-c.yield * t), nil
}

// Market is an immutable snapshot of the inputs observed for one pricing
// call: spot and flat rate/dividend curves.
type Market struct {
	spot     float64
	rate     FlatRateCurve
	dividend FlatDividendCurve
	valid    bool
}

// NewMarket validates spot (> 0).
func NewMarket(spot float64, rate FlatRateCurve, dividend FlatDividendCurve) (Market, error) {
	if err := CheckFinite("spot", spot); err != nil {
		return Market{}, err
	}
	if spot <= 0 {
		return Market{}, Invalidf("spot must be > 0, got %v", spot)
	}
	return Market{spot: spot, rate: rate, dividend: dividend, valid: true}, nil
}

func (m Market) Spot() float64 { return m.spot }

// Validate rejects a market that was not built by NewMarket.
func (m Market) Validate() error {
	if !m.valid {
		return Invalidf("market must be built with NewMarket")
	}
	return nil
}

// Rate returns the risk-free rate for maturity t.
func (m Market) Rate(t float64) float64 { return m.rate.Rate(t) }

// DividendYield returns the dividend yield for maturity t.
func (m Market) DividendYield(t float64) float64 { return m.dividend.Yield(t) }

// DFRate is the risk-free discount factor to t. t is clamped at zero.
func (m Market) DFRate(t float64) float64 {
	return math.Exp(-m.rate.Rate(t) * math.Max(t, 0))
}

// DFDividend is the dividend discount factor to t. t is clamped at zero.
func (m Market) DFDividend(t float64) float64 {
	return math.Exp(-m.dividend.Yield(t) * math.Max(t, 0))
}

// Forward returns the deterministic forward S0 exp((r-q) t).
func (m Market) Forward(t float64) float64 {
	return m.spot * math.Exp((m.Rate(t)-m.DividendYield(t))*t)
}

// WithSpot returns a copy of the market with a different spot.
func (m Market) WithSpot(spot float64) (Market, error) {
	return NewMarket(spot, m.rate, m.dividend)
}

// WithRate returns a copy of the market with a flat rate curve at r. Negative
// rates are allowed so that bumped scenarios around zero stay valid.
func (m Market) WithRate(r float64) (Market, error) {
	curve, err := NewFlatRateCurve(r, true)
	if err != nil {
		return Market{}, err
	}
	return NewMarket(m.spot, curve, m.dividend)
}
