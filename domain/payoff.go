package domain

import "math"

// Payoff is the exercise value of a vanilla option at underlying level s.
// An unknown kind has no payoff and yields NaN.
func Payoff(kind OptionKind, s, k float64) float64 {
	switch kind {
	case Call:
		return math.Max(s-k, 0)
	case Put:
		return math.Max(k-s, 0)
	}
	return math.NaN()
}

// Intrinsic is the payoff if the option were exercised at spot now.
func Intrinsic(opt EuropeanOption, spot float64) float64 {
	return Payoff(opt.kind, spot, opt.strike)
}

// DiscountedForwardValue is the zero-volatility price: the payoff on the
// deterministic forward, discounted at the risk-free rate. With expiry 0 it
// reduces to the intrinsic value.
func DiscountedForwardValue(opt EuropeanOption, mkt Market) float64 {
	t := opt.expiry
	if t == 0 {
		return Intrinsic(opt, mkt.spot)
	}
	return mkt.DFRate(t) * Payoff(opt.kind, mkt.Forward(t), opt.strike)
}

// DiscountedForwardDelta is the spot derivative of DiscountedForwardValue
// away from the kink; at-the-forward is treated as out of the money.
func DiscountedForwardDelta(opt EuropeanOption, mkt Market) float64 {
	t := opt.expiry
	fwd := mkt.Forward(t)
	dfq := mkt.DFDividend(t)
	switch {
	case opt.kind == Call && fwd > opt.strike:
		return dfq
	case opt.kind == Put && fwd < opt.strike:
		return -dfq
	}
	return 0
}
