package mc

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

func baseScenario(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel) scenario {
	t := opt.Expiry()
	return scenario{
		spot:   mkt.Spot(),
		rate:   mkt.Rate(t),
		yield:  mkt.DividendYield(t),
		sigma:  model.Sigma(),
		expiry: t,
	}
}

func (sc scenario) degenerate() bool { return sc.expiry == 0 || sc.sigma == 0 }

// deterministic is the exact value of a scenario with no diffusion left.
func (sc scenario) deterministic(kind domain.OptionKind, strike float64) float64 {
	if sc.expiry == 0 {
		return domain.Payoff(kind, sc.spot, strike)
	}
	fwd := sc.spot * math.Exp((sc.rate-sc.yield)*sc.expiry)
	return domain.Payoff(kind, fwd, strike) * math.Exp(-sc.rate*sc.expiry)
}

// discountedPayoffs fills buf with the discounted payoff of every path.
func (d draws) discountedPayoffs(sc scenario, kind domain.OptionKind, strike float64, buf []float64) {
	d.terminalSpots(sc, buf)
	df := math.Exp(-sc.rate * sc.expiry)
	for i, s := range buf {
		buf[i] = df * domain.Payoff(kind, s, strike)
	}
}

func (e *Engine) meta(model domain.BlackScholesModel) domain.Meta {
	return domain.Meta{
		Method: methodName,
		Model:  model.Name(),
		Details: map[string]interface{}{
			"n_paths": e.cfg.NPaths,
			"n_steps": e.cfg.NSteps,
			"seed":    e.cfg.Seed,
		},
	}
}

// Price returns the mean discounted payoff and its standard error.
// Expiry 0 and zero volatility are priced exactly with a zero standard error
// and no draws.
func (e *Engine) Price(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel) (domain.PriceResult, error) {
	if err := domain.ValidateInputs(opt, mkt, model); err != nil {
		return domain.PriceResult{}, err
	}
	sc := baseScenario(opt, mkt, model)
	m := e.meta(model)
	if sc.degenerate() {
		m.Details["degenerate"] = true
		res := domain.PriceResult{Value: sc.deterministic(opt.Kind(), opt.Strike()), Meta: m}
		return res.WithStdErr(0), nil
	}

	d := newDraws(e.cfg.NPaths, e.cfg.NSteps, e.cfg.Seed)
	buf := make([]float64, e.cfg.NPaths)
	d.discountedPayoffs(sc, opt.Kind(), opt.Strike(), buf)
	mean, std := stat.MeanStdDev(buf, nil)
	se := std / math.Sqrt(float64(e.cfg.NPaths))

	if glog.V(2) {
		glog.Infof("mc price %s: value=%.6f stderr=%.6f paths=%d steps=%d", opt, mean, se, e.cfg.NPaths, e.cfg.NSteps)
	}
	res := domain.PriceResult{Value: mean, Meta: m}
	return res.WithStdErr(se), nil
}
