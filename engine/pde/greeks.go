package pde

import (
	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// Greeks reads Delta and Gamma off the solved t=0 layer: central differences
// at the two interior nodes bracketing the spot, interpolated like the price.
// No request means both. Vega, Theta and Rho would need extra solves and are
// not supported.
func (e *Engine) Greeks(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel, greeks ...domain.Greek) (domain.GreeksResult, error) {
	if err := domain.ValidateInputs(opt, mkt, model); err != nil {
		return domain.GreeksResult{}, err
	}
	if len(greeks) == 0 {
		greeks = e.SupportedGreeks()
	}
	want := make([]domain.Greek, 0, len(greeks))
	for _, name := range greeks {
		g, err := domain.ParseGreek(string(name))
		if err != nil {
			return domain.GreeksResult{}, err
		}
		if g != domain.Delta && g != domain.Gamma {
			return domain.GreeksResult{}, domain.NotSupportedf("pde engine does not compute %s", g)
		}
		want = append(want, g)
	}

	out := make(map[domain.Greek]float64, len(want))
	if degenerate(opt, model) {
		for _, g := range want {
			switch g {
			case domain.Delta:
				out[g] = domain.DiscountedForwardDelta(opt, mkt)
			case domain.Gamma:
				out[g] = 0
			}
		}
		m := domain.Meta{Method: methodName, Model: model.Name(), Details: map[string]interface{}{"degenerate": true}}
		return domain.GreeksResult{Values: out, Meta: m}, nil
	}

	g, err := e.solve(opt, mkt, model.Sigma())
	if err != nil {
		return domain.GreeksResult{}, err
	}
	spot := mkt.Spot()
	for _, name := range want {
		switch name {
		case domain.Delta:
			out[name] = g.interpolate(spot, g.delta)
		case domain.Gamma:
			out[name] = g.interpolate(spot, g.gamma)
		}
	}
	return domain.GreeksResult{Values: out, Meta: e.meta(model, g.sMax)}, nil
}
