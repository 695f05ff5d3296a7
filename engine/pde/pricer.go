package pde

import (
	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

func degenerate(opt domain.EuropeanOption, model domain.BlackScholesModel) bool {
	return opt.Expiry() == 0 || model.Sigma() == 0
}

func (e *Engine) meta(model domain.BlackScholesModel, sMax float64) domain.Meta {
	return domain.Meta{
		Method: methodName,
		Model:  model.Name(),
		Details: map[string]interface{}{
			"theta": e.cfg.Theta,
			"n_s":   e.cfg.NS,
			"n_t":   e.cfg.NT,
			"s_max": sMax,
		},
	}
}

// Price solves the grid and interpolates linearly at the spot. Expiry 0 and
// zero volatility are priced exactly without building a grid.
func (e *Engine) Price(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel) (domain.PriceResult, error) {
	if err := domain.ValidateInputs(opt, mkt, model); err != nil {
		return domain.PriceResult{}, err
	}
	if degenerate(opt, model) {
		m := domain.Meta{Method: methodName, Model: model.Name(), Details: map[string]interface{}{"degenerate": true}}
		return domain.PriceResult{Value: domain.DiscountedForwardValue(opt, mkt), Meta: m}, nil
	}
	g, err := e.solve(opt, mkt, model.Sigma())
	if err != nil {
		return domain.PriceResult{}, err
	}
	return domain.PriceResult{Value: g.price(mkt.Spot()), Meta: e.meta(model, g.sMax)}, nil
}
