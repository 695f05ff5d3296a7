package analytic

import "github.com/AhmadAlkadri/quant-pricing-lab/domain"

// Engine adapts the closed-form functions to the dispatcher.
type Engine struct{}

// New returns the analytic engine. It has no configuration.
func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return methodName }

func (e *Engine) SupportedGreeks() []domain.Greek { return domain.AllGreeks }

func (e *Engine) Price(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel) (domain.PriceResult, error) {
	if err := domain.ValidateInputs(opt, mkt, model); err != nil {
		return domain.PriceResult{}, err
	}
	return Price(opt, mkt, model), nil
}

// Greeks computes every sensitivity and keeps the requested ones. No request
// means all of them.
func (e *Engine) Greeks(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel, greeks ...domain.Greek) (domain.GreeksResult, error) {
	if err := domain.ValidateInputs(opt, mkt, model); err != nil {
		return domain.GreeksResult{}, err
	}
	want := make([]domain.Greek, 0, len(greeks))
	for _, name := range greeks {
		g, err := domain.ParseGreek(string(name))
		if err != nil {
			return domain.GreeksResult{}, err
		}
		want = append(want, g)
	}
	res := Greeks(opt, mkt, model)
	if len(want) == 0 {
		return res, nil
	}
	picked := make(map[domain.Greek]float64, len(want))
	for _, g := range want {
		picked[g] = res.Values[g]
	}
	res.Values = picked
	return res, nil
}
