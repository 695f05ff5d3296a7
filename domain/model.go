package domain

// BlackScholesModel carries the constant volatility of the underlying.
type BlackScholesModel struct {
	sigma float64
	valid bool
}

// NewBlackScholesModel validates sigma (>= 0). sigma == 0 is allowed and
// makes every engine take its deterministic branch.
func NewBlackScholesModel(sigma float64) (BlackScholesModel, error) {
	if err := CheckFinite("sigma", sigma); err != nil {
		return BlackScholesModel{}, err
	}
	if sigma < 0 {
		return BlackScholesModel{}, Invalidf("sigma must be >= 0, got %v", sigma)
	}
	return BlackScholesModel{sigma: sigma, valid: true}, nil
}

func (m BlackScholesModel) Sigma() float64 { return m.sigma }

// Validate rejects a model that was not built by NewBlackScholesModel. The
// zero value would otherwise pass for a zero-volatility model.
func (m BlackScholesModel) Validate() error {
	if !m.valid {
		return Invalidf("model must be built with NewBlackScholesModel")
	}
	return nil
}

// Name identifies the model in result metadata.
func (m BlackScholesModel) Name() string { return "BlackScholes" }

// WithSigma returns a copy of the model with volatility sigma.
func (m BlackScholesModel) WithSigma(sigma float64) (BlackScholesModel, error) {
	return NewBlackScholesModel(sigma)
}

// ValidateInputs checks every pricing input in turn. Engines call it before
// any computation.
func ValidateInputs(opt EuropeanOption, mkt Market, model BlackScholesModel) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	if err := mkt.Validate(); err != nil {
		return err
	}
	return model.Validate()
}
