package main

import (
	"github.com/spf13/cobra"

	qpl "github.com/AhmadAlkadri/quant-pricing-lab"
	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// optionFlags are the contract, market and engine inputs shared by the
// pricing commands. Market, model and engine flags fall back to the loaded
// config unless set explicitly.
type optionFlags struct {
	kind   string
	strike float64
	expiry float64
	spot   float64
	rate   float64
	div    float64
	sigma  float64
	method string
	json   bool

	paths int
	steps int
	seed  uint64
	ns    int
	nt    int
	theta float64
}

func newOptionFlags(cmd *cobra.Command) *optionFlags {
	f := &optionFlags{}
	fs := cmd.Flags()
	fs.StringVar(&f.kind, "kind", "call", "option kind: call or put")
	fs.Float64Var(&f.strike, "strike", 100, "strike price")
	fs.Float64Var(&f.expiry, "expiry", 1, "time to expiry in years")
	fs.Float64Var(&f.spot, "spot", 100, "spot price")
	fs.Float64Var(&f.rate, "rate", 0, "continuously compounded risk-free rate (default from config)")
	fs.Float64Var(&f.div, "div", 0, "continuous dividend yield (default from config)")
	fs.Float64Var(&f.sigma, "sigma", 0, "Black-Scholes volatility (default from config)")
	fs.StringVar(&f.method, "method", string(qpl.Analytic), "pricing method: analytic, mc or pde")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")

	fs.IntVar(&f.paths, "paths", 0, "Monte Carlo path count (default from config)")
	fs.IntVar(&f.steps, "steps", 0, "Monte Carlo time steps per path (default from config)")
	fs.Uint64Var(&f.seed, "seed", 0, "Monte Carlo seed (default from config)")
	fs.IntVar(&f.ns, "ns", 0, "PDE spot intervals (default from config)")
	fs.IntVar(&f.nt, "nt", 0, "PDE time steps (default from config)")
	fs.Float64Var(&f.theta, "theta", 0, "PDE theta, 0 explicit to 1 implicit (default from config)")
	return f
}

// inputs builds the validated domain objects for one command invocation.
func (f *optionFlags) inputs(cmd *cobra.Command) (domain.EuropeanOption, domain.Market, domain.BlackScholesModel, error) {
	var (
		opt   domain.EuropeanOption
		mkt   domain.Market
		model domain.BlackScholesModel
	)
	changed := cmd.Flags().Changed

	kind, err := domain.ParseOptionKind(f.kind)
	if err != nil {
		return opt, mkt, model, err
	}
	if opt, err = domain.NewEuropeanOption(kind, f.strike, f.expiry); err != nil {
		return opt, mkt, model, err
	}

	rate, div, sigma := cfg.Market.Rate, cfg.Market.DividendYield, cfg.Market.Sigma
	if changed("rate") {
		rate = f.rate
	}
	if changed("div") {
		div = f.div
	}
	if changed("sigma") {
		sigma = f.sigma
	}
	rc, err := domain.NewFlatRateCurve(rate, cfg.Market.AllowNegative)
	if err != nil {
		return opt, mkt, model, err
	}
	dc, err := domain.NewFlatDividendCurve(div, cfg.Market.AllowNegative)
	if err != nil {
		return opt, mkt, model, err
	}
	if mkt, err = domain.NewMarket(f.spot, rc, dc); err != nil {
		return opt, mkt, model, err
	}
	model, err = domain.NewBlackScholesModel(sigma)
	return opt, mkt, model, err
}

// settings applies the engine flags on top of the configured settings.
func (f *optionFlags) settings(cmd *cobra.Command) qpl.Settings {
	s := cfg.Settings()
	changed := cmd.Flags().Changed
	if changed("paths") {
		s.MC.NPaths = f.paths
	}
	if changed("steps") {
		s.MC.NSteps = f.steps
	}
	if changed("seed") {
		s.MC.Seed = f.seed
	}
	if changed("ns") {
		s.PDE.NS = f.ns
	}
	if changed("nt") {
		s.PDE.NT = f.nt
	}
	if changed("theta") {
		s.PDE.Theta = f.theta
	}
	return s
}
