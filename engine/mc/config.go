// Package mc prices European options by simulating geometric Brownian motion.
//
// Every call seeds its own generator from Config.Seed, so identical inputs
// give bit-identical results. Greeks are central differences over scenarios
// that all reuse the standard normal draws of the call (common random numbers).
package mc

import (
	"math"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

const methodName = "mc"

// Defaults used when a Config field is left at its zero value.
const (
	DefaultNPaths = 50000
	DefaultNSteps = 1
	DefaultSeed   = 123

	defaultSigmaBump = 1e-4
	defaultRateBump  = 1e-5
	defaultTimeBump  = 1e-4
)

// Bumps are the absolute finite-difference steps. Zero selects the default
// for that parameter.
type Bumps struct {
	Spot  float64 `json:"spot" mapstructure:"spot"`
	Sigma float64 `json:"sigma" mapstructure:"sigma"`
	Rate  float64 `json:"rate" mapstructure:"rate"`
	Time  float64 `json:"time" mapstructure:"time"`
}

// Config controls the simulation.
type Config struct {
	NPaths int    `json:"n_paths" mapstructure:"n_paths"`
	NSteps int    `json:"n_steps" mapstructure:"n_steps"`
	Seed   uint64 `json:"seed" mapstructure:"seed"`
	Bumps  Bumps  `json:"bumps" mapstructure:"bumps"`
}

// DefaultConfig returns 50 000 single-step paths seeded with 123.
func DefaultConfig() Config {
	return Config{NPaths: DefaultNPaths, NSteps: DefaultNSteps, Seed: DefaultSeed}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.NPaths < 2 {
		return domain.Invalidf("n_paths must be >= 2, got %d", c.NPaths)
	}
	if c.NSteps < 1 {
		return domain.Invalidf("n_steps must be >= 1, got %d", c.NSteps)
	}
	for _, b := range []struct {
		name string
		v    float64
	}{
		{"bumps.spot", c.Bumps.Spot},
		{"bumps.sigma", c.Bumps.Sigma},
		{"bumps.rate", c.Bumps.Rate},
		{"bumps.time", c.Bumps.Time},
	} {
		if err := domain.CheckFinite(b.name, b.v); err != nil {
			return err
		}
		if b.v < 0 {
			return domain.Invalidf("%s must be >= 0, got %v", b.name, b.v)
		}
	}
	return nil
}

// spotBump is relative to the spot and never lets the lower scenario reach zero.
func (b Bumps) spotBump(spot float64) float64 {
	h := b.Spot
	if h == 0 {
		h = math.Max(1e-4*spot, 1e-6)
	}
	if spot-h <= 0 {
		h = 0.5 * spot
	}
	return h
}

func (b Bumps) sigmaBump() float64 { return orDefault(b.Sigma, defaultSigmaBump) }
func (b Bumps) rateBump() float64 { return orDefault(b.Rate, defaultRateBump) }
func (b Bumps) timeBump() float64 { return orDefault(b.Time, defaultTimeBump) }

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Engine is a validated, immutable Monte Carlo pricer. It is safe for
// concurrent use; all numerical state lives inside a single call.
type Engine struct {
	cfg Config
}

// New validates cfg and returns an engine using it.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Name() string { return methodName }

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) SupportedGreeks() []domain.Greek { return domain.AllGreeks }
