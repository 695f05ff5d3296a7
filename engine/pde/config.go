// Package pde prices European options by solving the Black-Scholes PDE on a
// uniform spot grid with a theta time-stepping scheme.
//
// Theta 1 is fully implicit, 0.5 is Crank-Nicolson and 0 is explicit. The
// explicit scheme is only stable for small time steps and that is left to
// the caller.
package pde

import (
	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

const methodName = "pde"

const (
	DefaultNS             = 200
	DefaultNT             = 200
	DefaultTheta          = 0.5
	DefaultSMaxMultiplier = 4.0
)

// Config describes the grid. NS is the number of spot intervals, so the grid
// has NS+1 nodes. SMax, when positive, fixes the upper boundary; otherwise it
// is SMaxMultiplier times the spot.
type Config struct {
	NS             int     `json:"n_s" mapstructure:"n_s"`
	NT             int     `json:"n_t" mapstructure:"n_t"`
	Theta          float64 `json:"theta" mapstructure:"theta"`
	SMax           float64 `json:"s_max" mapstructure:"s_max"`
	SMaxMultiplier float64 `json:"s_max_multiplier" mapstructure:"s_max_multiplier"`
}

// DefaultConfig is a 200x200 Crank-Nicolson grid reaching four times the spot.
func DefaultConfig() Config {
	return Config{
		NS:             DefaultNS,
		NT:             DefaultNT,
		Theta:          DefaultTheta,
		SMaxMultiplier: DefaultSMaxMultiplier,
	}
}

func (c Config) Validate() error {
	if c.NS < 3 {
		return domain.Invalidf("n_s must be >= 3, got %d", c.NS)
	}
	if c.NT < 1 {
		return domain.Invalidf("n_t must be >= 1, got %d", c.NT)
	}
	if err := domain.CheckFinite("theta", c.Theta); err != nil {
		return err
	}
	if c.Theta < 0 || c.Theta > 1 {
		return domain.Invalidf("theta must be in [0, 1], got %v", c.Theta)
	}
	if err := domain.CheckFinite("s_max", c.SMax); err != nil {
		return err
	}
	if c.SMax < 0 {
		return domain.Invalidf("s_max must be > 0, got %v", c.SMax)
	}
	if c.SMax == 0 {
		if err := domain.CheckFinite("s_max_multiplier", c.SMaxMultiplier); err != nil {
			return err
		}
		if c.SMaxMultiplier <= 0 {
			return domain.Invalidf("s_max_multiplier must be > 0, got %v", c.SMaxMultiplier)
		}
	}
	return nil
}

// upper returns the grid's upper spot boundary for the given spot.
func (c Config) upper(spot float64) float64 {
	if c.SMax > 0 {
		return c.SMax
	}
	return c.SMaxMultiplier * spot
}

// Engine is a validated, immutable PDE pricer, safe for concurrent use.
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

// SupportedGreeks lists what can be read off the t=0 grid layer.
func (e *Engine) SupportedGreeks() []domain.Greek {
	return []domain.Greek{domain.Delta, domain.Gamma}
}
