package mc

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// valuer evaluates scenarios against one set of draws and memoises the
// results, so the base scenario shared by Delta and Gamma runs once. The
// draws are generated on the first scenario that actually diffuses.
type valuer struct {
	cfg    Config
	draws  draws
	kind   domain.OptionKind
	strike float64
	buf    []float64
	seen   map[scenario]float64
	runs   int
}

func (v *valuer) value(sc scenario) float64 {
	if p, ok := v.seen[sc]; ok {
		return p
	}
	var p float64
	if sc.degenerate() {
		p = sc.deterministic(v.kind, v.strike)
	} else {
		if v.draws.z == nil {
			v.draws = newDraws(v.cfg.NPaths, v.cfg.NSteps, v.cfg.Seed)
		}
		v.draws.discountedPayoffs(sc, v.kind, v.strike, v.buf)
		p = stat.Mean(v.buf, nil)
		v.runs++
	}
	v.seen[sc] = p
	return p
}

// central returns (f(up) - f(down)) / span.
func (v *valuer) central(up, down scenario, span float64) float64 {
	return (v.value(up) - v.value(down)) / span
}

func normalizeGreeks(greeks []domain.Greek) ([]domain.Greek, error) {
	if len(greeks) == 0 {
		return domain.AllGreeks, nil
	}
	want := make([]domain.Greek, 0, len(greeks))
	for _, name := range greeks {
		g, err := domain.ParseGreek(string(name))
		if err != nil {
			return nil, err
		}
		want = append(want, g)
	}
	return want, nil
}

// Greeks estimates the requested sensitivities (all of them by default) by
// central differences. The draws are generated once and reused by every
// bumped scenario. A lower scenario that would cross expiry 0 or volatility 0
// is clamped there and the quotient uses the span actually covered.
// Theta is the decay -dV/dT.
func (e *Engine) Greeks(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel, greeks ...domain.Greek) (domain.GreeksResult, error) {
	if err := domain.ValidateInputs(opt, mkt, model); err != nil {
		return domain.GreeksResult{}, err
	}
	want, err := normalizeGreeks(greeks)
	if err != nil {
		return domain.GreeksResult{}, err
	}

	base := baseScenario(opt, mkt, model)
	v := &valuer{
		cfg:    e.cfg,
		kind:   opt.Kind(),
		strike: opt.Strike(),
		buf:    make([]float64, e.cfg.NPaths),
		seen:   make(map[scenario]float64),
	}

	bumps := e.cfg.Bumps
	hs := bumps.spotBump(base.spot)
	hv := bumps.sigmaBump()
	hr := bumps.rateBump()
	ht := bumps.timeBump()

	out := make(map[domain.Greek]float64, len(want))
	for _, g := range want {
		switch g {
		case domain.Delta:
			up, down := base, base
			up.spot, down.spot = base.spot+hs, base.spot-hs
			out[g] = v.central(up, down, 2*hs)
		case domain.Gamma:
			up, down := base, base
			up.spot, down.spot = base.spot+hs, base.spot-hs
			out[g] = (v.value(up) - 2*v.value(base) + v.value(down)) / (hs * hs)
		case domain.Vega:
			up, down := base, base
			up.sigma = base.sigma + hv
			down.sigma = math.Max(base.sigma-hv, 0)
			out[g] = v.central(up, down, up.sigma-down.sigma)
		case domain.Theta:
			up, down := base, base
			up.expiry = base.expiry + ht
			down.expiry = math.Max(base.expiry-ht, 0)
			out[g] = -v.central(up, down, up.expiry-down.expiry)
		case domain.Rho:
			up, down := base, base
			up.rate, down.rate = base.rate+hr, base.rate-hr
			out[g] = v.central(up, down, 2*hr)
		}
	}

	if glog.V(2) {
		glog.Infof("mc greeks %s: %d simulated scenarios, values=%v", opt, v.runs, out)
	}

	m := e.meta(model)
	m.Details["crn"] = true
	m.Details["bumps"] = map[string]float64{"spot": hs, "sigma": hv, "rate": hr, "time": ht}
	if base.degenerate() {
		m.Details["degenerate"] = true
	}
	return domain.GreeksResult{Values: out, Meta: m}, nil
}
