package pde

import (
	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// grid is the solved t=0 layer on NS+1 uniformly spaced spot nodes.
type grid struct {
	s    []float64
	v    []float64
	ds   float64
	sMax float64
}

// boundaries returns V(0) and V(s_max) with tau years left to expiry.
func boundaries(opt domain.EuropeanOption, mkt domain.Market, sMax, tau float64) (lo, hi float64) {
	if opt.IsCall() {
		return 0, sMax*mkt.DFDividend(tau) - opt.Strike()*mkt.DFRate(tau)
	}
	return opt.Strike() * mkt.DFRate(tau), 0
}

// solve marches the payoff from expiry back to today. Time runs in tau, the
// time to expiry, so each step moves from the known layer tau_n to tau_n+dt.
// The rates are flat, so the system matrix is built once and only the right
// hand side changes between steps.
func (e *Engine) solve(opt domain.EuropeanOption, mkt domain.Market, sigma float64) (*grid, error) {
	spot := mkt.Spot()
	sMax := e.cfg.upper(spot)
	if spot <= 0 || spot >= sMax {
		return nil, domain.Invalidf("spot %v must lie strictly inside the grid (0, %v)", spot, sMax)
	}

	ns, nt, theta := e.cfg.NS, e.cfg.NT, e.cfg.Theta
	t := opt.Expiry()
	ds := sMax / float64(ns)
	dt := t / float64(nt)
	r := mkt.Rate(t)
	q := mkt.DividendYield(t)

	s := floats.Span(make([]float64, ns+1), 0, sMax)
	v := make([]float64, ns+1)
	for i, x := range s {
		v[i] = domain.Payoff(opt.Kind(), x, opt.Strike())
	}

	// a, b, c weight V(i-1), V(i), V(i+1) in the spatial operator.
	n := ns - 1
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	explicit := make([]float64, n)
	m := newTridiagonal(n)
	for j := 0; j < n; j++ {
		x := s[j+1]
		diffusion := 0.5 * sigma * sigma * x * x / (ds * ds)
		drift := (r - q) * x / (2 * ds)
		a[j] = diffusion - drift
		b[j] = -2*diffusion - r
		c[j] = diffusion + drift

		m.lower[j] = -theta * dt * a[j]
		m.diag[j] = 1 - theta*dt*b[j]
		m.upper[j] = -theta * dt * c[j]
		explicit[j] = 1 + (1-theta)*dt*b[j]
	}

	w := (1 - theta) * dt
	for step := 0; step < nt; step++ {
		tauOld := float64(step) * dt
		tauNew := float64(step+1) * dt
		v[0], v[ns] = boundaries(opt, mkt, sMax, tauOld)
		lo, hi := boundaries(opt, mkt, sMax, tauNew)

		for j := 0; j < n; j++ {
			i := j + 1
			m.rhs[j] = explicit[j]*v[i] + w*(a[j]*v[i-1]+c[j]*v[i+1])
		}
		m.rhs[0] += theta * dt * a[0] * lo
		m.rhs[n-1] += theta * dt * c[n-1] * hi

		m.solve(v[1:ns])
		v[0], v[ns] = lo, hi
	}

	if glog.V(2) {
		glog.Infof("pde grid %s: n_s=%d n_t=%d theta=%v s_max=%v", opt, ns, nt, theta, sMax)
	}
	return &grid{s: s, v: v, ds: ds, sMax: sMax}, nil
}

// locate returns the node i with s[i] <= spot < s[i+1] and the weight of
// s[i+1]. A spot sitting exactly on a node gets weight 0, so that node's
// value is used as is.
func (g *grid) locate(spot float64) (int, float64) {
	last := len(g.s) - 2
	i := int(spot / g.ds)
	if i > last {
		i = last
	}
	if i > 0 && spot < g.s[i] {
		i--
	}
	if i < last && spot >= g.s[i+1] {
		i++
	}
	return i, (spot - g.s[i]) / g.ds
}

func (g *grid) interpolate(spot float64, f func(int) float64) float64 {
	i, w := g.locate(spot)
	if w == 0 {
		return f(i)
	}
	return (1-w)*f(i) + w*f(i+1)
}

// interior clamps a node index to one with neighbours on both sides.
func (g *grid) interior(i int) int {
	if i < 1 {
		return 1
	}
	if last := len(g.s) - 2; i > last {
		return last
	}
	return i
}

func (g *grid) value(i int) float64 { return g.v[i] }

func (g *grid) delta(i int) float64 {
	i = g.interior(i)
	return (g.v[i+1] - g.v[i-1]) / (2 * g.ds)
}

func (g *grid) gamma(i int) float64 {
	i = g.interior(i)
	return (g.v[i+1] - 2*g.v[i] + g.v[i-1]) / (g.ds * g.ds)
}

func (g *grid) price(spot float64) float64 { return g.interpolate(spot, g.value) }

// Layer solves the grid and returns the t=0 values at every node, for
// plotting the whole value profile from a single solve.
func (e *Engine) Layer(opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel) (spots, values []float64, err error) {
	if err := domain.ValidateInputs(opt, mkt, model); err != nil {
		return nil, nil, err
	}
	if degenerate(opt, model) {
		return nil, nil, domain.NotSupportedf("no grid is built for expiry 0 or zero volatility")
	}
	g, err := e.solve(opt, mkt, model.Sigma())
	if err != nil {
		return nil, nil, err
	}
	return g.s, g.v, nil
}
