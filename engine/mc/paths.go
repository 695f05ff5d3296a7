package mc

import (
	"math"

	"golang.org/x/exp/rand"
)

// draws holds the standard normal variates of one call, path-major:
// path i uses z[i*nSteps : (i+1)*nSteps].
type draws struct {
	z      []float64
	nPaths int
	nSteps int
}

func newDraws(nPaths, nSteps int, seed uint64) draws {
	rng := rand.New(rand.NewSource(seed))
	z := make([]float64, nPaths*nSteps)
	for i := range z {
		z[i] = rng.NormFloat64()
	}
	return draws{z: z, nPaths: nPaths, nSteps: nSteps}
}

// scenario is one point in parameter space evaluated against shared draws.
type scenario struct {
	spot   float64
	rate   float64
	yield  float64
	sigma  float64
	expiry float64
}

// terminalSpots writes S_T for every path into out. Each sub-interval applies
// the exact lognormal transition, so a single step samples S_T directly.
func (d draws) terminalSpots(sc scenario, out []float64) {
	dt := sc.expiry / float64(d.nSteps)
	drift := (sc.rate - sc.yield - 0.5*sc.sigma*sc.sigma) * dt
	vol := sc.sigma * math.Sqrt(dt)
	for i := 0; i < d.nPaths; i++ {
		row := d.z[i*d.nSteps : (i+1)*d.nSteps]
		if d.nSteps == 1 {
			out[i] = sc.spot * math.Exp(drift+vol*row[0])
			continue
		}
		s := sc.spot
		for _, z := range row {
			s *= math.Exp(drift + vol*z)
		}
		out[i] = s
	}
}
