package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Greek names a price sensitivity.
type Greek string

const (
	Delta Greek = "delta"
	Gamma Greek = "gamma"
	Vega  Greek = "vega"
	Theta Greek = "theta"
	Rho   Greek = "rho"
)

// AllGreeks lists every sensitivity in presentation order.
var AllGreeks = []Greek{Delta, Gamma, Vega, Theta, Rho}

// ParseGreek accepts a Greek name in any case.
func ParseGreek(s string) (Greek, error) {
	g := Greek(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllGreeks {
		if g == known {
			return g, nil
		}
	}
	return "", Invalidf("unknown greek %q", s)
}

// Meta records how a result was produced.
type Meta struct {
	Method  string                 `json:"method"`
	Model   string                 `json:"model"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PriceResult is the envelope returned by every engine's Price.
// StdErr is set only by Monte Carlo; deterministic Monte Carlo branches
// report a zero standard error.
type PriceResult struct {
	Value  float64  `json:"value"`
	StdErr *float64 `json:"stderr,omitempty"`
	Meta   Meta     `json:"meta"`
}

// WithStdErr returns r carrying the given standard error.
func (r PriceResult) WithStdErr(se float64) PriceResult {
	r.StdErr = &se
	return r
}

func (r PriceResult) String() string {
	if r.StdErr != nil {
		return fmt.Sprintf("%s price=%.6f stderr=%.6f", r.Meta.Method, r.Value, *r.StdErr)
	}
	return fmt.Sprintf("%s price=%.6f", r.Meta.Method, r.Value)
}

// GreeksResult maps each computed Greek to its value.
type GreeksResult struct {
	Values map[Greek]float64 `json:"values"`
	Meta   Meta              `json:"meta"`
}

// Get returns the value of g and whether it was computed.
func (r GreeksResult) Get(g Greek) (float64, bool) {
	v, ok := r.Values[g]
	return v, ok
}

func (r GreeksResult) Delta() float64 { return r.Values[Delta] }
func (r GreeksResult) Gamma() float64 { return r.Values[Gamma] }
func (r GreeksResult) Vega() float64 { return r.Values[Vega] }
func (r GreeksResult) Theta() float64 { return r.Values[Theta] }
func (r GreeksResult) Rho() float64 { return r.Values[Rho] }

// Names returns the computed Greeks in presentation order.
func (r GreeksResult) Names() []Greek {
	names := make([]Greek, 0, len(r.Values))
	for g := range r.Values {
		names = append(names, g)
	}
	order := map[Greek]int{}
	for i, g := range AllGreeks {
		order[g] = i
	}
	sort.Slice(names, func(i, j int) bool { return order[names[i]] < order[names[j]] })
	return names
}
