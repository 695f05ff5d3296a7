package mc

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
	"github.com/AhmadAlkadri/quant-pricing-lab/engine/analytic"
)

func setup(t *testing.T, kind domain.OptionKind, spot, strike, expiry, r, q, sigma float64) (domain.EuropeanOption, domain.Market, domain.BlackScholesModel) {
	t.Helper()
	opt, err := domain.NewEuropeanOption(kind, strike, expiry)
	if err != nil {
		t.Fatalf("option: %v", err)
	}
	rc, _ := domain.NewFlatRateCurve(r, true)
	dc, _ := domain.NewFlatDividendCurve(q, true)
	mkt, err := domain.NewMarket(spot, rc, dc)
	if err != nil {
		t.Fatalf("market: %v", err)
	}
	model, err := domain.NewBlackScholesModel(sigma)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return opt, mkt, model
}

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return e
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{NPaths: 1, NSteps: 1},
		{NPaths: 100, NSteps: 0},
		{NPaths: 100, NSteps: 1, Bumps: Bumps{Spot: -1}},
		{NPaths: 100, NSteps: 1, Bumps: Bumps{Sigma: math.NaN()}},
		{NPaths: 100, NSteps: 1, Bumps: Bumps{Time: math.Inf(1)}},
	}
	for _, cfg := range cases {
		if _, err := New(cfg); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %+v, got %v", cfg, err)
		}
	}
}

func TestPriceWithinThreeStdErrOfAnalytic(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	e := mustEngine(t, Config{NPaths: 100000, NSteps: 1, Seed: 123})
	res, err := e.Price(opt, mkt, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StdErr == nil || *res.StdErr <= 0 {
		t.Fatalf("expected a positive stderr, got %v", res.StdErr)
	}
	want := analytic.Price(opt, mkt, model).Value
	if diff := math.Abs(res.Value - want); diff > 3**res.StdErr {
		t.Errorf("mc %v vs analytic %v: diff %v exceeds 3 stderr (%v)", res.Value, want, diff, *res.StdErr)
	}
}

func TestPriceMultiStepMatchesAnalytic(t *testing.T) {
	opt, mkt, model := setup(t, domain.Put, 100, 105, 0.5, 0.03, 0.01, 0.3)
	e := mustEngine(t, Config{NPaths: 40000, NSteps: 8, Seed: 7})
	res, err := e.Price(opt, mkt, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := analytic.Price(opt, mkt, model).Value
	if diff := math.Abs(res.Value - want); diff > 4**res.StdErr {
		t.Errorf("mc %v vs analytic %v: diff %v, stderr %v", res.Value, want, diff, *res.StdErr)
	}
}

func TestPriceIsDeterministic(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	e := mustEngine(t, Config{NPaths: 5000, NSteps: 3, Seed: 42})
	a, _ := e.Price(opt, mkt, model)
	b, _ := e.Price(opt, mkt, model)
	if a.Value != b.Value || *a.StdErr != *b.StdErr {
		t.Errorf("expected identical results, got %v/%v and %v/%v", a.Value, *a.StdErr, b.Value, *b.StdErr)
	}

	other := mustEngine(t, Config{NPaths: 5000, NSteps: 3, Seed: 43})
	c, _ := other.Price(opt, mkt, model)
	if c.Value == a.Value {
		t.Errorf("expected a different seed to change the estimate")
	}
}

func TestPriceExpiryZero(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 110, 100, 0, 0.05, 0, 0.2)
	res, err := mustEngine(t, DefaultConfig()).Price(opt, mkt, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != 10 || res.StdErr == nil || *res.StdErr != 0 {
		t.Errorf("expected 10 with zero stderr, got %v", res)
	}
}

func TestPriceZeroVolatility(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0)
	res, err := mustEngine(t, DefaultConfig()).Price(opt, mkt, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Max(100*math.Exp(0.05)-100, 0) * math.Exp(-0.05)
	if math.Abs(res.Value-want) > 1e-12 || *res.StdErr != 0 {
		t.Errorf("expected %v with zero stderr, got %v", want, res)
	}
}

func TestPutCallParity(t *testing.T) {
	call, mkt, model := setup(t, domain.Call, 100, 95, 1, 0.04, 0.02, 0.25)
	put, _, _ := setup(t, domain.Put, 100, 95, 1, 0.04, 0.02, 0.25)
	e := mustEngine(t, Config{NPaths: 100000, NSteps: 1, Seed: 11})
	c, _ := e.Price(call, mkt, model)
	p, _ := e.Price(put, mkt, model)
	want := 100*math.Exp(-0.02) - 95*math.Exp(-0.04)
	if diff := math.Abs(c.Value - p.Value - want); diff > 0.3 {
		t.Errorf("parity gap %v too large", diff)
	}
}

func TestGreeksAgainstAnalytic(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	e := mustEngine(t, Config{NPaths: 200000, NSteps: 1, Seed: 123, Bumps: Bumps{Spot: 1}})
	got, err := e.Greeks(opt, mkt, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := analytic.Greeks(opt, mkt, model)
	tol := map[domain.Greek]float64{
		domain.Delta: 0.02,
		domain.Gamma: 0.003,
		domain.Vega:  0.6,
		domain.Theta: 0.3,
		domain.Rho:   0.6,
	}
	for g, eps := range tol {
		if math.Abs(got.Values[g]-want.Values[g]) > eps {
			t.Errorf("%s: mc %v, analytic %v", g, got.Values[g], want.Values[g])
		}
	}
	if got.Meta.Details["crn"] != true {
		t.Errorf("expected crn flag in meta, got %v", got.Meta.Details)
	}
}

func TestGreeksSubset(t *testing.T) {
	opt, mkt, model := setup(t, domain.Put, 100, 100, 1, 0.05, 0, 0.2)
	e := mustEngine(t, Config{NPaths: 2000, NSteps: 1, Seed: 1})
	res, err := e.Greeks(opt, mkt, model, domain.Vega)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.Get(domain.Vega); !ok || len(res.Values) != 1 {
		t.Errorf("expected only vega, got %v", res.Values)
	}
	if _, err := e.Greeks(opt, mkt, model, domain.Greek("vomma")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGreeksZeroVolatilityClampsVega(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0)
	e := mustEngine(t, Config{NPaths: 20000, NSteps: 1, Seed: 5})
	res, err := e.Greeks(opt, mkt, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(res.Vega()) || math.IsInf(res.Vega(), 0) {
		t.Fatalf("expected finite vega, got %v", res.Vega())
	}
	// deep in the money forward: every scenario is linear in spot.
	if math.Abs(res.Delta()-1) > 1e-9 || math.Abs(res.Gamma()) > 1e-6 {
		t.Errorf("expected delta 1 and gamma 0, got %v %v", res.Delta(), res.Gamma())
	}
	if res.Meta.Details["degenerate"] != true {
		t.Errorf("expected degenerate flag, got %v", res.Meta.Details)
	}
}

func TestGreeksExpiryZeroClampsTheta(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 110, 100, 0, 0.05, 0, 0.2)
	e := mustEngine(t, Config{NPaths: 2000, NSteps: 1, Seed: 5})
	res, err := e.Greeks(opt, mkt, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Delta()-1) > 1e-9 || math.Abs(res.Gamma()) > 1e-6 || res.Vega() != 0 {
		t.Errorf("unexpected expired greeks %v", res.Values)
	}
	if math.IsNaN(res.Theta()) || math.IsInf(res.Theta(), 0) {
		t.Errorf("expected finite theta, got %v", res.Theta())
	}
}

func TestCommonRandomNumbersReduceDeltaVariance(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	const h = 1.0
	up, _ := mkt.WithSpot(100 + h)
	down, _ := mkt.WithSpot(100 - h)

	var crn, independent []float64
	for seed := uint64(1); seed <= 20; seed++ {
		cfg := Config{NPaths: 2000, NSteps: 1, Seed: seed, Bumps: Bumps{Spot: h}}
		g, err := mustEngine(t, cfg).Greeks(opt, mkt, model, domain.Delta)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		crn = append(crn, g.Delta())

		cfg.Seed = 1000 + seed
		pu, _ := mustEngine(t, cfg).Price(opt, up, model)
		cfg.Seed = 2000 + seed
		pd, _ := mustEngine(t, cfg).Price(opt, down, model)
		independent = append(independent, (pu.Value-pd.Value)/(2*h))
	}

	vc := stat.Variance(crn, nil)
	vi := stat.Variance(independent, nil)
	if vc >= 0.1*vi {
		t.Errorf("expected crn variance %v to be far below independent variance %v", vc, vi)
	}
}

func TestBumpDefaults(t *testing.T) {
	var b Bumps
	if h := b.spotBump(100); math.Abs(h-1e-2) > 1e-15 {
		t.Errorf("expected relative spot bump 1e-2, got %v", h)
	}
	if h := b.spotBump(1e-3); h != 1e-6 {
		t.Errorf("expected floor 1e-6, got %v", h)
	}
	if h := (Bumps{Spot: 5}).spotBump(4); h != 2 {
		t.Errorf("expected bump halved to 0.5*spot, got %v", h)
	}
	if b.sigmaBump() != 1e-4 || b.rateBump() != 1e-5 || b.timeBump() != 1e-4 {
		t.Errorf("unexpected defaults %v %v %v", b.sigmaBump(), b.rateBump(), b.timeBump())
	}
}
