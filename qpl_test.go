package qpl

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
	"github.com/AhmadAlkadri/quant-pricing-lab/engine/mc"
)

type barrierOption struct{}

func (barrierOption) InstrumentName() string { return "BarrierOption" }

func setup(t *testing.T, kind domain.OptionKind, spot, strike, expiry, r, q, sigma float64) (domain.EuropeanOption, domain.Market, domain.BlackScholesModel) {
	t.Helper()
	opt, err := domain.NewEuropeanOption(kind, strike, expiry)
	if err != nil {
		t.Fatalf("option: %v", err)
	}
	rc, _ := domain.NewFlatRateCurve(r, false)
	dc, _ := domain.NewFlatDividendCurve(q, false)
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

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{"analytic": Analytic, " MC ": MC, "Pde": PDE} {
		got, err := ParseMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseMethod(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMethod("binomial"); !errors.Is(err, domain.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
}

func TestPriceDispatchesToEachMethod(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	settings := DefaultSettings()
	for _, m := range Methods {
		res, err := Price(opt, mkt, model, m, settings)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if res.Meta.Method != string(m) {
			t.Errorf("expected meta method %s, got %s", m, res.Meta.Method)
		}
		if math.Abs(res.Value-10.4506) > 0.2 {
			t.Errorf("%s: price %v far from 10.4506", m, res.Value)
		}
	}
}

func TestPriceAcceptsPointerInstrument(t *testing.T) {
	opt, mkt, model := setup(t, domain.Put, 100, 100, 1, 0.05, 0, 0.2)
	if _, err := Price(&opt, mkt, model, Analytic, DefaultSettings()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	var nilOpt *domain.EuropeanOption
	if _, err := Price(nilOpt, mkt, model, Analytic, DefaultSettings()); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPriceRejectsUnsupported(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	if _, err := Price(barrierOption{}, mkt, model, Analytic, DefaultSettings()); !errors.Is(err, domain.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for instrument, got %v", err)
	}
	if _, err := Price(opt, mkt, model, Method("lattice"), DefaultSettings()); !errors.Is(err, domain.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for method, got %v", err)
	}
	if _, err := Greeks(opt, mkt, model, PDE, DefaultSettings(), domain.Vega); !errors.Is(err, domain.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for pde vega, got %v", err)
	}
}

func TestPricePropagatesConfigErrors(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	settings := DefaultSettings()
	settings.MC.NPaths = 1
	if _, err := Price(opt, mkt, model, MC, settings); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	// the analytic engine does not read MC settings.
	if _, err := Price(opt, mkt, model, Analytic, settings); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpiredOptionAcrossEngines(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 110, 100, 0, 0.05, 0, 0.2)
	for _, m := range Methods {
		res, err := Price(opt, mkt, model, m, DefaultSettings())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if res.Value != 10 {
			t.Errorf("%s: expected 10, got %v", m, res.Value)
		}
		if m == MC && (res.StdErr == nil || *res.StdErr != 0) {
			t.Errorf("mc: expected zero stderr, got %v", res.StdErr)
		}
	}
}

func TestZeroValueInputsRejectedByEveryMethod(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	cases := []struct {
		name  string
		opt   domain.EuropeanOption
		mkt   domain.Market
		model domain.BlackScholesModel
	}{
		{"option", domain.EuropeanOption{}, mkt, model},
		{"market", opt, domain.Market{}, model},
		{"model", opt, mkt, domain.BlackScholesModel{}},
	}
	for _, m := range Methods {
		for _, c := range cases {
			if _, err := Price(c.opt, c.mkt, c.model, m, DefaultSettings()); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("%s price with zero %s: expected ErrInvalidInput, got %v", m, c.name, err)
			}
			if _, err := Greeks(c.opt, c.mkt, c.model, m, DefaultSettings()); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("%s greeks with zero %s: expected ErrInvalidInput, got %v", m, c.name, err)
			}
		}
		if _, err := Price(&domain.EuropeanOption{}, mkt, model, m, DefaultSettings()); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected zero option pointer rejected, got %v", m, err)
		}
	}
}

func TestZeroVolatilityAgreesAcrossEngines(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0)
	want := math.Max(100*math.Exp(0.05)-100, 0) * math.Exp(-0.05)
	for _, m := range Methods {
		res, err := Price(opt, mkt, model, m, DefaultSettings())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if math.Abs(res.Value-want) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", m, want, res.Value)
		}
	}
}

func TestGreeksSubsetThroughDispatcher(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	res, err := Greeks(opt, mkt, model, Analytic, DefaultSettings(), domain.Delta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Values) != 1 || math.Abs(res.Delta()-0.6368306511756191) > 1e-9 {
		t.Errorf("unexpected greeks %v", res.Values)
	}
}

func TestCompare(t *testing.T) {
	opt, mkt, model := setup(t, domain.Put, 100, 100, 1, 0.05, 0, 0.2)
	settings := DefaultSettings()
	settings.MC.NPaths = 20000
	rows, err := Compare(context.Background(), opt, mkt, model, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != len(Methods) {
		t.Fatalf("expected %d rows, got %d", len(Methods), len(rows))
	}
	for i, row := range rows {
		if row.Method != Methods[i] {
			t.Errorf("row %d: expected %s, got %s", i, Methods[i], row.Method)
		}
		if math.Abs(row.Price.Value-rows[0].Price.Value) > 0.2 {
			t.Errorf("%s: price %v far from analytic %v", row.Method, row.Price.Value, rows[0].Price.Value)
		}
	}
	if _, ok := rows[2].Greeks.Get(domain.Vega); ok {
		t.Errorf("pde row must not carry vega")
	}
}

func TestCompareFailsOnBadSettings(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	settings := DefaultSettings()
	settings.PDE.NS = 1
	if _, err := Compare(context.Background(), opt, mkt, model, settings); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMCConvergence(t *testing.T) {
	opt, mkt, model := setup(t, domain.Call, 100, 100, 1, 0.05, 0, 0.2)
	paths := []int{1000, 4000, 16000}
	points, err := MCConvergence(context.Background(), opt, mkt, model, mc.DefaultConfig(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range points {
		if p.NPaths != paths[i] {
			t.Errorf("point %d: expected %d paths, got %d", i, paths[i], p.NPaths)
		}
		if i > 0 && p.StdErr >= points[i-1].StdErr {
			t.Errorf("expected stderr to shrink, got %v after %v", p.StdErr, points[i-1].StdErr)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := MCConvergence(ctx, opt, mkt, model, mc.DefaultConfig(), paths); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := MCConvergence(context.Background(), opt, mkt, model, mc.DefaultConfig(), []int{1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
