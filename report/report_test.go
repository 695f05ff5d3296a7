package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	qpl "github.com/AhmadAlkadri/quant-pricing-lab"
	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

func init() {
	color.NoColor = true
}

func testRows() []Row {
	se := 0.05
	return []Row{
		{Method: "analytic", Price: 10.450584, Greeks: map[domain.Greek]float64{domain.Delta: 0.6368}},
		{Method: "mc", Price: 10.47, StdErr: &se},
		{Method: "pde", Price: 10.4503},
	}
}

func TestRankByDiff(t *testing.T) {
	rows := testRows()
	RankByDiff(rows, "analytic")
	if rows[0].Rank != 0 || rows[0].Diff != 0 {
		t.Errorf("reference row: expected rank 0 and diff 0, got %+v", rows[0])
	}
	if rows[2].Rank != 1 || rows[1].Rank != 2 {
		t.Errorf("expected pde ranked before mc, got pde=%d mc=%d", rows[2].Rank, rows[1].Rank)
	}
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	PrintComparison(&buf, testRows(), 1e-3)
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Delta") || !strings.Contains(lines[1], "0.6368") {
		t.Errorf("missing greek columns:\n%s", out)
	}
	if !strings.Contains(lines[2], "0.050000") {
		t.Errorf("expected mc stderr in row:\n%s", lines[2])
	}
	if !strings.Contains(lines[3], " - ") {
		t.Errorf("expected placeholder for missing values:\n%s", lines[3])
	}
}

func TestWithinTolerance(t *testing.T) {
	se := 0.05
	if !withinTolerance(Row{Diff: 0.1, StdErr: &se}, 1e-3) {
		t.Error("expected mc diff inside three standard errors to pass")
	}
	if withinTolerance(Row{Diff: 0.1}, 1e-3) {
		t.Error("expected deterministic diff above tolerance to fail")
	}
}

func TestPriceRecordRoundsValues(t *testing.T) {
	se := 0.0123456789
	res := domain.PriceResult{Value: 10.450583572185565, StdErr: &se, Meta: domain.Meta{Method: "mc", Model: "BlackScholes"}}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewPriceRecord(res, 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if decoded["value"] != "10.4506" || decoded["stderr"] != "0.0123" {
		t.Errorf("unexpected rounding: %s", buf.String())
	}
}

func TestGreeksRecord(t *testing.T) {
	res := domain.GreeksResult{
		Values: map[domain.Greek]float64{domain.Delta: 0.63683065, domain.Gamma: 0.0187620},
		Meta:   domain.Meta{Method: "pde"},
	}
	rec := NewGreeksRecord(res, DefaultPlaces)
	if rec.Value != nil {
		t.Errorf("greeks record must not carry a value")
	}
	if got := rec.Greeks["delta"].String(); got != "0.636831" {
		t.Errorf("expected delta 0.636831, got %s", got)
	}
}

func TestRenderConvergenceHTML(t *testing.T) {
	points := []qpl.ConvergencePoint{
		{NPaths: 1000, Value: 10.3, StdErr: 0.46},
		{NPaths: 10000, Value: 10.48, StdErr: 0.15},
	}
	var buf bytes.Buffer
	if err := RenderConvergenceHTML(&buf, points, 10.4506); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Monte Carlo convergence") || !strings.Contains(out, "10000") {
		t.Errorf("chart is missing its title or data")
	}
	if err := RenderConvergenceHTML(&buf, nil, 0); err == nil {
		t.Error("expected an error for no points")
	}
}

func TestSavePriceProfilePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.png")
	profiles := []Profile{
		{Name: "pde", Spots: []float64{80, 100, 120}, Values: []float64{1.9, 10.4, 24.6}},
		{Name: "analytic", Spots: []float64{80, 100, 120}, Values: []float64{1.86, 10.45, 24.59}},
	}
	if err := SavePriceProfilePNG(path, "call value", profiles); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected a non-empty png, got %v %v", info, err)
	}
	bad := []Profile{{Name: "x", Spots: []float64{1}, Values: nil}}
	if err := SavePriceProfilePNG(path, "bad", bad); err == nil {
		t.Error("expected a length mismatch error")
	}
}
