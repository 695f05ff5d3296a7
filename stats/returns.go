// Package stats estimates volatility and return statistics from price
// histories, e.g. daily closes fetched by package marketdata.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// TradingDays is the usual annualization factor for daily data.
const TradingDays = 252.0

// LogReturns returns ln(p[t]/p[t-1]) for t >= 1. It needs at least two
// strictly positive prices.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, domain.Invalidf("at least 2 prices are required to compute returns, got %d", len(prices))
	}
	for i, p := range prices {
		if err := domain.CheckFinite("price", p); err != nil {
			return nil, err
		}
		if p <= 0 {
			return nil, domain.Invalidf("prices must be strictly positive, got %v at %d", p, i)
		}
	}
	out := make([]float64, len(prices)-1)
	for i := range out {
		out[i] = math.Log(prices[i+1] / prices[i])
	}
	return out, nil
}

// NormalParams are the moments of returns fitted to a normal distribution,
// per period and annualized.
type NormalParams struct {
	MuDaily     float64 `json:"mu_daily"`
	SigmaDaily  float64 `json:"sigma_daily"`
	MuAnnual    float64 `json:"mu_annual"`
	SigmaAnnual float64 `json:"sigma_annual"`
}

// FitNormalReturns fits the sample mean and unbiased standard deviation.
// The mean scales linearly with annualization and sigma with its root.
func FitNormalReturns(returns []float64, annualization float64) (NormalParams, error) {
	if len(returns) < 2 {
		return NormalParams{}, domain.Invalidf("need at least 2 returns to fit parameters, got %d", len(returns))
	}
	if err := checkAnnualization(annualization); err != nil {
		return NormalParams{}, err
	}
	mu, sigma := stat.MeanStdDev(returns, nil)
	return NormalParams{
		MuDaily:     mu,
		SigmaDaily:  sigma,
		MuAnnual:    mu * annualization,
		SigmaAnnual: sigma * math.Sqrt(annualization),
	}, nil
}

func checkAnnualization(a float64) error {
	if err := domain.CheckFinite("annualization", a); err != nil {
		return err
	}
	if a <= 0 {
		return domain.Invalidf("annualization must be > 0, got %v", a)
	}
	return nil
}
