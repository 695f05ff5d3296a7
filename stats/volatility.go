package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// sampleStd is the unbiased standard deviation, or with demean false the
// root of sum(r^2)/(n-1), i.e. the same estimator around a zero mean.
func sampleStd(r []float64, demean bool) float64 {
	if demean {
		return stat.StdDev(r, nil)
	}
	return math.Sqrt(floats.Dot(r, r) / float64(len(r)-1))
}

// RealizedVolatility annualizes the standard deviation of returns. A single
// return has no spread and yields 0.
func RealizedVolatility(returns []float64, annualization float64, demean bool) (float64, error) {
	if len(returns) == 0 {
		return 0, domain.Invalidf("returns cannot be empty")
	}
	if err := checkAnnualization(annualization); err != nil {
		return 0, err
	}
	if len(returns) < 2 {
		return 0, nil
	}
	return sampleStd(returns, demean) * math.Sqrt(annualization), nil
}

// HistoricalVolatility is RealizedVolatility of the log returns of prices.
func HistoricalVolatility(prices []float64, annualization float64, demean bool) (float64, error) {
	r, err := LogReturns(prices)
	if err != nil {
		return 0, err
	}
	return RealizedVolatility(r, annualization, demean)
}

// RollingRealizedVolatility returns one value per price: element t uses the
// window returns ending at price t. The first window elements are NaN, as is
// every element when prices cannot form returns.
func RollingRealizedVolatility(prices []float64, window int, annualization float64, demean bool) ([]float64, error) {
	if window < 2 {
		return nil, domain.Invalidf("window must be >= 2, got %d", window)
	}
	if err := checkAnnualization(annualization); err != nil {
		return nil, err
	}
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	r, err := LogReturns(prices)
	if err != nil {
		return out, nil
	}
	scale := math.Sqrt(annualization)
	for end := window; end <= len(r); end++ {
		out[end] = sampleStd(r[end-window:end], demean) * scale
	}
	return out, nil
}
