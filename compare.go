package qpl

import (
	"context"
	"runtime"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
	"github.com/AhmadAlkadri/quant-pricing-lab/engine/mc"
)

// Comparison is one method's price and supported Greeks for the same inputs.
type Comparison struct {
	Method Method
	Price  domain.PriceResult
	Greeks domain.GreeksResult
}

// Compare runs every method concurrently and returns the results in Methods
// order. Engines share no state, so the runs are independent. The first
// failure cancels the rest and is returned.
func Compare(ctx context.Context, opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel, settings Settings) ([]Comparison, error) {
	out := make([]Comparison, len(Methods))
	g, gctx := errgroup.WithContext(ctx)
	for i, method := range Methods {
		i, method := i, method
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			engine, err := NewEngine(method, settings)
			if err != nil {
				return err
			}
			price, err := engine.Price(opt, mkt, model)
			if err != nil {
				return err
			}
			greeks, err := engine.Greeks(opt, mkt, model)
			if err != nil {
				return err
			}
			out[i] = Comparison{Method: method, Price: price, Greeks: greeks}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		glog.Errorf("compare %s: %v", opt, err)
		return nil, err
	}
	return out, nil
}

// ConvergencePoint is a Monte Carlo estimate at one path count.
type ConvergencePoint struct {
	NPaths int     `json:"n_paths"`
	Value  float64 `json:"value"`
	StdErr float64 `json:"stderr"`
}

// MCConvergence prices opt with cfg once per path count, in parallel, keeping
// every other setting (the seed included) fixed.
func MCConvergence(ctx context.Context, opt domain.EuropeanOption, mkt domain.Market, model domain.BlackScholesModel, cfg mc.Config, paths []int) ([]ConvergencePoint, error) {
	engines := make([]*mc.Engine, len(paths))
	for i, n := range paths {
		c := cfg
		c.NPaths = n
		e, err := mc.New(c)
		if err != nil {
			return nil, err
		}
		engines[i] = e
	}

	out := make([]ConvergencePoint, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, e := range engines {
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Price(opt, mkt, model)
			if err != nil {
				return err
			}
			p := ConvergencePoint{NPaths: e.Config().NPaths, Value: res.Value}
			if res.StdErr != nil {
				p.StdErr = *res.StdErr
			}
			out[i] = p
			glog.V(1).Infof("mc convergence n=%d value=%.6f stderr=%.6f", p.NPaths, p.Value, p.StdErr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
