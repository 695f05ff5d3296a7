package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	qpl "github.com/AhmadAlkadri/quant-pricing-lab"
	"github.com/AhmadAlkadri/quant-pricing-lab/engine/analytic"
	"github.com/AhmadAlkadri/quant-pricing-lab/engine/pde"
	"github.com/AhmadAlkadri/quant-pricing-lab/report"
	"github.com/AhmadAlkadri/quant-pricing-lab/stats"
)

// --- Implied Volatility Command ---

var (
	ivFlags *optionFlags
	ivPrice float64
)

var ivCmd = &cobra.Command{
	Use:     "iv",
	Short:   "Back out the Black-Scholes volatility from an option price",
	Example: `  qpl iv --kind put --strike 95 --spot 100 --expiry 0.5 --price 3.2`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, mkt, _, err := ivFlags.inputs(cmd)
		if err != nil {
			return err
		}
		sigma, err := analytic.ImpliedVolatility(ivPrice, opt, mkt, analytic.DefaultIVOptions())
		if err != nil {
			return err
		}
		if ivFlags.json {
			return report.WriteJSON(cmd.OutOrStdout(), map[string]float64{"price": ivPrice, "implied_vol": sigma})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s price=%.6f implied_vol=%.6f\n", opt, ivPrice, sigma)
		return nil
	},
}

// --- Historical Volatility Command ---

var (
	volTicker string
	volStart  string
	volEnd    string
	volWindow int
	volDemean bool
)

var volCmd = &cobra.Command{
	Use:     "vol",
	Short:   "Estimate historical volatility from cached daily closes",
	Example: `  qpl vol --ticker SPY --start 2023-01-01 --end 2024-01-01 --window 21`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		series, err := cfg.NewCache().GetPrices(cmd.Context(), volTicker, volStart, volEnd)
		if err != nil {
			return err
		}
		ann := cfg.MarketData.Annualization
		hv, err := stats.HistoricalVolatility(series.Closes, ann, volDemean)
		if err != nil {
			return err
		}
		rets, err := stats.LogReturns(series.Closes)
		if err != nil {
			return err
		}
		fit, err := stats.FitNormalReturns(rets, ann)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s..%s closes=%d\n", volTicker, volStart, volEnd, series.Len())
		fmt.Fprintf(w, "  historical vol  %.6f\n", hv)
		fmt.Fprintf(w, "  mu daily        %.6f  annual %.6f\n", fit.MuDaily, fit.MuAnnual)
		fmt.Fprintf(w, "  sigma daily     %.6f  annual %.6f\n", fit.SigmaDaily, fit.SigmaAnnual)
		if volWindow > 0 {
			rolling, err := stats.RollingRealizedVolatility(series.Closes, volWindow, ann, volDemean)
			if err != nil {
				return err
			}
			if last := rolling[len(rolling)-1]; !math.IsNaN(last) {
				fmt.Fprintf(w, "  rolling vol(%d) %.6f on %s\n", volWindow, last,
					series.Dates[len(series.Dates)-1].Format("2006-01-02"))
			}
		}
		return nil
	},
}

// --- Convergence Command ---

var (
	convergeFlags *optionFlags
	convergePaths []int
	convergeOut   string
)

var convergeCmd = &cobra.Command{
	Use:   "converge",
	Short: "Chart Monte Carlo estimates against path count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, mkt, model, err := convergeFlags.inputs(cmd)
		if err != nil {
			return err
		}
		points, err := qpl.MCConvergence(cmd.Context(), opt, mkt, model, convergeFlags.settings(cmd).MC, convergePaths)
		if err != nil {
			return err
		}
		if convergeFlags.json {
			return report.WriteJSON(cmd.OutOrStdout(), points)
		}

		f, err := os.Create(convergeOut)
		if err != nil {
			return err
		}
		ref := analytic.Price(opt, mkt, model).Value
		if err := report.RenderConvergenceHTML(f, points, ref); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, p := range points {
			fmt.Fprintf(w, "n=%-8d value=%.6f stderr=%.6f err=%+.6f\n", p.NPaths, p.Value, p.StdErr, p.Value-ref)
		}
		fmt.Fprintf(w, "chart written to %s\n", convergeOut)
		return nil
	},
}

// --- Profile Command ---

var (
	profileFlags *optionFlags
	profileLo    float64
	profileHi    float64
	profileOut   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Plot the PDE value profile against the closed form over a spot range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !(profileLo > 0 && profileHi > profileLo) {
			return fmt.Errorf("need 0 < lo < hi, got lo=%v hi=%v", profileLo, profileHi)
		}
		opt, mkt, model, err := profileFlags.inputs(cmd)
		if err != nil {
			return err
		}
		e, err := pde.New(profileFlags.settings(cmd).PDE)
		if err != nil {
			return err
		}
		nodes, values, err := e.Layer(opt, mkt, model)
		if err != nil {
			return err
		}

		lo, hi := profileLo*mkt.Spot(), profileHi*mkt.Spot()
		grid := report.Profile{Name: "pde"}
		exact := report.Profile{Name: "analytic"}
		maxErr := 0.0
		for i, s := range nodes {
			if s < lo || s > hi {
				continue
			}
			m, err := mkt.WithSpot(s)
			if err != nil {
				return err
			}
			v := analytic.Price(opt, m, model).Value
			grid.Spots = append(grid.Spots, s)
			grid.Values = append(grid.Values, values[i])
			exact.Spots = append(exact.Spots, s)
			exact.Values = append(exact.Values, v)
			maxErr = math.Max(maxErr, math.Abs(values[i]-v))
		}
		if len(grid.Spots) == 0 {
			return fmt.Errorf("no grid nodes in [%v, %v]", lo, hi)
		}

		title := fmt.Sprintf("%s sigma=%.2f", opt, model.Sigma())
		if err := report.SavePriceProfilePNG(profileOut, title, []report.Profile{grid, exact}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "nodes=%d max abs error=%.6f, plot written to %s\n",
			len(grid.Spots), maxErr, profileOut)
		return nil
	},
}

func init() {
	ivFlags = newOptionFlags(ivCmd)
	ivCmd.Flags().Float64Var(&ivPrice, "price", 0, "observed option price")
	ivCmd.MarkFlagRequired("price")

	volCmd.Flags().StringVar(&volTicker, "ticker", "", "symbol to download, e.g. SPY")
	volCmd.Flags().StringVar(&volStart, "start", "", "first date, YYYY-MM-DD")
	volCmd.Flags().StringVar(&volEnd, "end", "", "end date (exclusive), YYYY-MM-DD")
	volCmd.Flags().IntVar(&volWindow, "window", 0, "also report a rolling volatility over this many returns")
	volCmd.Flags().BoolVar(&volDemean, "demean", true, "subtract the mean return before squaring")
	volCmd.MarkFlagRequired("ticker")
	volCmd.MarkFlagRequired("start")
	volCmd.MarkFlagRequired("end")

	convergeFlags = newOptionFlags(convergeCmd)
	convergeCmd.Flags().IntSliceVar(&convergePaths, "path-counts", []int{1000, 5000, 20000, 100000}, "Monte Carlo path counts to run")
	convergeCmd.Flags().StringVar(&convergeOut, "out", "convergence.html", "HTML chart output path")

	profileFlags = newOptionFlags(profileCmd)
	profileCmd.Flags().Float64Var(&profileLo, "lo", 0.5, "lowest plotted spot as a multiple of --spot")
	profileCmd.Flags().Float64Var(&profileHi, "hi", 1.5, "highest plotted spot as a multiple of --spot")
	profileCmd.Flags().StringVar(&profileOut, "out", "profile.png", "plot output path; the extension picks the format")
}
