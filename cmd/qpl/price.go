package main

import (
	"github.com/spf13/cobra"

	qpl "github.com/AhmadAlkadri/quant-pricing-lab"
	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
	"github.com/AhmadAlkadri/quant-pricing-lab/report"
)

// --- Price Command ---

var priceFlags *optionFlags

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a European option with one method",
	Example: `  qpl price --kind call --strike 100 --spot 100 --expiry 1 --sigma 0.2
  qpl price --method mc --paths 200000 --seed 7 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, mkt, model, err := priceFlags.inputs(cmd)
		if err != nil {
			return err
		}
		method, err := qpl.ParseMethod(priceFlags.method)
		if err != nil {
			return err
		}
		res, err := qpl.Price(opt, mkt, model, method, priceFlags.settings(cmd))
		if err != nil {
			return err
		}
		if priceFlags.json {
			return report.WriteJSON(cmd.OutOrStdout(), report.NewPriceRecord(res, cfg.Report.Places))
		}
		report.PrintPrice(cmd.OutOrStdout(), res)
		return nil
	},
}

// --- Greeks Command ---

var (
	greeksFlags *optionFlags
	greekNames  []string
)

var greeksCmd = &cobra.Command{
	Use:   "greeks",
	Short: "Compute price sensitivities with one method",
	Example: `  qpl greeks --method mc --greeks delta,vega
  qpl greeks --method pde --ns 400 --nt 400`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, mkt, model, err := greeksFlags.inputs(cmd)
		if err != nil {
			return err
		}
		method, err := qpl.ParseMethod(greeksFlags.method)
		if err != nil {
			return err
		}
		greeks := make([]domain.Greek, 0, len(greekNames))
		for _, name := range greekNames {
			g, err := domain.ParseGreek(name)
			if err != nil {
				return err
			}
			greeks = append(greeks, g)
		}
		res, err := qpl.Greeks(opt, mkt, model, method, greeksFlags.settings(cmd), greeks...)
		if err != nil {
			return err
		}
		if greeksFlags.json {
			return report.WriteJSON(cmd.OutOrStdout(), report.NewGreeksRecord(res, cfg.Report.Places))
		}
		report.PrintGreeks(cmd.OutOrStdout(), res)
		return nil
	},
}

// --- Compare Command ---

var compareFlags *optionFlags

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every method on the same inputs and rank them against analytic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, mkt, model, err := compareFlags.inputs(cmd)
		if err != nil {
			return err
		}
		cs, err := qpl.Compare(cmd.Context(), opt, mkt, model, compareFlags.settings(cmd))
		if err != nil {
			return err
		}
		if compareFlags.json {
			records := make(map[string]report.Record, 2*len(cs))
			for _, c := range cs {
				records[string(c.Method)+".price"] = report.NewPriceRecord(c.Price, cfg.Report.Places)
				records[string(c.Method)+".greeks"] = report.NewGreeksRecord(c.Greeks, cfg.Report.Places)
			}
			return report.WriteJSON(cmd.OutOrStdout(), records)
		}
		rows := report.RowsFromComparisons(cs)
		report.RankByDiff(rows, string(qpl.Analytic))
		report.PrintComparison(cmd.OutOrStdout(), rows, cfg.Report.Tolerance)
		return nil
	},
}

func init() {
	priceFlags = newOptionFlags(priceCmd)
	greeksFlags = newOptionFlags(greeksCmd)
	greeksCmd.Flags().StringSliceVar(&greekNames, "greeks", nil, "greeks to compute (default: all the method supports)")
	compareFlags = newOptionFlags(compareCmd)
}
