// Package report renders pricing results for people: coloured terminal
// tables, rounded JSON records and charts.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/fatih/color"

	qpl "github.com/AhmadAlkadri/quant-pricing-lab"
	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// Row is one method's line in a comparison table.
type Row struct {
	Method string
	Price  float64
	StdErr *float64
	Greeks map[domain.Greek]float64

	Diff float64
	Rank int
}

// RowsFromComparisons flattens dispatcher output into table rows.
func RowsFromComparisons(cs []qpl.Comparison) []Row {
	rows := make([]Row, len(cs))
	for i, c := range cs {
		rows[i] = Row{
			Method: string(c.Method),
			Price:  c.Price.Value,
			StdErr: c.Price.StdErr,
			Greeks: c.Greeks.Values,
		}
	}
	return rows
}

// RankByDiff sets Diff to the absolute price difference from the reference
// method's row and ranks rows by it, 1 being the closest. The reference
// itself gets rank 0. Without a reference row the first row is used.
func RankByDiff(rows []Row, reference string) {
	if len(rows) == 0 {
		return
	}
	ref := rows[0].Price
	refIdx := 0
	for i, r := range rows {
		if r.Method == reference {
			ref, refIdx = r.Price, i
			break
		}
	}
	order := make([]*Row, 0, len(rows))
	for i := range rows {
		rows[i].Diff = math.Abs(rows[i].Price - ref)
		rows[i].Rank = 0
		if i != refIdx {
			order = append(order, &rows[i])
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Diff < order[j].Diff
	})
	for i, r := range order {
		r.Rank = i + 1
	}
}

// withinTolerance accepts a Monte Carlo row within three standard errors
// and any other row within tol.
func withinTolerance(r Row, tol float64) bool {
	if r.StdErr != nil && *r.StdErr > 0 {
		return r.Diff <= math.Max(3**r.StdErr, tol)
	}
	return r.Diff <= tol
}

func formatGreek(r Row, g domain.Greek) string {
	v, ok := r.Greeks[g]
	if !ok {
		return fmt.Sprintf("%-10s", "-")
	}
	return fmt.Sprintf("%-10.4f", v)
}

// PrintComparison writes rows as a table ranked against the analytic price.
// Differences within tolerance are green, the rest red.
func PrintComparison(w io.Writer, rows []Row, tol float64) {
	RankByDiff(rows, string(qpl.Analytic))

	greenColor := color.New(color.FgGreen).SprintFunc()
	redColor := color.New(color.FgRed).SprintFunc()
	methodColor := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%-10s %-12s %-10s %-12s %-4s || %-10s %-10s %-10s %-10s %-10s\n",
		"Method", "Price", "StdErr", "AbsDiff", "Rank",
		"Delta", "Gamma", "Vega", "Theta", "Rho")
	for _, r := range rows {
		se := "-"
		if r.StdErr != nil {
			se = fmt.Sprintf("%.6f", *r.StdErr)
		}
		diffColor := redColor
		if withinTolerance(r, tol) {
			diffColor = greenColor
		}
		fmt.Fprintf(w, "%s %-12.6f %-10s %s %-4d || %s%s%s%s%s\n",
			methodColor(fmt.Sprintf("%-10s", r.Method)),
			r.Price, se,
			diffColor(fmt.Sprintf("%-12.6f", r.Diff)),
			r.Rank,
			formatGreek(r, domain.Delta), formatGreek(r, domain.Gamma),
			formatGreek(r, domain.Vega), formatGreek(r, domain.Theta),
			formatGreek(r, domain.Rho))
	}
}

// PrintPrice writes a single result on one line.
func PrintPrice(w io.Writer, res domain.PriceResult) {
	label := color.New(color.FgYellow).SprintFunc()
	if res.StdErr != nil {
		fmt.Fprintf(w, "%s price=%.6f stderr=%.6f\n", label(res.Meta.Method), res.Value, *res.StdErr)
		return
	}
	fmt.Fprintf(w, "%s price=%.6f\n", label(res.Meta.Method), res.Value)
}

// PrintGreeks writes the computed Greeks in presentation order.
func PrintGreeks(w io.Writer, res domain.GreeksResult) {
	label := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, "%s\n", label(res.Meta.Method))
	for _, g := range res.Names() {
		fmt.Fprintf(w, "  %-6s %.6f\n", g, res.Values[g])
	}
}
