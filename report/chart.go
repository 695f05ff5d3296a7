package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	qpl "github.com/AhmadAlkadri/quant-pricing-lab"
)

// RenderConvergenceHTML writes an interactive line chart of Monte Carlo
// estimates against path count, with a three standard error band and the
// analytic price as a flat reference line.
func RenderConvergenceHTML(w io.Writer, points []qpl.ConvergencePoint, analytic float64) error {
	if len(points) == 0 {
		return fmt.Errorf("no convergence points to render")
	}
	xs := make([]string, len(points))
	est := make([]opts.LineData, len(points))
	lo := make([]opts.LineData, len(points))
	hi := make([]opts.LineData, len(points))
	ref := make([]opts.LineData, len(points))
	for i, p := range points {
		xs[i] = fmt.Sprint(p.NPaths)
		est[i] = opts.LineData{Value: p.Value}
		lo[i] = opts.LineData{Value: p.Value - 3*p.StdErr}
		hi[i] = opts.LineData{Value: p.Value + 3*p.StdErr}
		ref[i] = opts.LineData{Value: analytic}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Monte Carlo convergence",
			Subtitle: fmt.Sprintf("analytic price %.6f", analytic),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "paths"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "price"}),
	)
	line.SetXAxis(xs).
		AddSeries("mc", est).
		AddSeries("mc - 3se", lo).
		AddSeries("mc + 3se", hi).
		AddSeries("analytic", ref)
	return line.Render(w)
}
