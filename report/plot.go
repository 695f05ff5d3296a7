package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Profile is a value curve over spot, e.g. one engine's prices on a grid.
type Profile struct {
	Name   string
	Spots  []float64
	Values []float64
}

// SavePriceProfilePNG draws every profile on one set of axes and saves the
// plot to path. The image format follows the file extension.
func SavePriceProfilePNG(path, title string, profiles []Profile) error {
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "spot"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	for i, prof := range profiles {
		if len(prof.Spots) != len(prof.Values) {
			return fmt.Errorf("profile %s has %d spots and %d values", prof.Name, len(prof.Spots), len(prof.Values))
		}
		pts := make(plotter.XYs, len(prof.Spots))
		for j := range pts {
			pts[j].X = prof.Spots[j]
			pts[j].Y = prof.Values[j]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("profile %s: %w", prof.Name, err)
		}
		l.Color = plotutil.Color(i)
		l.Dashes = plotutil.Dashes(i)
		p.Add(l)
		p.Legend.Add(prof.Name, l)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
