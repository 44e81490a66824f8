package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"rfsim/pkg/filter"
)

// SaveBode renders the magnitude trace of a filter response as a Bode plot
// with a log frequency axis and writes it to path; the format follows the
// file extension (png, svg, pdf).
func SaveBode(path, title string, r *filter.Response) error {
	if len(r.Frequencies) == 0 {
		return fmt.Errorf("report: response has no points to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency [Hz]"
	p.Y.Label.Text = "Magnitude [dB]"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(r.Frequencies))
	for i, freq := range r.Frequencies {
		mag := r.MagnitudeDB[i]
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: freq, Y: mag})
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("report: building magnitude trace: %w", err)
	}
	p.Add(line)
	p.Legend.Add("|H(f)|", line)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
