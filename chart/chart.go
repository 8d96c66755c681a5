package chart

import (
	"fmt"
	"github.com/celskeggs/epochplot/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"math"
)

type Style struct {
	Title    string
	XLabel   string
	YLabel   string
	MarkBest bool
}

func DefaultStyle() Style {
	return Style{
		Title:  "Training Statistics",
		XLabel: "Epoch",
	}
}

// Series extracts the accuracy and loss curves, each plotted against epoch.
// NaN and infinite values, such as the cells of a row still being written,
// are left out of their series.
func Series(t *metrics.Table) (accuracy, loss plotter.XYs) {
	accuracy = make(plotter.XYs, 0, t.Len())
	loss = make(plotter.XYs, 0, t.Len())
	for _, r := range t.Records {
		x := float64(r.Epoch)
		if finite(r.Accuracy) {
			accuracy = append(accuracy, plotter.XY{X: x, Y: r.Accuracy})
		}
		if finite(r.Loss) {
			loss = append(loss, plotter.XY{X: x, Y: r.Loss})
		}
	}
	return accuracy, loss
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func newLine(xys plotter.XYs, index int) (*plotter.Line, error) {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle = draw.LineStyle{
		Color: plotutil.Color(index),
		Width: vg.Points(1.5),
	}
	return line, nil
}

// BuildPlot renders the table onto a fresh plot. An empty table still gets
// its title, axis labels and legend.
func BuildPlot(t *metrics.Table, style Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = style.Title
	p.X.Label.Text = style.XLabel
	p.Y.Label.Text = style.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	accuracy, loss := Series(t)
	for i, series := range []struct {
		label string
		xys   plotter.XYs
	}{
		{"Accuracy", accuracy},
		{"Loss", loss},
	} {
		line, err := newLine(series.xys, i)
		if err != nil {
			return nil, fmt.Errorf("%s series: %w", series.label, err)
		}
		if len(series.xys) > 0 {
			p.Add(line)
		}
		p.Legend.Add(series.label, line)
	}

	if style.MarkBest {
		if markers := BestMarkers(t); len(markers) > 0 {
			p.Add(NewMarkerPlot(markers))
		}
	}
	return p, nil
}

// Source rebuilds the plot from the file on disk each time it is refreshed.
type Source struct {
	Path  string
	Style Style
}

func (s *Source) Refresh() (*plot.Plot, error) {
	table, err := metrics.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return BuildPlot(table, s.Style)
}
