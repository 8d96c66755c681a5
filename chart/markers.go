package chart

import (
	"fmt"
	"github.com/celskeggs/epochplot/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Marker struct {
	X, Y  float64
	Glyph draw.GlyphStyle
	Label string
}

type MarkerPlot struct {
	Markers   []Marker
	Padding   vg.Length
	TextStyle draw.TextStyle
}

var _ plot.Plotter = &MarkerPlot{}
var _ plot.DataRanger = &MarkerPlot{}
var _ plot.GlyphBoxer = &MarkerPlot{}

func NewMarkerPlot(markers []Marker) *MarkerPlot {
	return &MarkerPlot{
		Markers: markers,
		Padding: vg.Points(2),
		TextStyle: text.Style{
			Font:     font.From(plotter.DefaultFont, plotter.DefaultFontSize),
			Rotation: 0,
			XAlign:   draw.XLeft,
			YAlign:   draw.YBottom,
			Handler:  plot.DefaultTextHandler,
		},
	}
}

// BestMarkers marks the highest accuracy and the lowest loss, colored to
// match their lines.
func BestMarkers(t *metrics.Table) (markers []Marker) {
	if r, ok := t.BestAccuracy(); ok {
		markers = append(markers, Marker{
			X: float64(r.Epoch),
			Y: r.Accuracy,
			Glyph: draw.GlyphStyle{
				Color:  plotutil.Color(0),
				Radius: vg.Points(4),
				Shape:  draw.RingGlyph{},
			},
			Label: fmt.Sprintf("best %.4g @ %d", r.Accuracy, r.Epoch),
		})
	}
	if r, ok := t.LowestLoss(); ok {
		markers = append(markers, Marker{
			X: float64(r.Epoch),
			Y: r.Loss,
			Glyph: draw.GlyphStyle{
				Color:  plotutil.Color(1),
				Radius: vg.Points(4),
				Shape:  draw.RingGlyph{},
			},
			Label: fmt.Sprintf("lowest %.4g @ %d", r.Loss, r.Epoch),
		})
	}
	return markers
}

// labelPosition places a label beside its glyph, on whichever side of the
// point has more room within the canvas.
func (m *MarkerPlot) labelPosition(c draw.Canvas, pt vg.Point, radius vg.Length) (draw.TextStyle, vg.Point) {
	style := m.TextStyle
	offset := radius + m.Padding
	pos := vg.Point{X: pt.X + offset, Y: pt.Y + offset}
	if pt.X > (c.Min.X+c.Max.X)/2 {
		style.XAlign = draw.XRight
		pos.X = pt.X - offset
	}
	return style, pos
}

func (m *MarkerPlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, marker := range m.Markers {
		pt := vg.Point{
			X: trX(marker.X),
			Y: trY(marker.Y),
		}
		if !c.Contains(pt) {
			continue
		}
		c.DrawGlyph(marker.Glyph, pt)
		if marker.Label != "" {
			style, pos := m.labelPosition(c, pt, marker.Glyph.Radius)
			c.FillText(style, pos, marker.Label)
		}
	}
}

// GlyphBoxes keeps the axes from clipping glyphs drawn at the edge of the
// data range.
func (m *MarkerPlot) GlyphBoxes(plt *plot.Plot) []plot.GlyphBox {
	boxes := make([]plot.GlyphBox, len(m.Markers))
	for i, marker := range m.Markers {
		boxes[i] = plot.GlyphBox{
			X:         plt.X.Norm(marker.X),
			Y:         plt.Y.Norm(marker.Y),
			Rectangle: marker.Glyph.Rectangle(),
		}
	}
	return boxes
}

type xyconv MarkerPlot

func (m *xyconv) Len() int {
	return len(m.Markers)
}

func (m *xyconv) XY(i int) (x, y float64) {
	return m.Markers[i].X, m.Markers[i].Y
}

func (m *MarkerPlot) DataRange() (xmin, xmax, ymin, ymax float64) {
	return plotter.XYRange((*xyconv)(m))
}
