package live

import (
	"context"
	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/celskeggs/epochplot/chart"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vggio"
	"image"
	"log"
	"path/filepath"
	"time"
)

const ExportName = "training.png"

// Refresher produces a freshly built plot on every call.
type Refresher interface {
	Refresh() (*plot.Plot, error)
}

type Options struct {
	Title     string
	Width     int
	Height    int
	DPI       int
	Interval  time.Duration
	ExportDir string
}

func DefaultOptions() Options {
	return Options{
		Title:    "Training Statistics",
		Width:    1024,
		Height:   768,
		DPI:      128,
		Interval: time.Second,
	}
}

type PlotWidget struct {
	Source    Refresher
	Plot      *plot.Plot
	DPI       int
	ExportDir string

	// size of the most recent frame
	AdjWidth  vg.Length
	AdjHeight vg.Length
}

// Tick replaces the current plot with a freshly loaded one. On error the
// previous plot is kept.
func (p *PlotWidget) Tick() error {
	next, err := p.Source.Refresh()
	if err != nil {
		return err
	}
	p.Plot = next
	return nil
}

func (p *PlotWidget) adjustedSize(size image.Point) (w, h vg.Length) {
	w = vg.Points(float64(size.X) * vg.Inch.Points() / float64(p.DPI))
	h = vg.Points(float64(size.Y) * vg.Inch.Points() / float64(p.DPI))
	return w, h
}

func (p *PlotWidget) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	p.AdjWidth, p.AdjHeight = p.adjustedSize(size)
	if p.Plot != nil {
		cnv := vggio.New(gtx, p.AdjWidth, p.AdjHeight, vggio.UseDPI(p.DPI))
		p.Plot.Draw(draw.New(cnv))
	}
	return layout.Dimensions{Size: size}
}

// Export saves the current frame into the export directory, if any.
func (p *PlotWidget) Export() (string, error) {
	if p.ExportDir == "" || p.Plot == nil || p.AdjWidth <= 0 || p.AdjHeight <= 0 {
		return "", nil
	}
	path := filepath.Join(p.ExportDir, ExportName)
	if err := chart.SavePlot(p.Plot, p.AdjWidth, p.AdjHeight, path); err != nil {
		return "", err
	}
	return path, nil
}

// Window is the part of *app.Window that the redraw loop drives.
type Window interface {
	Events() <-chan event.Event
	Close()
	Invalidate()
}

var _ Window = (*app.Window)(nil)

// Run handles window events and redraws on every tick until the window is
// destroyed. Each tick completes before the next event is handled. A failed
// refresh closes the window and is returned once the window is gone.
func (p *PlotWidget) Run(ctx context.Context, win Window, ticks <-chan time.Time) error {
	done := ctx.Done()
	var tickErr error
	for {
		select {
		case <-done:
			done = nil
			win.Close()
		case <-ticks:
			if tickErr != nil {
				break
			}
			if err := p.Tick(); err != nil {
				log.Printf("Refresh failed: %v", err)
				tickErr = err
				win.Close()
				break
			}
			win.Invalidate()
		case e := <-win.Events():
			switch e := e.(type) {
			case system.FrameEvent:
				ops := new(op.Ops)
				gtx := layout.NewContext(ops, e)
				layout.UniformInset(unit.Dp(30)).Layout(gtx, p.Layout)
				e.Frame(ops)

			case key.Event:
				switch e.Name {
				case "Q", key.NameEscape:
					win.Close()
				case "E":
					if e.State == key.Press {
						if path, err := p.Export(); err != nil {
							log.Printf("Export failed: %v", err)
						} else if path != "" {
							log.Printf("Image exported to %s", path)
						}
					}
				}

			case system.DestroyEvent:
				if tickErr != nil {
					return tickErr
				}
				return e.Err
			}
		}
	}
}

// Display shows a window that redraws from source once per interval until
// the window is closed or ctx is cancelled. The first frame is loaded before
// the window opens, so a source that fails at once never shows a window.
func Display(ctx context.Context, source Refresher, opts Options) error {
	plotWidget := &PlotWidget{
		Source:    source,
		DPI:       opts.DPI,
		ExportDir: opts.ExportDir,
	}
	if err := plotWidget.Tick(); err != nil {
		return err
	}

	win := app.NewWindow(
		app.Title(opts.Title),
		app.Size(
			unit.Px(float32(opts.Width)),
			unit.Px(float32(opts.Height)),
		),
	)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	return plotWidget.Run(ctx, win, ticker.C)
}
