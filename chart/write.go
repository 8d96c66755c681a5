package chart

import (
	"fmt"
	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FormatOf picks the image format from a file extension, such as "png" for
// "training.png".
func FormatOf(path string) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported image format for %q", path)
	}
}

// WritePlot renders the plot in the given format, such as "png" or "svg".
func WritePlot(p *plot.Plot, width, height vg.Length, output io.Writer, format string) error {
	w, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	if _, err := w.WriteTo(output); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}

// combineErrors drops nil errors. It returns a single error unchanged and
// merges several into one.
func combineErrors(errs ...error) error {
	var merged *multierror.Error
	for _, e := range errs {
		if e != nil {
			merged = multierror.Append(merged, e)
		}
	}
	switch {
	case merged == nil:
		return nil
	case len(merged.Errors) == 1:
		return merged.Errors[0]
	default:
		return merged
	}
}

// WriteClosePlot always closes output, reporting both the render error and
// the close error if there are two.
func WriteClosePlot(p *plot.Plot, width, height vg.Length, output io.WriteCloser, format string) (err error) {
	defer func() {
		err = combineErrors(err, output.Close())
	}()
	return WritePlot(p, width, height, output, format)
}

// SavePlot writes the plot to path in the format named by its extension.
func SavePlot(p *plot.Plot, width, height vg.Length, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteClosePlot(p, width, height, output, format); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
