// Package export renders a session snapshot to an image file: the density
// histogram as bars and the theoretical curve as a line, within the snapshot's
// world bounds.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

// ErrNothingToExport is returned for a snapshot without a dataset.
var ErrNothingToExport = errors.New("export: no dataset loaded")

var (
	barColor   = color.RGBA{G: 160, A: 255}
	barFill    = color.RGBA{G: 200, A: 60}
	curveColor = color.RGBA{R: 220, A: 255}
)

// Options control the output size.
type Options struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions match the 800x600 window of the interactive view.
var DefaultOptions = Options{Width: 8 * vg.Inch, Height: 6 * vg.Inch}

// Plot builds the plot for snap.
func Plot(snap session.Snapshot) (*plot.Plot, error) {
	if !snap.Loaded {
		return nil, ErrNothingToExport
	}
	p := plot.New()
	p.Title.Text = title(snap)
	p.X.Label.Text = "Data"
	p.Y.Label.Text = "Probability Density"
	p.X.Min, p.X.Max = snap.Bounds.WorldXMin, snap.Bounds.WorldXMax
	p.Y.Min, p.Y.Max = snap.Bounds.WorldYMin, snap.Bounds.WorldYMax

	bins := make([]plotter.HistogramBin, len(snap.Densities))
	for i, d := range snap.Densities {
		bins[i] = plotter.HistogramBin{Min: snap.Boundaries[i], Max: snap.Boundaries[i+1], Weight: d}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     snap.BinWidth,
		FillColor: barFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Color = barColor
	p.Add(h)
	p.Legend.Add(fmt.Sprintf("%s (%d intervals)", snap.FileName, snap.Intervals), h)

	if len(snap.Curve) > 1 {
		xys := make(plotter.XYs, len(snap.Curve))
		for i, pt := range snap.Curve {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("export: curve: %w", err)
		}
		line.Color = curveColor
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(snap.DistributionLabel(), line)
	}
	p.Legend.Top = true
	return p, nil
}

// Write encodes the plot of snap in format ("png", "svg", "pdf", ...) to w.
func Write(w io.Writer, snap session.Snapshot, format string, opts Options) error {
	p, err := Plot(snap)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

// Save writes the plot to path; the format follows the file extension.
func Save(path string, snap session.Snapshot, opts Options) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("export: %s: missing file extension", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := Write(f, snap, format, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func title(snap session.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  min=%g max=%g", snap.FileName, snap.Range.Min, snap.Range.Max)
	switch snap.DistributionLabel() {
	case "Normal":
		fmt.Fprintf(&sb, "  Normal(mu=%.2f, sigma=%.2f)", snap.Params.Mu, snap.Params.Sigma)
	case "Exponential":
		fmt.Fprintf(&sb, "  Exponential(beta=%.2f)", snap.Params.Beta)
	}
	return sb.String()
}
