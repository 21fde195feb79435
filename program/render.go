package main

import (
	"fmt"
	"strings"

	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
	"github.com/keilerkonzept/histfit-tui-demo/internal/viewport"
)

// Series order inside the canvas.
const (
	seriesCeiling = iota
	seriesHistogram
	seriesCurve
)

// dotsPerCell is the horizontal braille resolution of one terminal cell.
const dotsPerCell = 2

// plotSeries resamples the snapshot at n evenly spaced world-x positions.
// The ceiling series is constant at the top of the world bounds; it pins the
// canvas scale so bars keep their height when the curve changes.
func plotSeries(snap session.Snapshot, n int) [][]float64 {
	mapper := viewport.NewMapper(snap.Bounds, n)
	n = mapper.Cols()
	top := snap.Bounds.WorldYMax

	ceiling := make([]float64, n)
	hist := make([]float64, n)
	for col := 0; col < n; col++ {
		ceiling[col] = top
		hist[col] = snap.DensityAt(mapper.X(col))
	}
	if len(snap.Curve) < 2 {
		return [][]float64{ceiling, hist}
	}
	curve := make([]float64, n)
	for col := 0; col < n; col++ {
		curve[col] = min(top, snap.CurveAt(mapper.X(col)))
	}
	return [][]float64{ceiling, hist, curve}
}

func (m *model) resizePlot(w int, h int) {
	p := plot.NewCanvas(w, h)
	p.NumDataPoints = w * dotsPerCell
	p.ShowAxis = false
	p.LineColors = m.plot.LineColors
	m.plot = &p
	m.updatePlot()
}

func (m *model) updatePlot() {
	if !m.snap.Loaded {
		return
	}
	var curve, bars, frame plot.Color
	if styles.DefaultRenderer().HasDarkBackground() {
		curve, bars, frame = plot.Red, plot.LightGray, plot.DimGray
	} else {
		curve, bars, frame = plot.Red, plot.Black, plot.LightGray
	}
	data := plotSeries(m.snap, m.plot.NumDataPoints)
	colors := make([]plot.Color, len(data))
	colors[seriesCeiling] = frame
	colors[seriesHistogram] = bars
	if len(data) > seriesCurve {
		colors[seriesCurve] = curve
	}
	m.plot.LineColors = colors
	m.plot.Fill(data)
}

// axisLabels returns the line above the plot (peak density, y caption) and
// the line below it (x range, x caption), each padded to width w.
func axisLabels(snap session.Snapshot, w int) (top, bottom string) {
	if !snap.Loaded || w <= 0 {
		return "", ""
	}
	top = spread(w, fmt.Sprintf("%.4f", snap.MaxDensity), "Probability Density")
	bottom = spread(w, fmt.Sprintf("%.4g", snap.Bounds.WorldXMin), "Data", fmt.Sprintf("%.4g", snap.Bounds.WorldXMax))
	return top, bottom
}

// spread lays out labels across w columns: first flush left, last flush right,
// the rest centred in between. Labels that do not fit are dropped from the middle.
func spread(w int, labels ...string) string {
	for len(labels) > 1 {
		total := 0
		for _, l := range labels {
			total += len(l)
		}
		if total+len(labels)-1 <= w {
			break
		}
		labels = append(labels[:len(labels)/2], labels[len(labels)/2+1:]...)
	}
	if len(labels) == 1 {
		if len(labels[0]) > w {
			return labels[0][:w]
		}
		return labels[0] + strings.Repeat(" ", w-len(labels[0]))
	}
	used := 0
	for _, l := range labels {
		used += len(l)
	}
	gaps := len(labels) - 1
	space := w - used
	var sb strings.Builder
	for i, l := range labels {
		sb.WriteString(l)
		if i < gaps {
			g := space / gaps
			if i < space%gaps {
				g++
			}
			sb.WriteString(strings.Repeat(" ", g))
		}
	}
	return sb.String()
}

// infoLines is the text of the left pane when the menu is closed.
func infoLines(snap session.Snapshot) []string {
	if !snap.Loaded {
		return []string{"No dataset loaded.", "", "Press m for the Files menu."}
	}
	lines := []string{
		"File: " + snap.FileName,
		fmt.Sprintf("Min: %g", snap.Range.Min),
		fmt.Sprintf("Max: %g", snap.Range.Max),
		fmt.Sprintf("Samples: %d", snap.Summary.Count),
		fmt.Sprintf("Mean: %.4f", snap.Summary.Mean),
		fmt.Sprintf("Std dev: %.4f", snap.Summary.StdDev),
		fmt.Sprintf("Number of Intervals: %d", snap.Intervals),
		fmt.Sprintf("Bin width: %.4g", snap.BinWidth),
		"",
	}
	switch label := snap.DistributionLabel(); label {
	case "":
		lines = append(lines, "Distribution: none")
	case "Normal":
		lines = append(lines,
			"Distribution: "+label,
			fmt.Sprintf("Mu: %.2f", snap.Params.Mu),
			fmt.Sprintf("Sigma: %.2f", snap.Params.Sigma),
			fmt.Sprintf("Curve peak: %.4f", snap.CurvePeak),
		)
	default:
		lines = append(lines,
			"Distribution: "+label,
			fmt.Sprintf("Beta: %.2f", snap.Params.Beta),
			fmt.Sprintf("Curve peak: %.4f", snap.CurvePeak),
		)
	}
	lines = append(lines, fmt.Sprintf("Parameter step: %g", snap.Step))
	return lines
}
