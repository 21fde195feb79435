package session

import (
	"slices"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/viewport"
)

// Snapshot is an immutable copy of everything needed to draw one frame.
// Its slices are never shared with the session.
type Snapshot struct {
	Loaded   bool
	FileName string
	Range    dataset.Range
	Summary  dataset.Summary

	Intervals  int
	Boundaries []float64
	Densities  []float64
	BinWidth   float64
	MaxDensity float64

	Distribution distribution.Kind
	Params       distribution.Params
	Step         float64
	Curve        []distribution.Point
	CurvePeak    float64

	Bounds viewport.Bounds
	Quit   bool
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Intervals:    s.intervals,
		Distribution: s.kind,
		Params:       s.params,
		Step:         s.step,
		Quit:         s.quit,
	}
	if s.data == nil {
		return snap
	}
	snap.Loaded = true
	snap.FileName = s.data.Name
	snap.Range = s.data.Range
	snap.Summary = s.data.Summary()
	snap.Intervals = s.hist.Intervals()
	snap.Boundaries = slices.Clone(s.hist.Boundaries)
	snap.Densities = slices.Clone(s.hist.Densities)
	snap.BinWidth = s.hist.BinWidth
	snap.MaxDensity = s.hist.MaxDensity
	snap.Curve = slices.Clone(s.curve.Points)
	snap.CurvePeak = s.curve.MaxY()
	snap.Bounds = s.bounds
	return snap
}

// DistributionLabel is the name shown next to the plot, empty when no curve is selected.
func (s Snapshot) DistributionLabel() string {
	if s.Distribution == distribution.None {
		return ""
	}
	return s.Distribution.String()
}

// DensityAt returns the histogram density at x, or 0 outside the data range.
// Points on an interior boundary belong to the bin on their right.
func (s Snapshot) DensityAt(x float64) float64 {
	n := len(s.Densities)
	if n == 0 || x < s.Boundaries[0] || x > s.Boundaries[n] {
		return 0
	}
	i, found := slices.BinarySearch(s.Boundaries, x)
	if !found {
		i--
	}
	return s.Densities[min(max(i, 0), n-1)]
}

// CurveAt linearly interpolates the sampled curve at x, or returns 0 outside it.
func (s Snapshot) CurveAt(x float64) float64 {
	n := len(s.Curve)
	if n < 2 || x < s.Curve[0].X || x > s.Curve[n-1].X {
		return 0
	}
	i, _ := slices.BinarySearchFunc(s.Curve, x, func(p distribution.Point, x float64) int {
		switch {
		case p.X < x:
			return -1
		case p.X > x:
			return 1
		}
		return 0
	})
	if i == 0 {
		return s.Curve[0].Y
	}
	a, b := s.Curve[i-1], s.Curve[i]
	t := (x - a.X) / (b.X - a.X)
	return a.Y + t*(b.Y-a.Y)
}
