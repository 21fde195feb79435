// Package viewport derives the axis and world extents of the plot from the
// data range and the histogram peak, and maps canvas columns to world x.
package viewport

import (
	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
)

const (
	AxisMargin  = 0.005
	WorldMargin = 0.05

	// WorldYBelow is the empty band under the x axis.
	WorldYBelow = 0.05
	// WorldYAbove is the headroom above the tallest bar, used for labels.
	WorldYAbove = 0.15
)

// Bounds are the extents used to draw one frame. Axis bounds hug the data;
// world bounds add padding around them.
type Bounds struct {
	AxisXMin, AxisXMax   float64
	AxisYMin, AxisYMax   float64
	WorldXMin, WorldXMax float64
	WorldYMin, WorldYMax float64
}

// ComputeBounds is a pure function of the data range and the peak density.
func ComputeBounds(rng dataset.Range, maxDensity float64) Bounds {
	span := rng.Span()
	return Bounds{
		AxisXMin:  rng.Min - span*AxisMargin,
		AxisXMax:  rng.Max + span*AxisMargin,
		AxisYMin:  0,
		AxisYMax:  maxDensity,
		WorldXMin: rng.Min - span*WorldMargin,
		WorldXMax: rng.Max + span*WorldMargin,
		WorldYMin: 0 - WorldYBelow,
		WorldYMax: maxDensity + WorldYAbove,
	}
}

// Width is the world extent along x.
func (b Bounds) Width() float64 { return b.WorldXMax - b.WorldXMin }

// Height is the world extent along y.
func (b Bounds) Height() float64 { return b.WorldYMax - b.WorldYMin }

// Mapper converts canvas columns to world x.
type Mapper struct {
	bounds Bounds
	cols   int
}

// NewMapper returns a mapper for at least one column.
func NewMapper(b Bounds, cols int) Mapper {
	return Mapper{bounds: b, cols: max(1, cols)}
}

// Cols returns the grid width.
func (m Mapper) Cols() int { return m.cols }

// X returns the world x at the centre of column col.
func (m Mapper) X(col int) float64 {
	return m.bounds.WorldXMin + (float64(col)+0.5)*m.bounds.Width()/float64(m.cols)
}
