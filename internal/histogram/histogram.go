// Package histogram bins samples into equal-width intervals and converts the
// counts into probability densities, so that bar areas sum to one.
package histogram

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
)

// ErrDegenerateRange is returned when all samples are equal and the bin width would be zero.
var ErrDegenerateRange = errors.New("histogram: degenerate range (min == max)")

// EdgePolicy decides which bin a sample sitting exactly on a boundary belongs to.
type EdgePolicy int

const (
	// HalfOpen puts x in bin i when b[i] <= x < b[i+1]; the last bin also holds the maximum.
	// Every sample lands in exactly one bin.
	HalfOpen EdgePolicy = iota
	// Exclusive counts only samples strictly inside (b[i], b[i+1]). Samples on any
	// boundary, including the minimum and maximum, are dropped.
	Exclusive
)

func (p EdgePolicy) String() string {
	switch p {
	case HalfOpen:
		return "half-open"
	case Exclusive:
		return "exclusive"
	}
	return fmt.Sprintf("EdgePolicy(%d)", int(p))
}

// ParseEdgePolicy maps the names returned by String back to a policy.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch s {
	case "half-open", "":
		return HalfOpen, nil
	case "exclusive":
		return Exclusive, nil
	}
	return HalfOpen, fmt.Errorf("histogram: unknown edge policy %q", s)
}

// Histogram is a binned density estimate. Boundaries has one more element than Densities.
type Histogram struct {
	Boundaries []float64
	Densities  []float64
	Counts     []int
	BinWidth   float64
	MaxDensity float64
}

// Intervals returns the number of bins.
func (h *Histogram) Intervals() int { return len(h.Densities) }

// Area returns sum(density*binWidth). It is 1 under HalfOpen and at most 1 under Exclusive.
func (h *Histogram) Area() float64 {
	return floats.Sum(h.Densities) * h.BinWidth
}

// Compute bins samples over rng into numIntervals equal-width bins.
//
// Compute panics if numIntervals < 1; callers validate user input first.
func Compute(samples []float64, rng dataset.Range, numIntervals int, policy EdgePolicy) (*Histogram, error) {
	if numIntervals < 1 {
		panic(fmt.Sprintf("histogram: numIntervals must be >= 1, got %d", numIntervals))
	}
	if len(samples) == 0 {
		panic("histogram: no samples")
	}
	if rng.Degenerate() {
		return nil, fmt.Errorf("%w: all samples equal %g", ErrDegenerateRange, rng.Min)
	}

	binWidth := rng.Span() / float64(numIntervals)
	if binWidth <= 0 || math.IsInf(binWidth, 0) {
		return nil, fmt.Errorf("%w: bin width %g", ErrDegenerateRange, binWidth)
	}

	boundaries := floats.Span(make([]float64, numIntervals+1), rng.Min, rng.Max)
	boundaries[0], boundaries[numIntervals] = rng.Min, rng.Max

	var counts []int
	switch policy {
	case Exclusive:
		counts = countExclusive(samples, boundaries)
	default:
		counts = countHalfOpen(samples, boundaries)
	}

	h := &Histogram{
		Boundaries: boundaries,
		Densities:  make([]float64, numIntervals),
		Counts:     counts,
		BinWidth:   binWidth,
	}
	total := float64(len(samples))
	for i, c := range counts {
		h.Densities[i] = float64(c) / total / binWidth
		if h.Densities[i] > h.MaxDensity {
			h.MaxDensity = h.Densities[i]
		}
	}
	return h, nil
}

func countHalfOpen(samples, boundaries []float64) []int {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	// stat.Histogram wants the last divider strictly above the largest sample.
	dividers := make([]float64, len(boundaries))
	copy(dividers, boundaries)
	last := len(dividers) - 1
	dividers[last] = math.Nextafter(dividers[last], math.Inf(1))

	weights := stat.Histogram(nil, dividers, sorted, nil)
	counts := make([]int, len(weights))
	for i, w := range weights {
		counts[i] = int(w)
	}
	return counts
}

func countExclusive(samples, boundaries []float64) []int {
	counts := make([]int, len(boundaries)-1)
	for i := range counts {
		lo, hi := boundaries[i], boundaries[i+1]
		for _, x := range samples {
			if x > lo && x < hi {
				counts[i]++
			}
		}
	}
	return counts
}
