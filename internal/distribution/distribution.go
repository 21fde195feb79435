// Package distribution samples theoretical probability density functions over a data range.
package distribution

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
)

var (
	// ErrInvalidCurveResolution is returned when fewer than two points are requested.
	ErrInvalidCurveResolution = errors.New("distribution: curve needs at least 2 points")

	// ErrInvalidParameter is returned for a non-positive scale parameter.
	ErrInvalidParameter = errors.New("distribution: invalid parameter")
)

// Kind selects the theoretical distribution drawn over the histogram.
type Kind int

const (
	None Kind = iota
	Normal
	Exponential
)

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case Normal:
		return "Normal"
	case Exponential:
		return "Exponential"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the String form case-insensitively, plus the short forms "norm" and "exp".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "normal", "norm":
		return Normal, nil
	case "exponential", "exp", "expo":
		return Exponential, nil
	}
	return None, fmt.Errorf("distribution: unknown kind %q", s)
}

// Params are the adjustable distribution parameters. Beta is the exponential
// scale; its rate is 1/Beta.
type Params struct {
	Mu    float64
	Sigma float64
	Beta  float64
}

// DefaultParams are the values a fresh session starts with.
var DefaultParams = Params{Mu: 0, Sigma: 1, Beta: 1.25}

// Point is one sample of a curve.
type Point struct {
	X, Y float64
}

// Curve is a sampled PDF. Points are ordered by strictly increasing X.
type Curve struct {
	Kind   Kind
	Points []Point
}

// MaxY returns the largest sampled density, or 0 for an empty curve.
func (c Curve) MaxY() float64 {
	var m float64
	for _, p := range c.Points {
		if p.Y > m {
			m = p.Y
		}
	}
	return m
}

// SampleNormal evaluates the normal PDF at n equally spaced points across rng.
func SampleNormal(rng dataset.Range, mu, sigma float64, n int) (Curve, error) {
	if sigma <= 0 || math.IsNaN(sigma) {
		return Curve{}, fmt.Errorf("%w: sigma %g", ErrInvalidParameter, sigma)
	}
	d := distuv.Normal{Mu: mu, Sigma: sigma}
	return sample(Normal, rng, n, d.Prob)
}

// SampleNormalLegacy groups the exponent as exp(-((x-mu)^2/2)*sigma^2). It
// agrees with SampleNormal only when sigma == 1.
func SampleNormalLegacy(rng dataset.Range, mu, sigma float64, n int) (Curve, error) {
	if sigma <= 0 || math.IsNaN(sigma) {
		return Curve{}, fmt.Errorf("%w: sigma %g", ErrInvalidParameter, sigma)
	}
	norm := 1 / (sigma * math.Sqrt(2*math.Pi))
	return sample(Normal, rng, n, func(x float64) float64 {
		d := x - mu
		return norm * math.Exp(-(d*d/2)*sigma*sigma)
	})
}

// SampleExponential evaluates the exponential PDF with scale beta at n equally
// spaced points across rng. The density is zero for x < 0.
func SampleExponential(rng dataset.Range, beta float64, n int) (Curve, error) {
	if beta <= 0 || math.IsNaN(beta) {
		return Curve{}, fmt.Errorf("%w: beta %g", ErrInvalidParameter, beta)
	}
	d := distuv.Exponential{Rate: 1 / beta}
	return sample(Exponential, rng, n, d.Prob)
}

func sample(kind Kind, rng dataset.Range, n int, pdf func(float64) float64) (Curve, error) {
	if n < 2 {
		return Curve{}, fmt.Errorf("%w (got %d)", ErrInvalidCurveResolution, n)
	}
	xs := floats.Span(make([]float64, n), rng.Min, rng.Max)
	xs[n-1] = rng.Max
	points := make([]Point, n)
	for i, x := range xs {
		points[i] = Point{X: x, Y: pdf(x)}
	}
	return Curve{Kind: kind, Points: points}, nil
}
