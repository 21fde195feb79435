// Package dataset reads sample files and holds the loaded samples with their range.
//
// The file format is plain whitespace-separated text: the first token is an
// integer count N, followed by N floating-point values.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrIO is returned when the source cannot be opened or read.
	ErrIO = errors.New("dataset: source unreadable")

	// ErrEmpty is returned when the declared sample count is below one.
	ErrEmpty = errors.New("dataset: sample count must be >= 1")

	// ErrMalformed is returned for a missing or non-numeric token.
	ErrMalformed = errors.New("dataset: malformed input")
)

// Range is the closed interval spanned by the samples.
type Range struct {
	Min, Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Degenerate reports whether all samples are equal.
func (r Range) Degenerate() bool { return r.Max <= r.Min }

// Dataset is an immutable sample set. A new load always produces a new Dataset.
type Dataset struct {
	Name    string
	Samples []float64
	Range   Range
}

// Summary holds descriptive statistics shown next to the plot.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
}

// Load reads the dataset stored at path. The returned dataset is named after
// the file's base name.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer func() { _ = f.Close() }()
	return LoadReader(filepath.Base(path), f)
}

// LoadReader parses a dataset from r and names it name.
func LoadReader(name string, r io.Reader) (*Dataset, error) {
	ds, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	ds.Name = name
	return ds, nil
}

// Parse reads a count followed by that many samples. Tokens after the last
// sample are ignored.
func Parse(r io.Reader) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		return nil, fmt.Errorf("%w: missing sample count", ErrMalformed)
	}
	n, err := strconv.Atoi(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: sample count %q", ErrMalformed, scanner.Text())
	}
	if n < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrEmpty, n)
	}

	samples := make([]float64, 0, min(n, 1<<20))
	rng := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for len(samples) < n {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrIO, err)
			}
			return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrMalformed, n, len(samples))
		}
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: sample %d is %q", ErrMalformed, len(samples)+1, scanner.Text())
		}
		if v < rng.Min {
			rng.Min = v
		}
		if v > rng.Max {
			rng.Max = v
		}
		samples = append(samples, v)
	}
	return &Dataset{Samples: samples, Range: rng}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Samples) }

// Summary computes the sample mean and (unbiased) standard deviation.
func (d *Dataset) Summary() Summary {
	s := Summary{Count: len(d.Samples)}
	if s.Count == 0 {
		return s
	}
	if s.Count == 1 {
		s.Mean = d.Samples[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(d.Samples, nil)
	return s
}
