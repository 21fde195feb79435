// Package session owns the interactive state: the loaded dataset, its
// histogram, the selected distribution with its parameters and the view bounds.
//
// A Session applies Commands one at a time. Every command finishes its
// recompute before Apply returns, so a Snapshot taken afterwards is always
// consistent. A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/histogram"
	"github.com/keilerkonzept/histfit-tui-demo/internal/viewport"
)

var (
	// ErrInvalidIntervalCount is returned by SetIntervalCount for N < 1.
	ErrInvalidIntervalCount = errors.New("session: interval count must be >= 1")

	// ErrInvalidStep is returned by SetParameterStep for a non-positive step.
	ErrInvalidStep = errors.New("session: parameter step must be > 0")

	// ErrUnknownCommand is returned for a nil or foreign Command.
	ErrUnknownCommand = errors.New("session: unknown command")
)

// Parameter limits. Nudges saturate at these values.
const (
	MuMin, MuMax       = 0.0, 5.0
	SigmaMin, SigmaMax = 0.02, 3.0
	BetaMin, BetaMax   = 0.1, 6.0
)

// snapGrid keeps nudged values on a fixed decimal grid so that repeated
// additions of the step do not drift past the limits.
const snapGrid = 1e9

// Stage names the recompute being timed.
type Stage string

const (
	StageHistogram Stage = "histogram"
	StageCurve     Stage = "curve"
)

// Options configure a new Session. Zero values fall back to the defaults.
type Options struct {
	Intervals    int
	CurvePoints  int
	Step         float64
	Params       distribution.Params
	Distribution distribution.Kind
	Edges        histogram.EdgePolicy
	LegacyNormal bool

	Logger logrus.FieldLogger
	// Observe, when set, receives the duration of every recompute.
	Observe func(stage Stage, d time.Duration)
}

const (
	DefaultIntervals   = 30
	DefaultCurvePoints = 100
	DefaultStep        = 0.05
)

// Session is the interaction controller.
type Session struct {
	intervals    int
	curvePoints  int
	step         float64
	params       distribution.Params
	kind         distribution.Kind
	edges        histogram.EdgePolicy
	legacyNormal bool

	data   *dataset.Dataset
	hist   *histogram.Histogram
	curve  distribution.Curve
	bounds viewport.Bounds
	quit   bool

	log     logrus.FieldLogger
	observe func(Stage, time.Duration)
}

// New returns a session with no dataset loaded.
func New(opts Options) *Session {
	s := &Session{
		intervals:    opts.Intervals,
		curvePoints:  opts.CurvePoints,
		step:         opts.Step,
		params:       opts.Params,
		kind:         opts.Distribution,
		edges:        opts.Edges,
		legacyNormal: opts.LegacyNormal,
		log:          opts.Logger,
		observe:      opts.Observe,
	}
	if s.intervals < 1 {
		s.intervals = DefaultIntervals
	}
	if s.curvePoints < 2 {
		s.curvePoints = DefaultCurvePoints
	}
	if s.step <= 0 {
		s.step = DefaultStep
	}
	if s.params.Sigma == 0 {
		s.params.Sigma = distribution.DefaultParams.Sigma
	}
	if s.params.Beta == 0 {
		s.params.Beta = distribution.DefaultParams.Beta
	}
	s.params = clampParams(s.params)
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// Apply runs one command and returns the resulting snapshot. On error the
// session is unchanged and the returned snapshot reflects the prior state.
func (s *Session) Apply(cmd Command) (Snapshot, error) {
	var err error
	switch c := cmd.(type) {
	case LoadFile:
		err = s.loadFile(c.Path)
	case LoadDataset:
		err = s.install(c.Dataset)
	case SelectDistribution:
		err = s.selectDistribution(c.Kind)
	case AdjustParameter:
		err = s.adjust(c.Direction, c.Axis)
	case SetIntervalCount:
		err = s.setIntervals(c.N)
	case SetParameterStep:
		err = s.setStep(c.Step)
	case Quit:
		s.quit = true
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	if err != nil {
		s.log.WithError(err).WithField("command", fmt.Sprint(cmd)).Warn("command failed")
	}
	return s.Snapshot(), err
}

// Loaded reports whether a dataset is installed.
func (s *Session) Loaded() bool { return s.data != nil }

func (s *Session) loadFile(path string) error {
	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}
	return s.install(ds)
}

// install recomputes everything for ds and swaps it in only if all of it succeeds.
func (s *Session) install(ds *dataset.Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return fmt.Errorf("session: %w", dataset.ErrEmpty)
	}
	hist, err := s.computeHistogram(ds, s.intervals)
	if err != nil {
		return fmt.Errorf("%s: %w", ds.Name, err)
	}
	curve, err := s.computeCurve(ds.Range, s.kind, s.params)
	if err != nil {
		return fmt.Errorf("%s: %w", ds.Name, err)
	}
	s.data, s.hist, s.curve = ds, hist, curve
	s.bounds = viewport.ComputeBounds(ds.Range, hist.MaxDensity)
	s.log.WithFields(logrus.Fields{
		"file":    ds.Name,
		"samples": ds.Len(),
		"min":     ds.Range.Min,
		"max":     ds.Range.Max,
	}).Info("dataset loaded")
	return nil
}

func (s *Session) selectDistribution(kind distribution.Kind) error {
	if kind < distribution.None || kind > distribution.Exponential {
		return fmt.Errorf("%w: distribution %s", ErrUnknownCommand, kind)
	}
	if s.data != nil {
		curve, err := s.computeCurve(s.data.Range, kind, s.params)
		if err != nil {
			return err
		}
		s.curve = curve
	}
	s.kind = kind
	return nil
}

func (s *Session) adjust(dir Direction, axis Axis) error {
	if s.kind == distribution.None {
		return nil
	}
	delta := s.step
	if dir < 0 {
		delta = -delta
	}
	p := s.params
	switch {
	case s.kind == distribution.Normal && axis == Primary:
		p.Mu = nudge(p.Mu, delta, MuMin, MuMax)
	case s.kind == distribution.Normal && axis == Secondary:
		p.Sigma = nudge(p.Sigma, delta, SigmaMin, SigmaMax)
	case s.kind == distribution.Exponential && axis == Secondary:
		p.Beta = nudge(p.Beta, delta, BetaMin, BetaMax)
	default:
		return nil
	}
	if s.data != nil {
		curve, err := s.computeCurve(s.data.Range, s.kind, p)
		if err != nil {
			return err
		}
		s.curve = curve
	}
	s.params = p
	return nil
}

func (s *Session) setIntervals(n int) error {
	if n < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidIntervalCount, n)
	}
	if s.data != nil {
		hist, err := s.computeHistogram(s.data, n)
		if err != nil {
			return err
		}
		s.hist = hist
		s.bounds = viewport.ComputeBounds(s.data.Range, hist.MaxDensity)
	}
	s.intervals = n
	return nil
}

func (s *Session) setStep(step float64) error {
	if !(step > 0) || math.IsInf(step, 0) {
		return fmt.Errorf("%w (got %g)", ErrInvalidStep, step)
	}
	s.step = step
	return nil
}

func (s *Session) computeHistogram(ds *dataset.Dataset, n int) (*histogram.Histogram, error) {
	start := time.Now()
	h, err := histogram.Compute(ds.Samples, ds.Range, n, s.edges)
	s.track(StageHistogram, start)
	return h, err
}

func (s *Session) computeCurve(rng dataset.Range, kind distribution.Kind, p distribution.Params) (distribution.Curve, error) {
	start := time.Now()
	defer s.track(StageCurve, start)
	switch kind {
	case distribution.Normal:
		if s.legacyNormal {
			return distribution.SampleNormalLegacy(rng, p.Mu, p.Sigma, s.curvePoints)
		}
		return distribution.SampleNormal(rng, p.Mu, p.Sigma, s.curvePoints)
	case distribution.Exponential:
		return distribution.SampleExponential(rng, p.Beta, s.curvePoints)
	}
	return distribution.Curve{Kind: distribution.None}, nil
}

func (s *Session) track(stage Stage, start time.Time) {
	d := time.Since(start)
	if s.observe != nil {
		s.observe(stage, d)
	}
	s.log.WithFields(logrus.Fields{"stage": stage, "took": d}).Debug("recompute")
}

func nudge(v, delta, lo, hi float64) float64 {
	v = math.Round((v+delta)*snapGrid) / snapGrid
	return math.Min(hi, math.Max(lo, v))
}

func clampParams(p distribution.Params) distribution.Params {
	p.Mu = math.Min(MuMax, math.Max(MuMin, p.Mu))
	p.Sigma = math.Min(SigmaMax, math.Max(SigmaMin, p.Sigma))
	p.Beta = math.Min(BetaMax, math.Max(BetaMin, p.Beta))
	return p
}
