package main

import (
	"time"

	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

type durationRing struct {
	buf   []time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	if n < 1 {
		n = 1
	}
	return &durationRing{buf: make([]time.Duration, n)}
}

func (r *durationRing) add(d time.Duration) {
	r.buf[r.idx] = d
	r.idx = (r.idx + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

type durationStats struct {
	last time.Duration
	max  time.Duration
	avg  time.Duration
	n    int
}

func (r *durationRing) snapshot() durationStats {
	if r.count == 0 {
		return durationStats{}
	}
	var sum, max time.Duration
	for _, d := range r.buf[:r.count] {
		sum += d
		if d > max {
			max = d
		}
	}
	lastIdx := r.idx - 1
	if lastIdx < 0 {
		lastIdx = len(r.buf) - 1
	}
	return durationStats{
		last: r.buf[lastIdx],
		max:  max,
		avg:  sum / time.Duration(r.count),
		n:    r.count,
	}
}

// recomputeMetrics keeps recent recompute timings per stage. It is only
// touched from the bubbletea update loop, so it needs no locking.
type recomputeMetrics struct {
	enabled bool
	started time.Time

	histogram *durationRing
	curve     *durationRing

	commands uint64
	failures uint64
}

func newRecomputeMetrics(window int, enabled bool) *recomputeMetrics {
	return &recomputeMetrics{
		enabled:   enabled,
		started:   time.Now(),
		histogram: newDurationRing(window),
		curve:     newDurationRing(window),
	}
}

// observe has the signature of session.Options.Observe.
func (m *recomputeMetrics) observe(stage session.Stage, d time.Duration) {
	if !m.enabled {
		return
	}
	switch stage {
	case session.StageHistogram:
		m.histogram.add(d)
	case session.StageCurve:
		m.curve.add(d)
	}
}

func (m *recomputeMetrics) observeCommand(err error) {
	if !m.enabled {
		return
	}
	m.commands++
	if err != nil {
		m.failures++
	}
}

type metricsSnapshot struct {
	uptime    time.Duration
	commands  uint64
	failures  uint64
	histogram durationStats
	curve     durationStats
}

func (m *recomputeMetrics) snapshot() metricsSnapshot {
	if !m.enabled {
		return metricsSnapshot{}
	}
	return metricsSnapshot{
		uptime:    time.Since(m.started).Truncate(time.Second),
		commands:  m.commands,
		failures:  m.failures,
		histogram: m.histogram.snapshot(),
		curve:     m.curve.snapshot(),
	}
}
