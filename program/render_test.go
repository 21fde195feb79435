package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

func loadedSnapshot(t *testing.T, kind distribution.Kind) session.Snapshot {
	t.Helper()
	ds, err := dataset.LoadReader("t.dat", strings.NewReader("3\n1 2 3"))
	require.NoError(t, err)
	s := session.New(session.Options{Intervals: 2, Distribution: kind, Params: distribution.Params{Mu: 2, Sigma: 0.5}})
	snap, err := s.Apply(session.LoadDataset{Dataset: ds})
	require.NoError(t, err)
	return snap
}

func TestPlotSeries_HistogramOnly(t *testing.T) {
	snap := loadedSnapshot(t, distribution.None)
	data := plotSeries(snap, 40)
	require.Len(t, data, 2)

	peak := 0.0
	for col := 0; col < 40; col++ {
		require.Equal(t, snap.Bounds.WorldYMax, data[seriesCeiling][col])
		peak = max(peak, data[seriesHistogram][col])
	}
	require.InDelta(t, snap.MaxDensity, peak, 1e-12)
	// the first column lies left of the data
	require.Zero(t, data[seriesHistogram][0])
}

func TestPlotSeries_CurveIsCapped(t *testing.T) {
	snap := loadedSnapshot(t, distribution.Normal)
	data := plotSeries(snap, 40)
	require.Len(t, data, 3)
	for _, y := range data[seriesCurve] {
		require.LessOrEqual(t, y, snap.Bounds.WorldYMax)
		require.GreaterOrEqual(t, y, 0.0)
	}
}

func TestSpread(t *testing.T) {
	require.Equal(t, "a        b", spread(10, "a", "b"))
	require.Equal(t, "a   b   c", spread(9, "a", "b", "c"))
	require.Equal(t, "abc  ", spread(5, "abc", "def"))
	require.Equal(t, "ab", spread(2, "abcd"))
}

func TestAxisLabels(t *testing.T) {
	top, bottom := axisLabels(session.Snapshot{}, 40)
	require.Empty(t, top)
	require.Empty(t, bottom)

	snap := loadedSnapshot(t, distribution.None)
	top, bottom = axisLabels(snap, 60)
	require.Len(t, top, 60)
	require.Contains(t, top, "Probability Density")
	require.True(t, strings.HasPrefix(bottom, "0.9"))
	require.Contains(t, bottom, "Data")
	require.True(t, strings.HasSuffix(bottom, "3.1"))
}

func TestInfoLines(t *testing.T) {
	require.Equal(t, "No dataset loaded.", infoLines(session.Snapshot{})[0])

	lines := strings.Join(infoLines(loadedSnapshot(t, distribution.Normal)), "\n")
	require.Contains(t, lines, "File: t.dat")
	require.Contains(t, lines, "Number of Intervals: 2")
	require.Contains(t, lines, "Distribution: Normal")
	require.Contains(t, lines, "Mu: 2.00")
	require.Contains(t, lines, "Sigma: 0.50")
	require.Contains(t, lines, "Curve peak: ")
	require.NotContains(t, lines, "Beta")

	lines = strings.Join(infoLines(loadedSnapshot(t, distribution.Exponential)), "\n")
	require.Contains(t, lines, "Beta: 1.25")
}
