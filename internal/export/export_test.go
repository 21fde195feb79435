package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/export"
	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

func loadedSnapshot(t *testing.T) session.Snapshot {
	t.Helper()
	ds, err := dataset.LoadReader("mem", strings.NewReader("6 0.1 0.4 0.5 0.9 1.3 2.0"))
	require.NoError(t, err)
	s := session.New(session.Options{Intervals: 4, Distribution: distribution.Normal})
	snap, err := s.Apply(session.LoadDataset{Dataset: ds})
	require.NoError(t, err)
	return snap
}

func TestPlot_Bounds(t *testing.T) {
	snap := loadedSnapshot(t)
	p, err := export.Plot(snap)
	require.NoError(t, err)
	require.Equal(t, snap.Bounds.WorldXMin, p.X.Min)
	require.Equal(t, snap.Bounds.WorldXMax, p.X.Max)
	require.Equal(t, snap.Bounds.WorldYMax, p.Y.Max)
	require.Contains(t, p.Title.Text, "mem")
	require.Contains(t, p.Title.Text, "Normal")
}

func TestPlot_NothingLoaded(t *testing.T) {
	_, err := export.Plot(session.New(session.Options{}).Snapshot())
	require.ErrorIs(t, err, export.ErrNothingToExport)
}

func TestWrite_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, loadedSnapshot(t), "png", export.DefaultOptions))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plot.svg")
	require.NoError(t, export.Save(path, loadedSnapshot(t), export.DefaultOptions))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "<svg")

	require.Error(t, export.Save(filepath.Join(dir, "plot"), loadedSnapshot(t), export.DefaultOptions))
	_, err = os.Stat(filepath.Join(dir, "plot"))
	require.True(t, os.IsNotExist(err))
}
