package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ComputesRange(t *testing.T) {
	path := writeFile(t, "small.dat", "5\n 2.5 -1.0\n7  3\n0.25\n")

	ds, err := dataset.Load(path)
	require.NoError(t, err)
	require.Equal(t, "small.dat", ds.Name)
	require.Equal(t, []float64{2.5, -1, 7, 3, 0.25}, ds.Samples)
	require.Equal(t, dataset.Range{Min: -1, Max: 7}, ds.Range)
	require.Equal(t, 5, ds.Len())
	require.InDelta(t, 8.0, ds.Range.Span(), 1e-12)
	require.False(t, ds.Range.Degenerate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "nope.dat"))
	require.ErrorIs(t, err, dataset.ErrIO)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty input", "", dataset.ErrMalformed},
		{"zero count", "0", dataset.ErrEmpty},
		{"negative count", "-3 1 2 3", dataset.ErrEmpty},
		{"bad count", "three 1 2 3", dataset.ErrMalformed},
		{"short", "3 1 2", dataset.ErrMalformed},
		{"bad sample", "2 1 x", dataset.ErrMalformed},
		{"nan sample", "2 1 NaN", dataset.ErrMalformed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := dataset.Parse(strings.NewReader(c.in))
			require.ErrorIs(t, err, c.want)
		})
	}
}

func TestParse_IgnoresTrailingTokens(t *testing.T) {
	ds, err := dataset.Parse(strings.NewReader("2 1 2 garbage 99"))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, ds.Samples)
}

func TestParse_AllEqualIsDegenerate(t *testing.T) {
	ds, err := dataset.Parse(strings.NewReader("3 4 4 4"))
	require.NoError(t, err)
	require.True(t, ds.Range.Degenerate())
}

func TestLoadReader_NamesDataset(t *testing.T) {
	ds, err := dataset.LoadReader("stdin", strings.NewReader("1 42"))
	require.NoError(t, err)
	require.Equal(t, "stdin", ds.Name)
	require.Equal(t, dataset.Range{Min: 42, Max: 42}, ds.Range)

	_, err = dataset.LoadReader("stdin", strings.NewReader("1"))
	require.ErrorIs(t, err, dataset.ErrMalformed)
	require.Contains(t, err.Error(), "stdin")
}

func TestSummary(t *testing.T) {
	ds, err := dataset.Parse(strings.NewReader("4 2 4 4 6"))
	require.NoError(t, err)
	s := ds.Summary()
	require.Equal(t, 4, s.Count)
	require.InDelta(t, 4.0, s.Mean, 1e-12)
	// unbiased: sum of squares 8 over n-1=3
	require.InDelta(t, 1.632993161855452, s.StdDev, 1e-12)

	one, err := dataset.Parse(strings.NewReader("1 3.5"))
	require.NoError(t, err)
	require.Equal(t, dataset.Summary{Count: 1, Mean: 3.5}, one.Summary())
}
