package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/export"
	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

func newTestModel(t *testing.T, initial source) *model {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	sess := session.New(sessionOptions())
	return newModel(sess, testDatasets, initial, newRecomputeMetrics(16, true), log)
}

func runeKey(r rune) tui.KeyMsg { return tui.KeyMsg{Type: tui.KeyRunes, Runes: []rune{r}} }

func press(m *model, msgs ...tui.Msg) tui.Cmd {
	var cmd tui.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func loadInto(t *testing.T, m *model) {
	t.Helper()
	ds, err := dataset.LoadReader("t.dat", strings.NewReader("4\n1 2 3 4"))
	require.NoError(t, err)
	press(m, datasetMsg{ds: ds})
	require.True(t, m.snap.Loaded)
}

func TestModel_InitReadsInitialDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "first.dat")
	require.NoError(t, os.WriteFile(path, []byte("3\n0.5 1.5 2.5\n"), 0o644))

	require.Nil(t, newTestModel(t, source{}).Init())

	m := newTestModel(t, source{path: path})
	cmd := m.Init()
	require.NotNil(t, cmd)
	press(m, cmd())
	require.NoError(t, m.err)
	require.True(t, m.snap.Loaded)
	require.Equal(t, "first.dat", m.snap.FileName)
}

func TestModel_LoadFailureKeepsState(t *testing.T) {
	m := newTestModel(t, source{})
	loadInto(t, m)

	cmd := press(m, datasetMsg{from: source{path: "nope.dat"}, err: dataset.ErrIO})
	require.Nil(t, cmd)
	require.ErrorIs(t, m.err, dataset.ErrIO)
	require.Equal(t, "t.dat", m.snap.FileName)

	press(m, tui.KeyMsg{Type: tui.KeyEsc})
	require.NoError(t, m.err)
}

func TestModel_LoadsApplyInRequestOrder(t *testing.T) {
	dir := t.TempDir()
	slow := filepath.Join(dir, "slow.dat")
	fast := filepath.Join(dir, "fast.dat")
	require.NoError(t, os.WriteFile(slow, []byte("3\n1 2 3\n"), 0o644))
	require.NoError(t, os.WriteFile(fast, []byte("3\n4 5 6\n"), 0o644))

	m := newTestModel(t, source{})
	first := m.run(session.LoadFile{Path: slow})
	second := m.run(session.LoadFile{Path: fast})

	// the later request finishes first; the earlier one must not replace it
	press(m, second(), first())
	require.Equal(t, "fast.dat", m.snap.FileName)
	require.Equal(t, "load fast.dat", m.status)
	require.NoError(t, m.err)

	// a superseded failure is dropped too
	third := m.run(session.LoadFile{Path: filepath.Join(dir, "missing.dat")})
	fourth := m.run(session.LoadFile{Path: slow})
	press(m, fourth(), third())
	require.NoError(t, m.err)
	require.Equal(t, "slow.dat", m.snap.FileName)
}

func TestModel_ParameterKeys(t *testing.T) {
	m := newTestModel(t, source{})
	loadInto(t, m)

	press(m, runeKey('n'), tui.KeyMsg{Type: tui.KeyRight}, tui.KeyMsg{Type: tui.KeyRight}, tui.KeyMsg{Type: tui.KeyUp})
	require.Equal(t, distribution.Normal, m.snap.Distribution)
	require.InDelta(t, 0.10, m.snap.Params.Mu, 1e-12)
	require.InDelta(t, 1.05, m.snap.Params.Sigma, 1e-12)
	require.NotEmpty(t, m.snap.Curve)

	press(m, runeKey('e'), tui.KeyMsg{Type: tui.KeyDown})
	require.Equal(t, distribution.Exponential, m.snap.Distribution)
	require.InDelta(t, 1.20, m.snap.Params.Beta, 1e-12)

	press(m, runeKey('c'))
	require.Equal(t, distribution.None, m.snap.Distribution)
	require.Empty(t, m.snap.Curve)
}

func TestModel_CycleIntervalsAndStep(t *testing.T) {
	m := newTestModel(t, source{})
	loadInto(t, m)

	press(m, runeKey('i'))
	require.Equal(t, 40, m.snap.Intervals)
	press(m, runeKey('i'), runeKey('i'))
	require.Equal(t, 30, m.snap.Intervals)

	press(m, runeKey('s'))
	require.Equal(t, 0.01, m.snap.Step)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, source{})
	cmd := press(m, runeKey('q'))
	require.NotNil(t, cmd)
	require.IsType(t, tui.QuitMsg{}, cmd())
	require.True(t, m.snap.Quit)
}

func TestModel_QuitUpperCase(t *testing.T) {
	m := newTestModel(t, source{})
	cmd := press(m, runeKey('Q'))
	require.NotNil(t, cmd)
	require.IsType(t, tui.QuitMsg{}, cmd())
}

func TestModel_HelpToggleRelayouts(t *testing.T) {
	m := newTestModel(t, source{})
	press(m, tui.WindowSizeMsg{Width: 100, Height: 30})
	short := m.menu.list.Height()

	press(m, runeKey('?'))
	require.True(t, m.help.ShowAll)
	require.Equal(t, short-3, m.menu.list.Height())

	press(m, runeKey('?'))
	require.Equal(t, short, m.menu.list.Height())
}

func TestModel_MenuFlow(t *testing.T) {
	m := newTestModel(t, source{})
	loadInto(t, m)

	press(m, runeKey('m'))
	require.True(t, m.menu.open)

	// Menu > Distribution > Normal
	m.menu.list.Select(1)
	press(m, tui.KeyMsg{Type: tui.KeyEnter})
	require.Equal(t, "Distribution", m.menu.list.Title)
	press(m, tui.KeyMsg{Type: tui.KeyEnter})
	require.False(t, m.menu.open)
	require.Equal(t, distribution.Normal, m.snap.Distribution)

	// Menu > Files > Data File 4 goes through a read command.
	press(m, runeKey('m'), tui.KeyMsg{Type: tui.KeyEnter})
	m.menu.list.Select(1)
	cmd := press(m, tui.KeyMsg{Type: tui.KeyEnter})
	require.NotNil(t, cmd)
	require.False(t, m.menu.open)

	press(m, runeKey('m'), tui.KeyMsg{Type: tui.KeyEsc})
	require.False(t, m.menu.open)
}

func TestModel_ExportWithoutData(t *testing.T) {
	m := newTestModel(t, source{})
	require.Nil(t, press(m, runeKey('x')))
	require.ErrorIs(t, m.err, export.ErrNothingToExport)
}

func TestModel_Export(t *testing.T) {
	withConfig(t)
	config.ExportDir = t.TempDir()
	m := newTestModel(t, source{})
	loadInto(t, m)

	cmd := press(m, runeKey('x'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	require.Equal(t, filepath.Join(config.ExportDir, "t.png"), msg.path)
	require.FileExists(t, msg.path)

	press(m, msg)
	require.Contains(t, m.status, "exported")
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, source{})
	press(m, tui.WindowSizeMsg{Width: 100, Height: 30})
	require.Contains(t, m.View(), "No dataset loaded.")

	loadInto(t, m)
	press(m, runeKey('n'))
	v := m.View()
	require.Contains(t, v, "Probability Density")
	require.Contains(t, v, "File: t.dat")
	require.Contains(t, v, "Normal")
}

func TestNext(t *testing.T) {
	require.Equal(t, 40, next([]int{30, 40, 50}, 30))
	require.Equal(t, 30, next([]int{30, 40, 50}, 50))
	require.Equal(t, 30, next([]int{30, 40, 50}, 35))
	require.Equal(t, 0.5, next([]float64{}, 0.5))
}

func TestExportName(t *testing.T) {
	require.Equal(t, "4.png", exportName("4.dat"))
	require.Equal(t, "my_data.png", exportName("my data.dat"))
	require.Equal(t, "histogram.png", exportName(""))
}

func TestComputePaneWidths(t *testing.T) {
	l, r := computePaneWidths(100, 30)
	require.Equal(t, 30, l)
	require.Equal(t, 70, r)

	l, r = computePaneWidths(40, 20)
	require.Equal(t, 18, l)
	require.Equal(t, 22, r)

	l, r = computePaneWidths(1, 50)
	require.Equal(t, 1, l)
	require.Equal(t, 1, r)
}

func TestEmptyPlot(t *testing.T) {
	require.Empty(t, emptyPlot(0, 3))
	require.Equal(t, "   \n   ", emptyPlot(3, 2))
}
