package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/sirupsen/logrus"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/export"
	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

var (
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	curveColor    = styles.AdaptiveColor{Light: "1", Dark: "9"}
	selectedFg    = styles.NewStyle().Foreground(selectedColor)
	borderFg      = styles.NewStyle().Foreground(borderColor)
	errStyle      = styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"})
	plotStyle     = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			Foreground(borderColor).
			BorderForeground(borderColor)
)

// source is where the first dataset comes from.
type source struct {
	path  string
	stdin bool
}

func (s source) String() string {
	if s.stdin {
		return "stdin"
	}
	return s.path
}

// datasetMsg carries the seq of the read that produced it; only the latest
// requested read is installed.
type datasetMsg struct {
	seq  uint64
	from source
	ds   *dataset.Dataset
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

type model struct {
	width, height  int
	leftPaneWidth  int
	rightPaneWidth int

	session *session.Session
	snap    session.Snapshot
	initial source
	loadSeq uint64

	menu      *menu
	paneStyle styles.Style
	help      help.Model
	plot      *plot.Canvas

	status  string
	err     error
	metrics *recomputeMetrics
	log     logrus.FieldLogger
}

func newModel(sess *session.Session, datasets []DatasetEntry, initial source, metrics *recomputeMetrics, log logrus.FieldLogger) *model {
	const (
		defaultWidth  = 80
		defaultHeight = 20
	)

	p := plot.NewCanvas(defaultWidth, defaultHeight)
	p.NumDataPoints = defaultWidth * dotsPerCell
	p.ShowAxis = false

	m := &model{
		session: sess,
		snap:    sess.Snapshot(),
		initial: initial,
		menu:    newMenu(buildMenu(datasets, config.IntervalChoices, config.StepChoices), defaultWidth/2-2, defaultHeight),
		help:    help.New(),
		plot:    &p,
		metrics: metrics,
		log:     log,
	}
	m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(defaultWidth, config.ViewSplit)
	return m
}

func readDataset(from source, seq uint64) tui.Cmd {
	return func() tui.Msg {
		var (
			ds  *dataset.Dataset
			err error
		)
		if from.stdin {
			ds, err = dataset.LoadReader("stdin", os.Stdin)
		} else {
			ds, err = dataset.Load(from.path)
		}
		return datasetMsg{seq: seq, from: from, ds: ds, err: err}
	}
}

func exportSnapshot(snap session.Snapshot, dir string) tui.Cmd {
	return func() tui.Msg {
		path := filepath.Join(dir, exportName(snap.FileName))
		err := export.Save(path, snap, exportOptions())
		return exportedMsg{path: path, err: err}
	}
}

func exportName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, base)
	if base == "" {
		base = "histogram"
	}
	return base + ".png"
}

func (m *model) Init() tui.Cmd {
	if m.initial == (source{}) {
		return nil
	}
	return m.load(m.initial)
}

func (m *model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case datasetMsg:
		if msg.seq != m.loadSeq {
			m.log.WithField("source", msg.from.String()).Debug("superseded load dropped")
			return m, nil
		}
		if msg.err != nil {
			m.metrics.observeCommand(msg.err)
			m.log.WithError(msg.err).WithField("source", msg.from.String()).Warn("load failed")
			m.err = msg.err
			return m, nil
		}
		return m, m.apply(session.LoadDataset{Dataset: msg.ds})
	case exportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "exported " + msg.path
		m.log.WithField("path", msg.path).Info("plot exported")
		return m, nil
	case tui.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil
	case tui.KeyMsg:
		if m.menu.open {
			return m, m.updateMenu(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, m.run(session.Quit{})
		case key.Matches(msg, keys.Menu):
			return m, m.menu.show()
		case key.Matches(msg, keys.Back):
			m.err = nil
			return m, nil
		case key.Matches(msg, keys.Left):
			return m, m.run(session.AdjustParameter{Direction: session.Decrease, Axis: session.Primary})
		case key.Matches(msg, keys.Right):
			return m, m.run(session.AdjustParameter{Direction: session.Increase, Axis: session.Primary})
		case key.Matches(msg, keys.Up):
			return m, m.run(session.AdjustParameter{Direction: session.Increase, Axis: session.Secondary})
		case key.Matches(msg, keys.Down):
			return m, m.run(session.AdjustParameter{Direction: session.Decrease, Axis: session.Secondary})
		case key.Matches(msg, keys.Normal):
			return m, m.run(session.SelectDistribution{Kind: distribution.Normal})
		case key.Matches(msg, keys.Exponential):
			return m, m.run(session.SelectDistribution{Kind: distribution.Exponential})
		case key.Matches(msg, keys.Clear):
			return m, m.run(session.SelectDistribution{Kind: distribution.None})
		case key.Matches(msg, keys.Intervals):
			return m, m.run(session.SetIntervalCount{N: next(config.IntervalChoices, m.snap.Intervals)})
		case key.Matches(msg, keys.Step):
			return m, m.run(session.SetParameterStep{Step: next(config.StepChoices, m.snap.Step)})
		case key.Matches(msg, keys.Export):
			if !m.snap.Loaded {
				m.err = export.ErrNothingToExport
				return m, nil
			}
			return m, exportSnapshot(m.snap, config.ExportDir)
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			if m.width > 0 {
				m.layout(m.width, m.height)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *model) updateMenu(msg tui.KeyMsg) tui.Cmd {
	switch {
	case msg.String() == "ctrl+c":
		return m.run(session.Quit{})
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Menu):
		return m.menu.back()
	case key.Matches(msg, keys.Select):
		cmd, listCmd := m.menu.choose()
		if cmd == nil {
			return listCmd
		}
		return tui.Batch(listCmd, m.run(cmd))
	}
	return m.menu.update(msg)
}

// run hands a command to the session. File loads are read off the update loop
// and installed when their datasetMsg arrives.
func (m *model) run(cmd session.Command) tui.Cmd {
	if lf, ok := cmd.(session.LoadFile); ok {
		return m.load(source{path: lf.Path})
	}
	return m.apply(cmd)
}

// load starts a read that supersedes every read still in flight.
func (m *model) load(from source) tui.Cmd {
	m.loadSeq++
	m.status = "loading " + from.String()
	return readDataset(from, m.loadSeq)
}

func (m *model) apply(cmd session.Command) tui.Cmd {
	snap, err := m.session.Apply(cmd)
	m.metrics.observeCommand(err)
	m.snap = snap
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.status = cmd.String()
	if snap.Quit {
		return tui.Quit
	}
	m.updatePlot()
	return nil
}

// next returns the choice after cur, wrapping around.
func next[T int | float64](choices []T, cur T) T {
	if len(choices) == 0 {
		return cur
	}
	i := slices.Index(choices, cur)
	return choices[(i+1)%len(choices)]
}

func (m *model) layout(width, height int) {
	m.width, m.height = width, height
	m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(m.width, config.ViewSplit)
	statsLines := 0
	if config.StatsEnabled {
		// title + 3 metric lines
		statsLines = 4
	}
	helpLines := 1
	if m.help.ShowAll {
		helpLines = 4
	}
	statusLines := 1
	available := max(1, m.height-statsLines-helpLines-statusLines)

	leftW := max(1, m.leftPaneWidth)
	rightW := max(1, m.rightPaneWidth)

	m.menu.setSize(leftW, available)
	m.paneStyle = styles.NewStyle().Width(leftW).Height(available).Padding(0, 1)
	m.help.Width = m.width

	// Right side is: label line + plot canvas + label line, wrapped in a border (adds 2 lines).
	plotHeight := max(1, available-4)
	plotWidth := max(1, rightW-2)
	m.resizePlot(plotWidth, plotHeight)
}

func (m *model) View() string {
	var left string
	if m.menu.open {
		left = m.paneStyle.Render(m.menu.view())
	} else {
		left = m.paneStyle.Render(strings.Join(infoLines(m.snap), "\n"))
	}

	w := max(0, m.rightPaneWidth-2)
	canvas := ""
	if m.snap.Loaded {
		canvas = m.plot.String()
	}
	if canvas == "" {
		canvas = emptyPlot(w, max(1, m.height-8))
	}
	top, bottom := axisLabels(m.snap, w)
	right := plotStyle.Render(styles.JoinVertical(styles.Left,
		selectedFg.Render(top),
		canvas,
		borderFg.Render(bottom),
	))
	view := styles.JoinHorizontal(styles.Top, left, right)

	status := borderFg.Render(m.statusLine())
	if m.err != nil {
		status = errStyle.Render("ERROR: " + m.err.Error())
	}

	blocks := []string{view, status}
	if config.StatsEnabled {
		blocks = append(blocks, errStyle.Render(m.statsBlock()))
	}
	blocks = append(blocks, m.help.View(keys))
	return styles.JoinVertical(styles.Left, blocks...)
}

func (m *model) statusLine() string {
	label := m.snap.DistributionLabel()
	if label == "" {
		return m.status
	}
	return m.status + "  " + styles.NewStyle().Foreground(curveColor).Render("| "+label)
}

func (m *model) statsBlock() string {
	snap := m.metrics.snapshot()
	return strings.Join([]string{
		fmt.Sprintf("RECOMPUTE STATS (up %s)", snap.uptime),
		fmt.Sprintf("commands: %d (%d failed)", snap.commands, snap.failures),
		fmt.Sprintf("histogram: last %s avg %s max %s", formatMetricDuration(snap.histogram.last), formatMetricDuration(snap.histogram.avg), formatMetricDuration(snap.histogram.max)),
		fmt.Sprintf("curve: last %s avg %s max %s", formatMetricDuration(snap.curve.last), formatMetricDuration(snap.curve.avg), formatMetricDuration(snap.curve.max)),
	}, "\n")
}

func emptyPlot(w, h int) string {
	if w < 1 || h < 1 {
		return ""
	}
	var sb strings.Builder
	sb.Grow((w + 1) * h)
	spaces := strings.Repeat(" ", w)
	for i := 0; i < h; i++ {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(spaces)
	}
	return sb.String()
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

func computePaneWidths(totalWidth int, splitPercent int) (left, right int) {
	if totalWidth <= 1 {
		return 1, 1
	}
	left = totalWidth * splitPercent / 100
	if left < 1 {
		left = 1
	}
	if left > totalWidth-1 {
		left = totalWidth - 1
	}
	right = totalWidth - left

	// Keep panes readable when the terminal is wide enough.
	const minPane = 18
	if totalWidth >= minPane*2 {
		if left < minPane {
			left = minPane
			right = totalWidth - left
		}
		if right < minPane {
			right = minPane
			left = totalWidth - right
		}
	}
	if left < 1 {
		left = 1
	}
	if right < 1 {
		right = 1
	}
	return left, right
}
