package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"

	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

// menuItem is either a submenu (sub != nil) or a leaf carrying the command it runs.
type menuItem struct {
	title string
	desc  string
	cmd   session.Command
	sub   []menuItem
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// buildMenu builds the top-level menu: Files, Distribution,
// Histogram, Parameter Step, Exit.
func buildMenu(datasets []DatasetEntry, intervals []int, steps []float64) []menuItem {
	files := make([]menuItem, 0, len(datasets))
	for _, d := range datasets {
		files = append(files, menuItem{title: d.Name, desc: d.Path, cmd: session.LoadFile{Path: d.Path}})
	}
	dists := []menuItem{
		{title: "Normal", desc: "mu, sigma", cmd: session.SelectDistribution{Kind: distribution.Normal}},
		{title: "Exponential", desc: "beta", cmd: session.SelectDistribution{Kind: distribution.Exponential}},
		{title: "None", desc: "hide the curve", cmd: session.SelectDistribution{Kind: distribution.None}},
	}
	bins := make([]menuItem, 0, len(intervals))
	for _, n := range intervals {
		bins = append(bins, menuItem{title: strconv.Itoa(n), desc: "intervals", cmd: session.SetIntervalCount{N: n}})
	}
	stepItems := make([]menuItem, 0, len(steps))
	for _, s := range steps {
		stepItems = append(stepItems, menuItem{title: strconv.FormatFloat(s, 'g', -1, 64), desc: "per key press", cmd: session.SetParameterStep{Step: s}})
	}
	return []menuItem{
		{title: "Files", desc: fmt.Sprintf("%d datasets", len(files)), sub: files},
		{title: "Distribution", desc: "theoretical curve", sub: dists},
		{title: "Histogram", desc: "number of intervals", sub: bins},
		{title: "Parameter Step", desc: "granularity of ←→↑↓", sub: stepItems},
		{title: "Exit", desc: "quit", cmd: session.Quit{}},
	}
}

type menu struct {
	open  bool
	root  []menuItem
	depth int
	list  list.Model
}

func newMenu(root []menuItem, width, height int) *menu {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = styles.NewStyle().
		Border(styles.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		Foreground(selectedColor).
		Bold(false).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.
		Foreground(selectedColor)
	d.ShowDescription = true

	l := list.New(toListItems(root), d, width, height)
	l.Styles.NoItems = l.Styles.NoItems.
		Padding(0, 2)
	l.Title = "Menu"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	return &menu{root: root, list: l}
}

func toListItems(items []menuItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (mn *menu) show() tui.Cmd {
	mn.open = true
	mn.depth = 0
	mn.list.Title = "Menu"
	cmd := mn.list.SetItems(toListItems(mn.root))
	mn.list.Select(0)
	return cmd
}

// back leaves a submenu, or closes the menu at the top level.
func (mn *menu) back() tui.Cmd {
	if mn.depth == 0 {
		mn.open = false
		return nil
	}
	return mn.show()
}

// choose descends into a submenu or returns the selected leaf's command,
// closing the menu.
func (mn *menu) choose() (session.Command, tui.Cmd) {
	it, ok := mn.list.SelectedItem().(menuItem)
	if !ok {
		return nil, nil
	}
	if it.sub != nil {
		mn.depth++
		mn.list.Title = it.title
		cmd := mn.list.SetItems(toListItems(it.sub))
		mn.list.Select(0)
		return nil, cmd
	}
	mn.open = false
	return it.cmd, nil
}

func (mn *menu) setSize(w, h int) { mn.list.SetSize(w, h) }

func (mn *menu) update(msg tui.Msg) tui.Cmd {
	var cmd tui.Cmd
	mn.list, cmd = mn.list.Update(msg)
	return cmd
}

func (mn *menu) view() string { return mn.list.View() }
