package main

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	Normal      key.Binding
	Exponential key.Binding
	Clear       key.Binding
	Intervals   key.Binding
	Step        key.Binding
	Menu        key.Binding
	Select      key.Binding
	Back        key.Binding
	Export      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Menu, k.Normal, k.Exponential, k.Left, k.Up, k.Export, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Menu, k.Select, k.Back},
		{k.Normal, k.Exponential, k.Clear},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Intervals, k.Step, k.Export, k.Help},
	}
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/→", "mu"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "mu +"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/↓", "sigma/beta"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "sigma/beta -"),
	),
	Normal: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "normal"),
	),
	Exponential: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "exponential"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "no curve"),
	),
	Intervals: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "next interval count"),
	),
	Step: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "next step"),
	),
	Menu: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "menu"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export png"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "Q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
