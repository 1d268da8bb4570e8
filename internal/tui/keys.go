package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Roll       key.Binding
	Lock       key.Binding
	RollLocked key.Binding
	Bank       key.Binding
	Restart    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Roll: key.NewBinding(
		key.WithKeys("r", " ", "space"),
		key.WithHelp("r", "roll"),
	),
	Lock: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "lock die"),
	),
	RollLocked: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "re-roll unlocked"),
	),
	Bank: key.NewBinding(
		key.WithKeys("b", "enter"),
		key.WithHelp("b", "bank"),
	),
	Restart: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new match"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll log"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll log"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Roll, k.Lock, k.RollLocked, k.Bank, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Roll, k.Lock, k.RollLocked, k.Bank},
		{k.Restart, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}
