package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global key bindings. Scene keys are handled by the scenes.
type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Back      key.Binding
	Next      key.Binding
	Scenarios key.Binding
	Results   key.Binding
	Lines     key.Binding
	Compare   key.Binding
	AutoPay   key.Binding
	Term      key.Binding
	Undo      key.Binding
	Reset     key.Binding
}

// DefaultKeyMap returns the viewer's bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Scenarios: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "scenarios")),
		Results:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "breakdown")),
		Lines:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "edit")),
		Compare:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "what-if")),
		AutoPay:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle autopay")),
		Term:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "24/36 months")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo edit")),
		Reset:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset edits")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.AutoPay, k.Term, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Scenarios, k.Results, k.Lines, k.Compare, k.Next, k.Back},
		{k.AutoPay, k.Term, k.Undo, k.Reset},
		{k.Help, k.Quit},
	}
}
