package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Regenerate key.Binding
	Print      key.Binding
	Save       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Regenerate: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "neu")),
	Print:      key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "print")),
	Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Regenerate, k.Print, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
