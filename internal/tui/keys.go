package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Enter   key.Binding
	Up      key.Binding
	Down    key.Binding
	Switch  key.Binding
	Lists   key.Binding
	AddTo   key.Binding
	Refresh key.Binding
	Logout  key.Binding
	New     key.Binding
	Delete  key.Binding
	Remove  key.Binding
	Sort    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	Switch:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Lists:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "my lists")),
	AddTo:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add to list")),
	Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	Logout:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "sign out")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete list")),
	Remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
	Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
}

// helpKeys adapts the bindings shown for one screen to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (m Model) helpFor() helpKeys {
	switch m.screen {
	case screenLogin:
		return helpKeys{keys.Switch, keys.Enter, keys.Quit}
	case screenHome:
		return helpKeys{keys.Enter, keys.AddTo, keys.Lists, keys.Refresh, keys.Logout, keys.Quit}
	case screenLists:
		return helpKeys{keys.Enter, keys.New, keys.Delete, keys.Back, keys.Quit}
	case screenListItems:
		return helpKeys{keys.Enter, keys.Sort, keys.Remove, keys.Back}
	case screenPicker:
		return helpKeys{keys.Enter, keys.New, keys.Back}
	case screenCreate:
		return helpKeys{keys.Enter, keys.Back}
	case screenDetail:
		return helpKeys{keys.Enter, keys.AddTo, keys.Back}
	case screenFilmography:
		return helpKeys{keys.Enter, keys.Back}
	}
	return helpKeys{keys.Quit}
}
