package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	SwitchPane key.Binding
	Help       key.Binding

	Save     key.Binding
	SaveAs   key.Binding
	CloseTab key.Binding
	Reopen   key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Pin      key.Binding
	Scratch  key.Binding
	Find     key.Binding
	FindNext key.Binding
	FindPrev key.Binding
	Replace  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding

	Rename  key.Binding
	NewFile key.Binding
	NewDir  key.Binding
	Delete  key.Binding
	Copy    key.Binding
	Cut     key.Binding
	Paste   key.Binding
	Refresh key.Binding

	Submit key.Binding
	Cancel key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SaveAs:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "save as")),
		CloseTab: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		Reopen:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "reopen closed tab")),
		NextTab:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous tab")),
		Pin:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "keep preview tab")),
		Scratch:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "new untitled tab")),
		Find:     key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "find")),
		FindNext: key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "find next")),
		FindPrev: key.NewBinding(key.WithKeys("shift+f3"), key.WithHelp("shift+f3", "find previous")),
		Replace:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "replace all")),
		ZoomIn:   key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("ctrl+↑", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("ctrl+down"), key.WithHelp("ctrl+↓", "zoom out")),

		Rename:  key.NewBinding(key.WithKeys("f2", "r"), key.WithHelp("F2/r", "rename")),
		NewFile: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new file")),
		NewDir:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new folder")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Cut:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cut")),
		Paste:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste")),
		Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),

		Submit: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
	}
}
