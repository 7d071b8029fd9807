package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"go-mutwo/widgets"
)

type keyMap struct {
	Left, Right, Up, Down key.Binding
	ZoomIn, ZoomOut       key.Binding
	Home                  key.Binding
	Play                  key.Binding
	Help, Quit            key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "higher")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "lower")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Home:    key.NewBinding(key.WithKeys("home", "0"), key.WithHelp("0", "start")),
		Play:    key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "play/stop")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Home},
		{k.ZoomIn, k.ZoomOut, k.Play, k.Help, k.Quit},
	}
}

func (k keyMap) sections() []widgets.KeySection {
	return []widgets.KeySection{
		{Title: "Navigate", Keys: []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Home}},
		{Title: "View", Keys: []key.Binding{k.ZoomIn, k.ZoomOut}},
		{Title: "Playback", Keys: []key.Binding{k.Play}},
		{Keys: []key.Binding{k.Help, k.Quit}},
	}
}
