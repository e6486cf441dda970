package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/sptui/internal/config"
)

// KeyMap holds every binding the app reacts to. It doubles as the help.KeyMap
// for the footer.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Focus     key.Binding
	Blur      key.Binding
	Toggle    key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	PlayPause key.Binding
	Next      key.Binding
	Previous  key.Binding
	Help      key.Binding
}

// bindingKey maps config spellings onto what tea.KeyMsg.String reports.
func bindingKey(k string) string {
	switch strings.ToLower(strings.TrimSpace(k)) {
	case "space":
		return " "
	case "escape":
		return "esc"
	default:
		return k
	}
}

func newKeyMap(b config.KeyBindings) KeyMap {
	focusKeys := []string{bindingKey(b.FocusSearch)}
	if b.FocusSearch != "/" {
		focusKeys = append(focusKeys, "/")
	}

	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(bindingKey(b.Quit)),
			key.WithHelp(b.Quit, "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Focus: key.NewBinding(
			key.WithKeys(focusKeys...),
			key.WithHelp(b.FocusSearch, "search"),
		),
		Blur: key.NewBinding(
			key.WithKeys(bindingKey(b.Blur)),
			key.WithHelp(b.Blur, "back"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle focus"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play selected"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(bindingKey(b.PlayPause)),
			key.WithHelp(b.PlayPause, "play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys(bindingKey(b.Next)),
			key.WithHelp(b.Next, "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys(bindingKey(b.Previous)),
			key.WithHelp(b.Previous, "previous"),
		),
		Help: key.NewBinding(
			key.WithKeys(bindingKey(b.Help)),
			key.WithHelp(b.Help, "help"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Blur, k.Select, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Blur, k.Toggle},
		{k.Up, k.Down, k.Select},
		{k.PlayPause, k.Next, k.Previous},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// displayKey renders a binding for the controls legend: "ctrl+f" -> "Ctrl+F".
func displayKey(k string) string {
	parts := strings.Split(k, "+")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if len(p) == 1 {
			parts[i] = strings.ToUpper(p)
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "+")
}

// ControlsLegend is the line shown in the player bar.
func (k KeyMap) ControlsLegend() string {
	return "Controls: " +
		displayKey(k.PlayPause.Help().Key) + "=Play/Pause | " +
		displayKey(k.Next.Help().Key) + "=Next | " +
		displayKey(k.Previous.Help().Key) + "=Previous | " +
		displayKey(k.Focus.Help().Key) + "=Search"
}
