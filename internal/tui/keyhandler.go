package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/sptui/internal/spotify"
)

type KeyHandler struct {
	app  *App
	keys KeyMap
}

func NewKeyHandler(app *App, keys KeyMap) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.keys.ForceQuit) {
		return kh.app, tea.Quit
	}

	if kh.app.view == ViewHelp {
		return kh.handleHelpKeys(msg)
	}

	if kh.app.searchInput.Focused() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}
	return kh.app, nil
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, kh.keys.Blur, kh.keys.Toggle):
		kh.app.searchInput.Blur()
		return kh.app, nil
	case key.Matches(msg, kh.keys.Down):
		if len(kh.app.results) > 0 {
			kh.app.searchInput.Blur()
		}
		return kh.app, nil
	case key.Matches(msg, kh.keys.Up):
		return kh.app, nil
	case key.Matches(msg, kh.keys.Select):
		return kh.app, kh.app.playSelected()
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search input and starts the search
// pipeline when the text changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	if kh.app.searchInput.Value() != prev {
		return kh.app, tea.Batch(cmd, kh.app.onQueryChanged(kh.app.searchInput.Value()))
	}
	return kh.app, cmd
}

// handleCustomKeys handles keys while the search input is blurred.
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	app := kh.app
	switch {
	case key.Matches(msg, kh.keys.Quit):
		return app, tea.Quit, true
	case key.Matches(msg, kh.keys.Focus, kh.keys.Toggle):
		return app, app.searchInput.Focus(), true
	case key.Matches(msg, kh.keys.Up):
		app.onNavigate(-1)
		return app, nil, true
	case key.Matches(msg, kh.keys.Down):
		app.onNavigate(1)
		return app, nil, true
	case key.Matches(msg, kh.keys.Select):
		return app, app.playSelected(), true
	case key.Matches(msg, kh.keys.PlayPause):
		return app, app.onPlaybackCommand(ActionPlayPause, spotify.Track{}), true
	case key.Matches(msg, kh.keys.Next):
		return app, app.onPlaybackCommand(ActionNext, spotify.Track{}), true
	case key.Matches(msg, kh.keys.Previous):
		return app, app.onPlaybackCommand(ActionPrevious, spotify.Track{}), true
	case key.Matches(msg, kh.keys.Help):
		app.showHelp()
		return app, nil, true
	}
	return app, nil, false
}

func (kh *KeyHandler) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.keys.Blur, kh.keys.Help, kh.keys.Quit) {
		kh.app.view = ViewMain
		return kh.app, nil
	}
	var cmd tea.Cmd
	kh.app.viewport, cmd = kh.app.viewport.Update(msg)
	return kh.app, cmd
}
