package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/sptui/internal/config"
	"github.com/pders01/sptui/internal/spotify"
	"github.com/pders01/sptui/internal/worker"
)

const (
	maxContentWidth = 60
	resultRows      = spotify.ResultLimit
)

type App struct {
	config     *config.Config
	client     spotify.API
	dispatcher *worker.Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc

	keyHandler  *KeyHandler
	keys        KeyMap
	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	help        help.Model
	view        View

	results       []spotify.Track
	selected      int
	resultsNotice string
	searching     bool
	searchSeq     int
	pendingQuery  string
	searchCancel  context.CancelFunc

	playback   spotify.Playback
	status     string
	statusKind StatusKind

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

// NewApp wires the UI to an API client and the background dispatcher. The
// caller owns the dispatcher but Close shuts it down.
func NewApp(cfg *config.Config, client spotify.API, dispatcher *worker.Dispatcher) *App {
	si := textinput.New()
	si.Placeholder = "Enter track name..."
	si.Prompt = "› "
	si.CharLimit = cfg.Search.MaxQueryLength
	si.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	keys := newKeyMap(cfg.Keys.Bindings)
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		client:        client,
		dispatcher:    dispatcher,
		ctx:           ctx,
		cancel:        cancel,
		keys:          keys,
		searchInput:   si,
		spinner:       sp,
		viewport:      viewport.New(0, 0),
		help:          help.New(),
		view:          ViewMain,
		resultsNotice: MsgTypeToSearch,
		status:        MsgNotPlaying,
	}
	app.keyHandler = NewKeyHandler(app, keys)

	return app
}

// Close cancels outstanding work and shuts the dispatcher down without waiting
// for in-flight calls.
func (a *App) Close() {
	a.cancelSearch()
	a.cancel()
	a.dispatcher.Close()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchInitialPlayback(),
		tea.SetWindowTitle(WindowTitle),
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 2
		a.help.Width = msg.Width
		a.searchInput.Width = a.contentWidth() - 4

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case searchDebounceFireMsg:
		return a, a.fireSearch(msg)

	case searchResultsMsg:
		a.applySearchResults(msg)

	case initialPlaybackMsg:
		a.applyInitialPlayback(msg)

	case playbackResultMsg:
		return a, a.applyPlaybackResult(msg)

	case playbackSettledMsg:
		return a, a.refreshTrack()

	case trackRefreshedMsg:
		a.applyTrackRefresh(msg)

	case spinner.TickMsg:
		if !a.searching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	default:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) contentWidth() int {
	w := a.width - 4
	if w > maxContentWidth {
		w = maxContentWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (a *App) View() string {
	if a.view == ViewHelp {
		footer := renderMuted(a.keys.Blur.Help().Key + " / " + a.keys.Help.Help().Key + ": back")
		return lipgloss.JoinVertical(lipgloss.Left, a.viewport.View(), footer)
	}

	width := a.contentWidth()

	main := lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader(WindowTitle, CompactLogo, width),
		"",
		LabelStyle.Render("Search for a track:"),
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), width-4),
		a.renderResults(width),
	)

	playerBar := a.renderPlayerBar()
	footer := a.help.View(a.keys)

	if a.width == 0 || a.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, main, "", playerBar, footer)
	}

	bodyHeight := a.height - lipgloss.Height(playerBar) - lipgloss.Height(footer)
	if bodyHeight < lipgloss.Height(main) {
		bodyHeight = lipgloss.Height(main)
	}
	body := lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, main)

	return lipgloss.JoinVertical(lipgloss.Left, body, playerBar, footer)
}

// renderResults draws the fixed five-row result box.
func (a *App) renderResults(width int) string {
	rows := make([]string, 0, resultRows+1)

	switch {
	case len(a.results) == 0:
		notice := a.resultsNotice
		if a.searching {
			notice = a.spinner.View() + " " + MsgSearching
		}
		rows = append(rows, renderMuted(" "+notice))
	default:
		for i, t := range a.results {
			line := truncateEnd(t.Label(), width-4)
			if i == a.selected {
				rows = append(rows, SelectedItemStyle.Render("> "+line))
				continue
			}
			rows = append(rows, ResultStyle.Render("  "+line))
		}
		if a.searching {
			rows = append(rows, renderMuted(a.spinner.View()+" "+MsgSearching))
		}
	}

	for len(rows) < resultRows {
		rows = append(rows, "")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(resultRows + 1).
		MarginTop(1).
		Render(strings.Join(rows, "\n"))
}

func (a *App) renderPlayerBar() string {
	width := a.width
	if width == 0 {
		width = a.contentWidth()
	}

	controls := ControlsStyle.Render(a.keys.ControlsLegend())
	nowPlaying := a.statusKind.style().Render(a.status)
	line := controls + "   " + nowPlaying
	if lipgloss.Width(line) > width-2 {
		line = lipgloss.JoinVertical(lipgloss.Left, controls, nowPlaying)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderSeparator(width),
		PlayerBarStyle.Width(width).Render(line),
	)
}
