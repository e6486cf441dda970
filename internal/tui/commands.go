package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/sptui/internal/debuglog"
	"github.com/pders01/sptui/internal/spotify"
	"github.com/pders01/sptui/internal/worker"
)

// onQueryChanged runs for every edit of the search input. It supersedes the
// live search and either clears the results or schedules a debounced search.
func (a *App) onQueryChanged(text string) tea.Cmd {
	a.searchSeq++
	a.cancelSearch()

	query := sanitizeQuery(text, a.config.Search.MaxQueryLength)
	a.pendingQuery = query

	if query == "" {
		a.results = nil
		a.selected = 0
		a.resultsNotice = MsgTypeToSearch
		return nil
	}

	seq := a.searchSeq
	return tea.Tick(a.config.Search.Debounce, func(time.Time) tea.Msg {
		return searchDebounceFireMsg{seq: seq}
	})
}

func (a *App) cancelSearch() {
	if a.searchCancel != nil {
		a.searchCancel()
		a.searchCancel = nil
	}
	a.searching = false
}

// fireSearch submits the pending query once its quiet interval has passed.
// Ticks from superseded keystrokes are dropped.
func (a *App) fireSearch(msg searchDebounceFireMsg) tea.Cmd {
	if msg.seq != a.searchSeq || a.pendingQuery == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(a.ctx)
	a.searchCancel = cancel
	a.searching = true

	return tea.Batch(a.spinner.Tick, a.searchCmd(ctx, msg.seq, a.pendingQuery))
}

func (a *App) searchCmd(ctx context.Context, seq int, query string) tea.Cmd {
	client, dispatcher := a.client, a.dispatcher
	return func() tea.Msg {
		tracks, err := worker.Call(ctx, dispatcher, func(ctx context.Context) ([]spotify.Track, error) {
			return client.Search(ctx, query, spotify.ResultLimit)
		})
		return searchResultsMsg{seq: seq, query: query, tracks: tracks, err: err}
	}
}

func (a *App) applySearchResults(msg searchResultsMsg) {
	if msg.seq != a.searchSeq {
		debuglog.Debugf("dropping stale results for %q", msg.query)
		return
	}
	a.cancelSearch()

	if msg.err != nil {
		debuglog.Warnf("%v", wrapErr("search "+msg.query, msg.err))
	}
	if msg.err != nil || len(msg.tracks) == 0 {
		a.results = nil
		a.selected = 0
		a.resultsNotice = MsgNoResults
		return
	}

	tracks := msg.tracks
	if len(tracks) > spotify.ResultLimit {
		tracks = tracks[:spotify.ResultLimit]
	}
	a.results = tracks
	a.selected = 0
}

// onNavigate moves the selection by delta, clamped to the result set.
func (a *App) onNavigate(delta int) {
	if len(a.results) == 0 || a.searchInput.Focused() {
		return
	}
	a.selected += delta
	if a.selected < 0 {
		a.selected = 0
	}
	if last := len(a.results) - 1; a.selected > last {
		a.selected = last
	}
}

func (a *App) selectedTrack() (spotify.Track, bool) {
	if a.selected < 0 || a.selected >= len(a.results) {
		return spotify.Track{}, false
	}
	return a.results[a.selected], true
}

func (a *App) playSelected() tea.Cmd {
	track, ok := a.selectedTrack()
	if !ok {
		return nil
	}
	return a.onPlaybackCommand(ActionSelectTrack, track)
}

// onPlaybackCommand dispatches one playback command. Every command starts with
// a read of the remote player; commands are not serialized against each other.
func (a *App) onPlaybackCommand(action PlaybackAction, track spotify.Track) tea.Cmd {
	ctx, client, dispatcher := a.ctx, a.client, a.dispatcher
	debuglog.WithFields(map[string]interface{}{
		"action": action.String(),
		"uri":    track.URI,
	}).Debugf("playback command")

	return func() tea.Msg {
		current, err := worker.Call(ctx, dispatcher, client.CurrentPlayback)
		if err != nil {
			return playbackResultMsg{action: action, err: err}
		}
		if current == nil {
			current = &spotify.Playback{}
		}

		run := func(fn func(context.Context) error) error {
			return worker.Go(ctx, dispatcher, fn)
		}

		switch action {
		case ActionPlayPause:
			if current.IsPlaying {
				if err := run(client.Pause); err != nil {
					return playbackResultMsg{action: action, err: err}
				}
				return playbackResultMsg{action: action, playing: false, trackName: current.TrackName}
			}
			if err := run(client.Play); err != nil {
				return playbackResultMsg{action: action, err: err}
			}
			return playbackResultMsg{action: action, playing: true, trackName: current.TrackName}

		case ActionNext, ActionPrevious:
			skip := client.Next
			if action == ActionPrevious {
				skip = client.Previous
			}
			if err := run(skip); err != nil {
				return playbackResultMsg{action: action, err: err}
			}
			return playbackResultMsg{action: action, playing: true, trackName: current.TrackName}

		case ActionSelectTrack:
			err := run(func(ctx context.Context) error {
				return client.PlayTrack(ctx, track.URI)
			})
			if err != nil {
				return playbackResultMsg{action: action, err: err}
			}
			return playbackResultMsg{action: action, playing: true, trackName: track.Name}
		}
		return nil
	}
}

func (a *App) applyPlaybackResult(msg playbackResultMsg) tea.Cmd {
	if msg.err != nil {
		debuglog.Warnf("%v", wrapErr(msg.action.String(), msg.err))
		a.setStatus(playbackErrorStatus(msg.err), StatusError)
		return nil
	}

	a.playback.IsPlaying = msg.playing

	switch msg.action {
	case ActionPlayPause:
		if !msg.playing {
			a.setStatus(MsgPaused, StatusInfo)
			return nil
		}
		if msg.trackName != "" {
			a.playback.TrackName = msg.trackName
		}
		a.setStatus(MsgPlayingTrack(msg.trackName), StatusSuccess)

	case ActionNext, ActionPrevious:
		return tea.Tick(a.config.Playback.SettleDelay, func(time.Time) tea.Msg {
			return playbackSettledMsg{}
		})

	case ActionSelectTrack:
		a.playback.TrackName = msg.trackName
		a.setStatus(MsgPlayingTrack(msg.trackName), StatusSuccess)
	}
	return nil
}

// refreshTrack is the secondary read after a skip; skips don't return the new
// track.
func (a *App) refreshTrack() tea.Cmd {
	ctx, client, dispatcher := a.ctx, a.client, a.dispatcher
	return func() tea.Msg {
		pb, err := worker.Call(ctx, dispatcher, client.CurrentPlayback)
		return trackRefreshedMsg{playback: pb, err: err}
	}
}

func (a *App) applyTrackRefresh(msg trackRefreshedMsg) {
	if msg.err != nil {
		debuglog.Warnf("%v", wrapErr("refresh after skip", msg.err))
		a.setStatus(playbackErrorStatus(msg.err), StatusError)
		return
	}
	if msg.playback == nil {
		return
	}
	a.playback = *msg.playback
	if a.playback.TrackName != "" {
		a.setStatus(MsgPlayingTrack(a.playback.TrackName), StatusSuccess)
	}
}

func (a *App) fetchInitialPlayback() tea.Cmd {
	ctx, client, dispatcher := a.ctx, a.client, a.dispatcher
	return func() tea.Msg {
		pb, err := worker.Call(ctx, dispatcher, client.CurrentPlayback)
		return initialPlaybackMsg{playback: pb, err: err}
	}
}

// applyInitialPlayback pre-populates the now-playing label. A failed startup
// read is deliberately dropped here and only here.
func (a *App) applyInitialPlayback(msg initialPlaybackMsg) {
	if msg.err != nil || msg.playback == nil {
		return
	}
	a.playback = *msg.playback
	if a.playback.TrackName != "" {
		a.setStatus(MsgPlayingTrack(a.playback.TrackName), StatusSuccess)
	}
}
