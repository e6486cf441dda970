package tui

import "github.com/pders01/sptui/internal/spotify"

type View int

const (
	ViewMain View = iota
	ViewHelp
)

// PlaybackAction is a user command forwarded to the remote player.
type PlaybackAction int

const (
	ActionPlayPause PlaybackAction = iota
	ActionNext
	ActionPrevious
	ActionSelectTrack
)

func (a PlaybackAction) String() string {
	switch a {
	case ActionPlayPause:
		return "play-pause"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionSelectTrack:
		return "select-track"
	default:
		return "unknown"
	}
}

// searchDebounceFireMsg arrives when the quiet interval after a keystroke ends.
type searchDebounceFireMsg struct {
	seq int
}

type searchResultsMsg struct {
	seq    int
	query  string
	tracks []spotify.Track
	err    error
}

type initialPlaybackMsg struct {
	playback *spotify.Playback
	err      error
}

// playbackResultMsg reports the outcome of one playback command.
type playbackResultMsg struct {
	action    PlaybackAction
	playing   bool
	trackName string
	err       error
}

// playbackSettledMsg fires once the settle delay after a skip has passed.
type playbackSettledMsg struct{}

type trackRefreshedMsg struct {
	playback *spotify.Playback
	err      error
}
