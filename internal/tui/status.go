package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgTypeToSearch   = "Type to search..."
	MsgNoResults      = "No results"
	MsgSearching      = "Searching…"
	MsgPaused         = "Paused"
	MsgPlaying        = "Playing"
	MsgNotPlaying     = "Not Playing"
	MsgNoActiveDevice = "Error: No active Spotify device found"
)

func MsgPlayingTrack(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return MsgPlaying
	}
	return "Playing: " + name
}

func MsgPlaybackError(reason string) string {
	return fmt.Sprintf("Playback Error: %s", reason)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}
