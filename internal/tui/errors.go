package tui

import (
	"fmt"

	"github.com/pders01/sptui/internal/spotify"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// playbackErrorStatus maps a failed player call to the text shown in the
// now-playing label.
func playbackErrorStatus(err error) string {
	if spotify.IsNoActiveDevice(err) {
		return MsgNoActiveDevice
	}
	return MsgPlaybackError(spotify.Reason(err))
}
