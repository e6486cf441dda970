package spotify

import "context"

// API is the subset of the Spotify Web API the app drives. Every method blocks on
// the network and must run off the UI loop.
type API interface {
	Search(ctx context.Context, query string, limit int) ([]Track, error)
	CurrentPlayback(ctx context.Context) (*Playback, error)
	Pause(ctx context.Context) error
	Play(ctx context.Context) error
	PlayTrack(ctx context.Context, uri string) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
}

var _ API = (*Client)(nil)
