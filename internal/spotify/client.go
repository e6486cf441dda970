// Package spotify wraps the Spotify Web API behind the small API interface the
// terminal client uses.
package spotify

import (
	"context"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/pders01/sptui/internal/debuglog"
)

// Client is a Spotify API client.
type Client struct {
	client  *spotify.Client
	market  string
	timeout time.Duration
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithMarket restricts search results to an ISO 3166-1 alpha-2 market.
func WithMarket(market string) Option {
	return func(c *Client) { c.market = market }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithBaseURL points the client at another API root. Tests use it with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// New creates a client on top of an already authenticated HTTP client.
func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	var clientOpts []spotify.ClientOption
	if c.baseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(c.baseURL))
	}
	c.client = spotify.New(httpClient, clientOpts...)
	return c
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Search returns at most limit tracks matching query. No matches is an empty
// slice, not an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 || limit > 50 {
		limit = ResultLimit
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}

	result, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, opts...)
	if err != nil {
		return nil, classify(err, "search")
	}
	if result == nil || result.Tracks == nil {
		return []Track{}, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Tracks))
	for i := range result.Tracks.Tracks {
		tracks = append(tracks, convertTrack(&result.Tracks.Tracks[i]))
		if len(tracks) == limit {
			break
		}
	}
	debuglog.Debugf("search %q returned %d tracks", query, len(tracks))
	return tracks, nil
}

// CurrentPlayback reads the player state. A player with nothing loaded yields a
// Playback with an empty TrackName.
func (c *Client) CurrentPlayback(ctx context.Context) (*Playback, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	state, err := c.client.PlayerState(ctx)
	if err != nil {
		return nil, classify(err, "read playback")
	}

	pb := &Playback{}
	if state == nil {
		return pb, nil
	}
	pb.IsPlaying = state.Playing
	if state.Item != nil {
		pb.TrackName = state.Item.Name
	}
	return pb, nil
}

func (c *Client) Pause(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return classify(c.client.Pause(ctx), "pause")
}

// Play resumes whatever the active device has loaded.
func (c *Client) Play(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return classify(c.client.Play(ctx), "play")
}

// PlayTrack replaces the playback queue with a single track.
func (c *Client) PlayTrack(ctx context.Context, uri string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.client.PlayOpt(ctx, &spotify.PlayOptions{
		URIs: []spotify.URI{spotify.URI(uri)},
	})
	return classify(err, "play track")
}

func (c *Client) Next(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return classify(c.client.Next(ctx), "next")
}

func (c *Client) Previous(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return classify(c.client.Previous(ctx), "previous")
}

func convertTrack(t *spotify.FullTrack) Track {
	tr := Track{
		Name: t.Name,
		URI:  string(t.URI),
	}
	if len(t.Artists) > 0 {
		tr.Artist = t.Artists[0].Name
	}
	return tr
}
