package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/sptui/internal/config"
	"github.com/pders01/sptui/internal/spotify"
	"github.com/pders01/sptui/internal/worker"
)

// fakeAPI records every remote call. Playback reads pop from reads until one
// entry is left, which then repeats.
type fakeAPI struct {
	mu sync.Mutex

	calls    []string
	searches []string

	tracks    map[string][]spotify.Track
	searchErr error

	reads   []*spotify.Playback
	readErr error
	cmdErr  error
	// nilRead makes reads return (nil, nil).
	nilRead bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{tracks: map[string][]spotify.Track{}}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func (f *fakeAPI) Search(_ context.Context, query string, limit int) ([]spotify.Track, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.calls = append(f.calls, "search")
	tracks, err := f.tracks[query], f.searchErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (f *fakeAPI) CurrentPlayback(context.Context) (*spotify.Playback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "read")
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.nilRead {
		return nil, nil
	}
	if len(f.reads) == 0 {
		return &spotify.Playback{}, nil
	}
	pb := *f.reads[0]
	if len(f.reads) > 1 {
		f.reads = f.reads[1:]
	}
	return &pb, nil
}

func (f *fakeAPI) command(name string) error {
	f.record(name)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cmdErr
}

func (f *fakeAPI) Pause(context.Context) error    { return f.command("pause") }
func (f *fakeAPI) Play(context.Context) error     { return f.command("play") }
func (f *fakeAPI) Next(context.Context) error     { return f.command("next") }
func (f *fakeAPI) Previous(context.Context) error { return f.command("previous") }

func (f *fakeAPI) PlayTrack(_ context.Context, uri string) error {
	return f.command("play-track " + uri)
}

func newTestApp(t *testing.T, api spotify.API) *App {
	t.Helper()
	cfg := config.TestConfig()
	cfg.Search.Debounce = 5 * time.Millisecond
	cfg.Playback.SettleDelay = time.Millisecond
	app := NewApp(cfg, api, worker.New(1))
	t.Cleanup(app.Close)
	return app
}

// collect runs cmd and any batched commands, returning the messages produced.
// Only use it on commands that finish quickly.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// pump feeds msgs to the app and keeps feeding whatever the resulting commands
// produce, skipping spinner ticks so it terminates.
func pump(app *App, msgs ...tea.Msg) {
	for len(msgs) > 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		_, cmd := app.Update(msg)
		for _, next := range collect(cmd) {
			if _, isTick := next.(spinner.TickMsg); isTick {
				continue
			}
			msgs = append(msgs, next)
		}
	}
}

func tracksNamed(names ...string) []spotify.Track {
	out := make([]spotify.Track, 0, len(names))
	for _, n := range names {
		out = append(out, spotify.Track{Name: n, Artist: n + " Artist", URI: "spotify:track:" + n})
	}
	return out
}
