package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{t: t, handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, New(srv.Client(), WithBaseURL(srv.URL+"/"), WithTimeout(2*time.Second))
}

func (f *fakeAPI) on(method, path string, h http.HandlerFunc) {
	f.handlers[method+" "+path] = h
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})
	f.mu.Unlock()

	h, ok := f.handlers[r.Method+" "+r.URL.Path]
	if !ok {
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
		return
	}
	h(w, r)
}

func (f *fakeAPI) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func errorResponse(status int, message, reason string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, map[string]interface{}{
			"error": map[string]interface{}{
				"status":  status,
				"message": message,
				"reason":  reason,
			},
		})
	}
}

func searchPayload(names ...string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(names))
	for _, n := range names {
		items = append(items, map[string]interface{}{
			"name": n,
			"uri":  "spotify:track:" + n,
			"artists": []map[string]interface{}{
				{"name": n + " Artist"},
				{"name": "Featured"},
			},
		})
	}
	return map[string]interface{}{
		"tracks": map[string]interface{}{
			"items": items,
			"total": len(items),
		},
	}
}

func TestClient_Search(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodGet, "/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bohemian Rhapsody", r.URL.Query().Get("q"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, searchPayload("Bohemian Rhapsody", "Bohemian Like You"))
	})

	tracks, err := client.Search(context.Background(), "Bohemian Rhapsody", ResultLimit)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, Track{
		Name:   "Bohemian Rhapsody",
		Artist: "Bohemian Rhapsody Artist",
		URI:    "spotify:track:Bohemian Rhapsody",
	}, tracks[0])
	assert.Equal(t, "Bohemian Like You by Bohemian Like You Artist", tracks[1].Label())
}

func TestClient_Search_CapsAtLimit(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodGet, "/search", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, searchPayload("a", "b", "c", "d", "e", "f", "g"))
	})

	tracks, err := client.Search(context.Background(), "x", ResultLimit)
	require.NoError(t, err)
	assert.Len(t, tracks, ResultLimit)
}

func TestClient_Search_Market(t *testing.T) {
	f := &fakeAPI{t: t, handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	defer srv.Close()
	client := New(srv.Client(), WithBaseURL(srv.URL+"/"), WithMarket("DE"))

	f.on(http.MethodGet, "/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DE", r.URL.Query().Get("market"))
		writeJSON(w, http.StatusOK, searchPayload())
	})

	_, err := client.Search(context.Background(), "x", ResultLimit)
	require.NoError(t, err)
}

func TestClient_Search_EmptyIsNotError(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodGet, "/search", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, searchPayload())
	})

	tracks, err := client.Search(context.Background(), "zzzzqqqq", ResultLimit)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestClient_Search_TransportError(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodGet, "/search", errorResponse(http.StatusInternalServerError, "server exploded", ""))

	_, err := client.Search(context.Background(), "x", ResultLimit)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, IsNoActiveDevice(err))
	assert.Equal(t, "server exploded", Reason(err))
}

func TestClient_CurrentPlayback(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodGet, "/me/player", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"is_playing": true,
			"item":       map[string]interface{}{"name": "Song A", "uri": "spotify:track:a"},
		})
	})

	pb, err := client.CurrentPlayback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Playback{IsPlaying: true, TrackName: "Song A"}, pb)
}

func TestClient_CurrentPlayback_NothingLoaded(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodGet, "/me/player", noContent)

	pb, err := client.CurrentPlayback(context.Background())
	require.NoError(t, err)
	assert.False(t, pb.IsPlaying)
	assert.Empty(t, pb.TrackName)
}

func TestClient_PlayerCommands(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		call   func(*Client) error
	}{
		{"pause", http.MethodPut, "/me/player/pause", func(c *Client) error { return c.Pause(context.Background()) }},
		{"play", http.MethodPut, "/me/player/play", func(c *Client) error { return c.Play(context.Background()) }},
		{"next", http.MethodPost, "/me/player/next", func(c *Client) error { return c.Next(context.Background()) }},
		{"previous", http.MethodPost, "/me/player/previous", func(c *Client) error { return c.Previous(context.Background()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, client := newFakeAPI(t)
			f.on(tt.method, tt.path, noContent)

			require.NoError(t, tt.call(client))
			calls := f.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.method, calls[0].Method)
			assert.Equal(t, tt.path, calls[0].Path)
		})
	}
}

func TestClient_PlayTrack(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodPut, "/me/player/play", noContent)

	require.NoError(t, client.PlayTrack(context.Background(), "spotify:track:abc"))

	calls := f.calls()
	require.Len(t, calls, 1)
	var body struct {
		URIs []string `json:"uris"`
	}
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &body))
	assert.Equal(t, []string{"spotify:track:abc"}, body.URIs)
}

func TestClient_NoActiveDevice(t *testing.T) {
	f, client := newFakeAPI(t)
	f.on(http.MethodPut, "/me/player/play",
		errorResponse(http.StatusNotFound, "Player command failed: No active device found", "NO_ACTIVE_DEVICE"))
	f.on(http.MethodPost, "/me/player/next",
		errorResponse(http.StatusForbidden, "Player command failed: NO_ACTIVE_DEVICE", "NO_ACTIVE_DEVICE"))

	err := client.Play(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoActiveDevice)
	assert.True(t, IsNoActiveDevice(err))
	assert.NotErrorIs(t, err, ErrTransport)

	err = client.Next(context.Background())
	assert.True(t, IsNoActiveDevice(err))
}

func TestClient_Timeout(t *testing.T) {
	f := &fakeAPI{t: t, handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	defer srv.Close()
	client := New(srv.Client(), WithBaseURL(srv.URL+"/"), WithTimeout(20*time.Millisecond))

	release := make(chan struct{})
	defer close(release)
	f.on(http.MethodGet, "/me/player", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	_, err := client.CurrentPlayback(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, classify(nil, "op"))
}
