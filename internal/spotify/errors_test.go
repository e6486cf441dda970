package spotify

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/zmb3/spotify/v2"
)

func TestClassify_SentinelsMatchWithBothErrorPackages(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		want   error
		reject error
	}{
		{
			name:   "not found is no active device",
			cause:  spotify.Error{Message: "Player command failed: No active device found", Status: http.StatusNotFound},
			want:   ErrNoActiveDevice,
			reject: ErrTransport,
		},
		{
			name:   "reason in message",
			cause:  &spotify.Error{Message: "Player command failed: NO_ACTIVE_DEVICE", Status: http.StatusForbidden},
			want:   ErrNoActiveDevice,
			reject: ErrTransport,
		},
		{
			name:   "server error is transport",
			cause:  spotify.Error{Message: "Service unavailable", Status: http.StatusServiceUnavailable},
			want:   ErrTransport,
			reject: ErrNoActiveDevice,
		},
		{
			name:   "network error is transport",
			cause:  stderrors.New("dial tcp: connection refused"),
			want:   ErrTransport,
			reject: ErrNoActiveDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.cause, "pause")
			outer := fmt.Errorf("dispatch: %w", err)

			for _, e := range []error{err, outer} {
				assert.True(t, stderrors.Is(e, tt.want))
				assert.True(t, errors.Is(e, tt.want))
				assert.False(t, stderrors.Is(e, tt.reject))
				assert.False(t, errors.Is(e, tt.reject))
			}
			assert.Contains(t, err.Error(), "pause: ")
		})
	}
}

func TestClassify_KeepsAPIErrorReachable(t *testing.T) {
	err := classify(spotify.Error{Message: "Restriction violated", Status: http.StatusForbidden}, "next")

	var apiErr spotify.Error
	assert.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, "Restriction violated", Reason(err))
}

func TestWithKind_NotAuthenticated(t *testing.T) {
	err := withKind(ErrNotAuthenticated, errTokenMissing, "loading stored token")

	assert.True(t, stderrors.Is(err, ErrNotAuthenticated))
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
	assert.True(t, stderrors.Is(err, errTokenMissing))
	assert.Equal(t, "loading stored token: token missing", err.Error())
}

var errTokenMissing = stderrors.New("token missing")
