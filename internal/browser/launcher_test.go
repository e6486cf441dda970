package browser

import (
	"os/exec"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookOnly(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, [][]string{{"open"}}, candidates("darwin"))
	assert.Equal(t, "rundll32", candidates("windows")[0][0])
	assert.Equal(t, "xdg-open", candidates("linux")[0][0])
	assert.Equal(t, "xdg-open", candidates("freebsd")[0][0])
}

func TestNewLauncher_NoOpener(t *testing.T) {
	l := NewLauncher(withLookPath(lookOnly()))

	assert.Empty(t, l.Opener())
	assert.True(t, errors.Is(l.Open("https://example.com"), ErrNoOpener))
}

func TestLauncher_OpenPassesURL(t *testing.T) {
	var got *exec.Cmd
	l := NewLauncher(
		WithOpener("my-browser", "--new-tab"),
		withStart(func(cmd *exec.Cmd) error {
			got = cmd
			return nil
		}),
	)

	require.NoError(t, l.Open("https://accounts.spotify.com/authorize?x=1"))
	require.NotNil(t, got)
	assert.Equal(t, []string{"my-browser", "--new-tab", "https://accounts.spotify.com/authorize?x=1"}, got.Args)
}

func TestLauncher_StartFailure(t *testing.T) {
	l := NewLauncher(
		WithOpener("broken"),
		withStart(func(*exec.Cmd) error { return errors.New("boom") }),
	)

	err := l.Open("https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start broken")
}

func TestWithOpenerSkipsLookup(t *testing.T) {
	called := false
	l := NewLauncher(
		WithOpener("custom"),
		withLookPath(func(string) (string, error) {
			called = true
			return "", exec.ErrNotFound
		}),
	)

	assert.Equal(t, "custom", l.Opener())
	assert.False(t, called)
}
