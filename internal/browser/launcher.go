package browser

import (
	"os/exec"
	"runtime"

	"github.com/cockroachdb/errors"
)

// ErrNoOpener is returned when no command for opening URLs is installed.
var ErrNoOpener = errors.New("no application found to open URL")

// Launcher opens URLs with the platform's default handler.
type Launcher struct {
	opener   string
	args     []string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

type Option func(*Launcher)

// WithOpener forces a specific command instead of the platform default.
func WithOpener(name string, args ...string) Option {
	return func(l *Launcher) {
		l.opener = name
		l.args = args
	}
}

func withLookPath(fn func(string) (string, error)) Option {
	return func(l *Launcher) { l.lookPath = fn }
}

func withStart(fn func(*exec.Cmd) error) Option {
	return func(l *Launcher) { l.start = fn }
}

// candidates lists openers to try for a GOOS, in order. Each entry is the
// command followed by its leading arguments.
func candidates(goos string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"open"}}
	case "windows":
		return [][]string{{"rundll32", "url.dll,FileProtocolHandler"}}
	default:
		return [][]string{{"xdg-open"}, {"wslview"}, {"sensible-browser"}}
	}
}

func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.opener == "" {
		for _, c := range candidates(runtime.GOOS) {
			if _, err := l.lookPath(c[0]); err == nil {
				l.opener = c[0]
				l.args = c[1:]
				break
			}
		}
	}

	return l
}

// Opener reports the command Open will run, or "" when none was found.
func (l *Launcher) Opener() string {
	return l.opener
}

// Open starts the opener detached and returns without waiting for it.
func (l *Launcher) Open(url string) error {
	if l.opener == "" {
		return ErrNoOpener
	}

	args := append(append([]string{}, l.args...), url)
	cmd := exec.Command(l.opener, args...)

	if err := l.start(cmd); err != nil {
		return errors.Wrapf(err, "failed to start %s", l.opener)
	}

	if cmd.Process != nil {
		go func() {
			_ = cmd.Wait()
		}()
	}

	return nil
}
