package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// RedirectURIValidator checks the OAuth redirect URI the local callback server
// listens on. The callback server speaks plain http, and Spotify only accepts
// plain http on loopback IP literals.
type RedirectURIValidator struct {
	// MaxLength is the maximum allowed URI length
	MaxLength int
}

func NewRedirectURIValidator() *RedirectURIValidator {
	return &RedirectURIValidator{
		MaxLength: 2048,
	}
}

// Validate parses input and returns the URI if it is usable as a loopback callback.
func (v *RedirectURIValidator) Validate(input string) (*url.URL, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("redirect URI cannot be empty")
	}
	if len(input) > v.MaxLength {
		return nil, fmt.Errorf("redirect URI too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return nil, fmt.Errorf("redirect URI contains invalid characters")
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI format: %w", err)
	}

	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URI must use http on a loopback address, got %q", u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return nil, fmt.Errorf("redirect URI must have a host")
	}
	if !isLoopbackIP(hostname) {
		return nil, fmt.Errorf("redirect URI host must be a loopback IP such as 127.0.0.1, got %q", hostname)
	}
	if u.Port() == "" {
		return nil, fmt.Errorf("redirect URI must include a port")
	}
	if u.Path == "" || u.Path == "/" {
		return nil, fmt.Errorf("redirect URI must include a callback path")
	}
	if strings.Contains(u.Path, "..") {
		return nil, fmt.Errorf("directory traversal patterns not allowed in redirect path")
	}

	return u, nil
}

// ListenAddr returns the host:port a callback server should bind for u.
func ListenAddr(u *url.URL) string {
	return net.JoinHostPort(u.Hostname(), u.Port())
}

func isLoopbackIP(hostname string) bool {
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}
