package spotify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/pders01/sptui/internal/debuglog"
	"github.com/pders01/sptui/internal/validation"
)

// Scopes are the permissions the client asks for.
var Scopes = []string{
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
}

// ErrNotAuthenticated means no token has been stored yet. Run `sptui auth`.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthConfig holds the application credentials registered with Spotify.
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// NewAuthenticator builds the authorization-code authenticator for cfg.
func NewAuthenticator(cfg AuthConfig) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(Scopes...),
	)
}

// TokenStore persists the OAuth token between runs.
type TokenStore interface {
	LoadToken() (*oauth2.Token, error)
	SaveToken(*oauth2.Token) error
}

// CodeExchanger is the part of the authenticator the browser flow needs.
type CodeExchanger interface {
	AuthURL(state string, opts ...oauth2.AuthCodeOption) string
	Token(ctx context.Context, state string, r *http.Request, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// Refresher trades an expired token for a fresh one.
type Refresher interface {
	RefreshToken(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

func newState() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", errors.Wrap(err, "generating oauth state")
	}
	return hex.EncodeToString(buf[:]), nil
}

// Authorize runs the authorization-code flow. It serves the callback on the
// loopback redirect URI, hands the consent URL to show, and returns the token
// once the browser comes back.
func Authorize(ctx context.Context, auth CodeExchanger, redirectURI string, show func(url string)) (*oauth2.Token, error) {
	u, err := validation.NewRedirectURIValidator().Validate(redirectURI)
	if err != nil {
		return nil, errors.Wrap(err, "redirect uri")
	}

	state, err := newState()
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", validation.ListenAddr(u))
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", u.Host)
	}

	type outcome struct {
		tok *oauth2.Token
		err error
	}
	results := make(chan outcome, 1)
	var once sync.Once
	finish := func(o outcome) {
		once.Do(func() { results <- o })
	}

	mux := http.NewServeMux()
	mux.HandleFunc(u.Path, func(w http.ResponseWriter, r *http.Request) {
		if reason := r.FormValue("error"); reason != "" {
			http.Error(w, "Authorization denied", http.StatusForbidden)
			finish(outcome{err: errors.Newf("authorization denied: %s", reason)})
			return
		}
		tok, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Failed to get token", http.StatusForbidden)
			finish(outcome{err: errors.Wrap(err, "exchanging authorization code")})
			return
		}
		fmt.Fprint(w, callbackPage)
		finish(outcome{tok: tok})
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			finish(outcome{err: errors.Wrap(err, "callback server")})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			debuglog.Warnf("callback server shutdown: %v", err)
		}
	}()

	show(auth.AuthURL(state))

	select {
	case o := <-results:
		return o.tok, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

const callbackPage = `<!DOCTYPE html>
<html>
<head><title>sptui - Authorization Complete</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 20vh;">
<h1>Authorization Complete</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>
`

// persistingSource refreshes the token and writes every new one back to the
// store so the next run starts from it.
type persistingSource struct {
	ctx       context.Context
	refresher Refresher
	store     TokenStore

	mu  sync.Mutex
	tok *oauth2.Token
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok.Valid() {
		return s.tok, nil
	}

	fresh, err := s.refresher.RefreshToken(s.ctx, s.tok)
	if err != nil {
		return nil, errors.Wrap(err, "refreshing token")
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.tok.RefreshToken
	}
	if err := s.store.SaveToken(fresh); err != nil {
		debuglog.Warnf("persisting refreshed token: %v", err)
	}
	s.tok = fresh
	return fresh, nil
}

// TokenSource loads the stored token and returns a source that refreshes and
// re-persists it as needed.
func TokenSource(ctx context.Context, refresher Refresher, store TokenStore) (oauth2.TokenSource, error) {
	tok, err := store.LoadToken()
	if err != nil {
		return nil, withKind(ErrNotAuthenticated, err, "loading stored token")
	}
	if tok == nil || (tok.RefreshToken == "" && !tok.Valid()) {
		return nil, ErrNotAuthenticated
	}
	src := &persistingSource{ctx: ctx, refresher: refresher, store: store, tok: tok}
	return oauth2.ReuseTokenSource(tok, src), nil
}

// NewHTTPClient returns an HTTP client authorised with the stored token.
func NewHTTPClient(ctx context.Context, refresher Refresher, store TokenStore) (*http.Client, error) {
	ts, err := TokenSource(ctx, refresher, store)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}
