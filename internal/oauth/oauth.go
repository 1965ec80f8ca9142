// Package oauth wraps the authorization-code round trip with an external
// identity provider: building the redirect, checking the anti-forgery state,
// exchanging the code and reading the user's profile.
package oauth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
)

// ErrAuthenticationFailed is returned for every failed IdP interaction.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Profile is the subset of the IdP's user profile the service keeps.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

type Authenticator interface {
	Provider() string
	// BeginAuth returns the IdP authorization URL. The generated state is
	// stored in a cookie on w.
	BeginAuth(w http.ResponseWriter, r *http.Request) (string, error)
	// CompleteAuth handles the IdP redirect back to the service.
	CompleteAuth(w http.ResponseWriter, r *http.Request) (Profile, error)
}

// StoreOptions controls the cookie holding the per-login state.
type StoreOptions struct {
	Secret []byte
	Secure bool
	MaxAge int
}

// UseCookieStore points gothic at a signed cookie store. The cookie only lives
// for the redirect round trip.
func UseCookieStore(opts StoreOptions) {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 600
	}
	store := sessions.NewCookieStore(opts.Secret)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = opts.Secure
	store.MaxAge(maxAge)
	gothic.Store = store
}

// Gothic drives a goth provider registered through goth.UseProviders.
type Gothic struct {
	provider string
}

func NewGothic(provider string) *Gothic {
	return &Gothic{provider: provider}
}

func (g *Gothic) Provider() string {
	return g.provider
}

func (g *Gothic) BeginAuth(w http.ResponseWriter, r *http.Request) (string, error) {
	// gothic reuses a "state" query parameter when present; the state must
	// always be generated server side.
	r = r.Clone(r.Context())
	q := r.URL.Query()
	q.Del("state")
	r.URL.RawQuery = q.Encode()

	r = gothic.GetContextWithProvider(r, g.provider)
	url, err := gothic.GetAuthURL(w, r)
	if err != nil {
		return "", fmt.Errorf("build %s auth url: %w", g.provider, err)
	}
	return url, nil
}

func (g *Gothic) CompleteAuth(w http.ResponseWriter, r *http.Request) (Profile, error) {
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		_ = gothic.Logout(w, r)
		return Profile{}, fmt.Errorf("%w: provider returned %q", ErrAuthenticationFailed, errCode)
	}

	r = gothic.GetContextWithProvider(r, g.provider)
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if gothUser.AccessToken == "" {
		return Profile{}, fmt.Errorf("%w: no access token", ErrAuthenticationFailed)
	}

	email := strings.TrimSpace(gothUser.Email)
	if email == "" {
		return Profile{}, fmt.Errorf("%w: profile has no email", ErrAuthenticationFailed)
	}
	return Profile{
		Email:   email,
		Name:    gothUser.Name,
		Picture: gothUser.AvatarURL,
	}, nil
}

var _ Authenticator = (*Gothic)(nil)
