// Package oauthtest provides an in-process goth provider that stands in for a
// real identity provider in tests.
package oauthtest

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/markbates/goth"
	"golang.org/x/oauth2"
)

const AuthURL = "https://idp.example.test/authorize"

// Provider accepts any non-empty code except RejectCode and returns User as
// the profile.
type Provider struct {
	name        string
	User        goth.User
	RejectCode  string
	FailProfile bool
}

func NewProvider(name string) *Provider {
	return &Provider{
		name: name,
		User: goth.User{
			UserID:    "idp-user-1",
			Email:     "ada@example.com",
			Name:      "Ada Lovelace",
			AvatarURL: "https://example.com/ada.png",
		},
		RejectCode: "rejected",
	}
}

type Session struct {
	AuthURL     string `json:"auth_url"`
	AccessToken string `json:"access_token"`
}

func (s *Session) GetAuthURL() (string, error) {
	if s.AuthURL == "" {
		return "", errors.New("oauthtest: missing auth url")
	}
	return s.AuthURL, nil
}

func (s *Session) Marshal() string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (s *Session) Authorize(provider goth.Provider, params goth.Params) (string, error) {
	p, ok := provider.(*Provider)
	if !ok {
		return "", errors.New("oauthtest: unexpected provider")
	}
	code := params.Get("code")
	if code == "" || code == p.RejectCode {
		return "", errors.New("oauthtest: code rejected")
	}
	s.AccessToken = "access-" + code
	return s.AccessToken, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) SetName(name string) {
	p.name = name
}

func (p *Provider) BeginAuth(state string) (goth.Session, error) {
	q := url.Values{}
	q.Set("client_id", "test-client")
	q.Set("response_type", "code")
	q.Set("state", state)
	return &Session{AuthURL: AuthURL + "?" + q.Encode()}, nil
}

func (p *Provider) UnmarshalSession(data string) (goth.Session, error) {
	s := &Session{}
	err := json.NewDecoder(strings.NewReader(data)).Decode(s)
	return s, err
}

func (p *Provider) FetchUser(session goth.Session) (goth.User, error) {
	s, ok := session.(*Session)
	if !ok {
		return goth.User{}, errors.New("oauthtest: unexpected session")
	}
	if s.AccessToken == "" {
		return goth.User{}, errors.New("oauthtest: cannot get user information without accessToken")
	}
	if p.FailProfile {
		return goth.User{}, errors.New("oauthtest: profile endpoint responded with 500")
	}
	user := p.User
	user.Provider = p.name
	user.AccessToken = s.AccessToken
	return user, nil
}

func (p *Provider) Debug(bool) {}

func (p *Provider) RefreshToken(string) (*oauth2.Token, error) {
	return nil, errors.New("oauthtest: refresh not supported")
}

func (p *Provider) RefreshTokenAvailable() bool {
	return false
}
