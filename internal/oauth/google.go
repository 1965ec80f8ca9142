package oauth

import (
	"net/http"
	"time"

	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/google"
)

const GoogleProvider = "google"

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

// NewGoogle registers goth's Google provider and returns an Authenticator for it.
func NewGoogle(cfg GoogleConfig) *Gothic {
	provider := google.New(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI, "email", "profile")
	if cfg.Timeout > 0 {
		provider.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	goth.UseProviders(provider)
	return NewGothic(provider.Name())
}
