package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/AdamBeresnev/pose-backend/internal/config"
	"github.com/AdamBeresnev/pose-backend/internal/httputil"
	"github.com/AdamBeresnev/pose-backend/internal/logger"
	"github.com/AdamBeresnev/pose-backend/internal/middleware"
	"github.com/AdamBeresnev/pose-backend/internal/oauth"
	"github.com/AdamBeresnev/pose-backend/internal/service"
	"github.com/AdamBeresnev/pose-backend/internal/token"
	"go.uber.org/zap"
)

// Error codes sent to the frontend login page. Internal error text never
// leaves the server.
const (
	errLoginUnavailable     = "login_unavailable"
	errAuthenticationFailed = "authentication_failed"
	errLoginFailed          = "login_failed"
)

type application struct {
	cfg    *config.Config
	auth   oauth.Authenticator
	users  *service.UserService
	tokens *token.Codec
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	authURL, err := app.auth.BeginAuth(w, r)
	if err != nil {
		logger.Error("failed to start login", zap.String("provider", app.auth.Provider()), zap.Error(err))
		app.redirectToFrontend(w, r, "/login", url.Values{"error": {errLoginUnavailable}})
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (app *application) callback(w http.ResponseWriter, r *http.Request) {
	provider := app.auth.Provider()

	profile, err := app.auth.CompleteAuth(w, r)
	if err != nil {
		logger.Warn("oauth callback failed", zap.String("provider", provider), zap.Error(err))
		app.redirectToFrontend(w, r, "/login", url.Values{"error": {errAuthenticationFailed}})
		return
	}

	user, err := app.users.LoginOrCreate(r.Context(), service.Identity{
		Email:    profile.Email,
		Name:     profile.Name,
		Picture:  profile.Picture,
		Provider: provider,
	})
	if err != nil {
		logger.Error("failed to find or create user", zap.String("provider", provider), zap.Error(err))
		app.redirectToFrontend(w, r, "/login", url.Values{"error": {errLoginFailed}})
		return
	}

	accessToken, err := app.tokens.Issue(user.ID.String())
	if err != nil {
		logger.Error("failed to issue access token", zap.String("user_id", user.ID.String()), zap.Error(err))
		app.redirectToFrontend(w, r, "/login", url.Values{"error": {errLoginFailed}})
		return
	}

	logger.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("provider", provider))
	app.redirectToFrontend(w, r, "/auth/callback", url.Values{"token": {accessToken}})
}

func (app *application) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.Unauthorized(w, "Invalid or expired token", nil)
		return
	}

	user, err := app.users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httputil.NotFound(w, "User not found", err)
			return
		}
		httputil.InternalServerError(w, "Failed to get user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (app *application) redirectToFrontend(w http.ResponseWriter, r *http.Request, path string, params url.Values) {
	target := app.cfg.FrontendURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}
