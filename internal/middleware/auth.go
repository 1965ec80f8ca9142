package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AdamBeresnev/pose-backend/internal/httputil"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

const bearerPrefix = "Bearer "

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireBearer rejects requests without a valid bearer token and stores the
// token subject under UserIDKey.
func RequireBearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.Unauthorized(w, "Missing or invalid authorization header", nil)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				httputil.Unauthorized(w, "Invalid or expired token", err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
