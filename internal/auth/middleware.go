package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shreyannandanwar/CrewAI/internal/api/respond"
	"github.com/shreyannandanwar/CrewAI/internal/models"
)

type contextKey string

// userContextKey is the context key for the authenticated user.
const userContextKey = contextKey("authUser")

// UserLoader resolves a user ID from a verified token to a user record.
type UserLoader interface {
	GetUserByID(id string) (models.User, error)
}

// UserFromContext returns the authenticated user attached by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// WithUser attaches a user record to the context the same way Middleware
// does. Intended for handler tests.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Middleware creates a middleware for protecting routes. It verifies the
// Bearer token, loads the matching user and attaches it (sanitized) to
// the request context. Expired and otherwise invalid tokens are rejected
// the same way.
func Middleware(tokens *TokenService, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Fail(w, http.StatusUnauthorized, "No token provided", nil)
				return
			}

			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenStr == "" {
				respond.Fail(w, http.StatusUnauthorized, "Invalid token", nil)
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				respond.Fail(w, http.StatusUnauthorized, "Invalid token", nil)
				return
			}

			user, err := users.GetUserByID(userID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("User from token not found")
				respond.Fail(w, http.StatusUnauthorized, "Invalid token", nil)
				return
			}
			user.PasswordHash = ""

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
