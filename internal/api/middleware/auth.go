package middleware

import (
	"context"
	"net/http"

	"github.com/dom/news-api/internal/api/respond"
	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/logging"
	"github.com/google/uuid"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Authenticate resolves transport -> token -> identity and binds the identity
// to the request context. It never loads the account; the token's role is trusted.
func Authenticate(tokens *auth.TokenManager, transport *auth.Transport, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := transport.Extract(r, auth.AccessToken)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Access token missing")
				return
			}

			identity, err := tokens.Verify(token, auth.AccessToken)
			if err != nil {
				logger.Warn(r.Context(), "access token rejected", "path", r.URL.Path, "error", err)
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired access token")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize admits only identities whose role is in allowed.
func Authorize(allowed domain.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok || !identity.Role.IsValid() {
				respond.Error(w, http.StatusForbidden, "Access denied")
				return
			}

			if !allowed.Contains(identity.Role) {
				respond.Error(w, http.StatusForbidden, "You do not have permission to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(auth.Identity)
	return identity, ok
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := GetIdentity(ctx)
	return identity.UserID, ok
}
