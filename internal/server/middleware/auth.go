package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/storage"
	"github.com/skripsit/backend/internal/server/token"
	"github.com/skripsit/backend/pkg/api"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFrom returns the authenticated principal attached by Auth.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*models.Principal)
	return p, ok
}

// WithPrincipal attaches a principal to the context. Exported for handler
// tests.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Auth verifies the session cookie, rejects revoked tokens, loads the
// account, and attaches an explicit principal to the request context. Every
// failure mode answers with the same generic 401.
func Auth(
	logger *slog.Logger,
	users storage.UserStorage,
	revoked storage.RevocationStore,
	cfg token.Config,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(token.CookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			claims, err := token.Validate(cfg, cookie.Value)
			if err != nil {
				logger.WarnContext(ctx, "invalid session token", slog.Any("error", err))
				unauthorized(w)
				return
			}

			isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
			if err != nil {
				logger.ErrorContext(ctx, "revocation check failed", slog.Any("error", err))
				unauthorized(w)
				return
			}
			if isRevoked {
				unauthorized(w)
				return
			}

			user, err := users.GetUserByID(ctx, claims.UserID)
			if err != nil {
				logger.WarnContext(ctx, "session for unknown user", slog.String("user_id", claims.UserID))
				unauthorized(w)
				return
			}

			principal := &models.Principal{
				UserID:         user.ID,
				Name:           user.Name,
				Email:          user.Email,
				Role:           user.Role,
				TokenID:        claims.ID,
				TokenExpiresAt: claims.ExpiresAt.Time,
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

// RequireAdmin rejects authenticated principals without the admin role.
// Must run after Auth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !principal.IsAdmin() {
				logger.WarnContext(r.Context(), "admin access denied",
					slog.String("user_id", principal.UserID),
					slog.String("role", principal.Role),
				)
				writeJSONError(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeJSONError(w, "not authenticated", http.StatusUnauthorized)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Success: false, Error: message})
}
