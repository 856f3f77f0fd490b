package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/danesper/rewards-backend/internal/auth"
	"github.com/danesper/rewards-backend/internal/config"
	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/handler"
)

type userResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Identity resolves the calling user. Production requires a Bearer token
// minted by the identity service; outside production a bare X-User-Id header
// (or the configured default test user) is accepted so local clients don't
// need a token mint. Either way the user must exist.
func Identity(cfg *config.Config, users userResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, appErr := resolveUserID(cfg, r)
			if appErr != nil {
				handler.RespondAppError(w, appErr, nil)
				return
			}

			if _, err := users.GetByID(r.Context(), userID); err != nil {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveUserID(cfg *config.Config, r *http.Request) (uuid.UUID, *handler.AppError) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return uuid.Nil, handler.ErrInvalidToken
		}
		ident, err := auth.VerifyToken(token, cfg.JWTSecret)
		if err != nil {
			return uuid.Nil, handler.ErrInvalidToken
		}
		return ident.UserID, nil
	}

	if cfg.IsProduction() || !cfg.AllowIdentityFallback {
		return uuid.Nil, handler.ErrMissingToken
	}

	raw := r.Header.Get("X-User-Id")
	if raw == "" {
		raw = cfg.DefaultTestUserID
	}
	if raw == "" {
		return uuid.Nil, handler.ErrMissingToken
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, handler.ErrInvalidToken
	}
	return userID, nil
}
