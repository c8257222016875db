package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/auth"
	"github.com/antonk9218/gomarket/internal/server/handlers"
)

// AuthMiddleware создает middleware для проверки Bearer токена
// Разрешает заголовок Authorization в пользователя и кладет его в контекст
// под handlers.UserContextKey
func AuthMiddleware(logger *slog.Logger, guard *auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := guard.Authenticate(r.Context(), r.Header.Get("Authorization"), time.Now())
			if err != nil {
				// Детали уже залогированы внутри Guard; клиенту - общий 401
				switch {
				case errors.Is(err, auth.ErrMissingToken):
					http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
					http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				default:
					logger.Error("authentication failed", slog.Any("error", err))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
				return
			}

			logger.Debug("user authenticated", "user_id", user.ID)

			ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoleMiddleware создает middleware ролевого контроля
// Вешается ПОСЛЕ AuthMiddleware: пользователь уже должен быть в контексте
func RequireRoleMiddleware(logger *slog.Logger, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := handlers.UserFromContext(r.Context())
			if err := auth.RequireRole(user, allowed...); err != nil {
				if user != nil {
					logger.Warn("access denied",
						"user_id", user.ID,
						"role", string(user.Role),
						"path", r.URL.Path,
					)
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
