package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
)

// bearerPrefix - ожидаемая схема заголовка Authorization
const bearerPrefix = "Bearer "

// Guard извлекает личность из заголовка Authorization
// и применяет ролевой предикат к защищенным операциям
type Guard struct {
	logger *slog.Logger
	users  storage.UserStorage
	codec  *Codec
}

// NewGuard создает новый Guard
func NewGuard(logger *slog.Logger, users storage.UserStorage, codec *Codec) *Guard {
	return &Guard{
		logger: logger,
		users:  users,
		codec:  codec,
	}
}

// Authenticate разрешает заголовок Authorization в пользователя
// Ошибки: ErrMissingToken (нет заголовка или схема не Bearer),
// ErrInvalidToken (не прошла проверка токена),
// ErrUserNotFound (пользователь удален после выпуска токена)
func (g *Guard) Authenticate(ctx context.Context, authHeader string, now time.Time) (*models.User, error) {
	if authHeader == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, ErrMissingToken
	}

	tokenString := authHeader[len(bearerPrefix):]
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	subject, err := g.codec.Verify(tokenString, now)
	if err != nil {
		// Полная причина только в лог: снаружи один вариант ошибки,
		// чтобы не давать оракул (формат/подпись/срок)
		g.logger.WarnContext(ctx, "token verification failed", slog.Any("error", err))
		return nil, ErrInvalidToken
	}

	user, err := g.users.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Токены не отзываются, поэтому токен удаленного
			// пользователя ловится только здесь
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return user, nil
}

// RequireRole проверяет, что роль пользователя входит в разрешенный набор
// Чистый предикат без I/O
func RequireRole(user *models.User, allowed ...models.Role) error {
	if user == nil {
		return ErrForbidden
	}

	if slices.Contains(allowed, user.Role) {
		return nil
	}

	return ErrForbidden
}
