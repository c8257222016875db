package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
)

// Authenticator оркестрирует вход и регистрацию
type Authenticator struct {
	logger *slog.Logger
	users  storage.UserStorage
	codec  *Codec
}

// NewAuthenticator создает новый Authenticator
func NewAuthenticator(logger *slog.Logger, users storage.UserStorage, codec *Codec) *Authenticator {
	return &Authenticator{
		logger: logger,
		users:  users,
		codec:  codec,
	}
}

// Login проверяет учетные данные и выпускает токен
// Отсутствующий email и неверный пароль неразличимы снаружи:
// оба дают ErrInvalidCredentials
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.codec.Issue(user.Email, time.Now())
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

// Register создает нового пользователя с ролью ORDINARY_USER
// Роль не принимается от вызывающего: повышение роли через API невозможно
// Автоматического входа после регистрации нет
func (a *Authenticator) Register(ctx context.Context, email, firstName, lastName, password string) error {
	// Проверка существования до хеширования — оптимизация, ей позволено
	// гоняться: источник истины это UNIQUE constraint в хранилище
	exists, err := a.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         models.RoleOrdinaryUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.users.CreateUser(ctx, user); err != nil {
		// Конкурентная регистрация того же email проигрывает здесь
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID))

	return nil
}
