package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/auth"
	"github.com/antonk9218/gomarket/internal/server/storage"
	"github.com/antonk9218/gomarket/internal/validation"
	"github.com/antonk9218/gomarket/pkg/api"
)

// ProfileHandler обрабатывает операции над профилем текущего пользователя
// Все операции защищены auth middleware: пользователь берется из контекста
type ProfileHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
}

// NewProfileHandler создает новый handler для профиля
func NewProfileHandler(logger *slog.Logger, users storage.UserStorage) *ProfileHandler {
	return &ProfileHandler{
		logger: logger,
		users:  users,
	}
}

// profileResponse собирает публичный вид пользователя (без хеша пароля)
func profileResponse(user *models.User, message string) api.ProfileResponse {
	return api.ProfileResponse{
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        string(user.Role),
		DateCreated: user.CreatedAt.Format(time.RFC3339),
		Message:     message,
	}
}

// GetProfile обрабатывает GET /api/auth/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, profileResponse(user, ""), http.StatusOK)
}

// UpdateProfile обрабатывает PUT /api/auth/profile
// Обновление имени, email и пароля; все поля опциональны
// Смена email: новый email не должен принадлежать *другому* пользователю,
// переименование в собственный email — no-op, а не конфликт
// Смена пароля: требуется верный текущий пароль
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := UserFromContext(ctx)
	if user == nil {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode update profile request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Работаем с копией: оригинал из контекста не трогаем до успеха
	updated := *user

	if req.FirstName != nil {
		if err := validation.ValidateName("firstName", *req.FirstName); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		updated.FirstName = *req.FirstName
	}

	if req.LastName != nil {
		if err := validation.ValidateName("lastName", *req.LastName); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		updated.LastName = *req.LastName
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}

		// Email занят, только если принадлежит другому пользователю
		existing, err := h.users.GetUserByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
			h.logger.ErrorContext(ctx, "failed to check email", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		if existing != nil && existing.ID != user.ID {
			sendError(h.logger, w, "Email already exists", http.StatusBadRequest)
			return
		}

		updated.Email = *req.Email
	}

	// Смена пароля требует оба поля: текущий и новый пароль
	if req.NewPassword != nil && req.CurrentPassword != nil {
		if !auth.CheckPassword(*req.CurrentPassword, user.PasswordHash) {
			h.logger.WarnContext(ctx, "profile update rejected: current password mismatch",
				slog.String("user_id", user.ID))
			sendError(h.logger, w, "Current password is incorrect", http.StatusBadRequest)
			return
		}

		if err := validation.ValidatePassword(*req.NewPassword); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}

		hash, err := auth.HashPassword(*req.NewPassword)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		updated.PasswordHash = hash
	}

	updated.UpdatedAt = time.Now()

	if err := h.users.UpdateUser(ctx, &updated); err != nil {
		// Гонка со сменой email у другого пользователя решается constraint'ом
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			sendError(h.logger, w, "Email already exists", http.StatusBadRequest)
			return
		}
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "profile updated", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, profileResponse(&updated, "Profile updated successfully"), http.StatusOK)
}

// DeleteAccount обрабатывает DELETE /api/auth/account
// Текущий пароль перепроверяется непосредственно перед удалением, даже
// при валидном токене: украденный токен не должен уничтожить аккаунт
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := UserFromContext(ctx)
	if user == nil {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode delete account request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "account deletion rejected: password mismatch",
			slog.String("user_id", user.ID))
		sendError(h.logger, w, "Password is incorrect", http.StatusBadRequest)
		return
	}

	if err := h.users.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete account", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "account deleted", slog.String("user_id", user.ID))

	sendMessage(h.logger, w, "Account deleted successfully", http.StatusOK)
}
