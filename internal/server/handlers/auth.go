package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/antonk9218/gomarket/internal/server/auth"
	"github.com/antonk9218/gomarket/internal/validation"
	"github.com/antonk9218/gomarket/pkg/api"
)

// AuthHandler обрабатывает запросы регистрации и входа
type AuthHandler struct {
	logger *slog.Logger
	authn  *auth.Authenticator
}

// NewAuthHandler создает новый handler для аутентификации
func NewAuthHandler(logger *slog.Logger, authn *auth.Authenticator) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		authn:  authn,
	}
}

// Register обрабатывает POST /api/auth/register
// Регистрация нового пользователя; автоматического входа нет
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация полей
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateName("firstName", req.FirstName); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateName("lastName", req.LastName); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.authn.Register(ctx, req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			h.logger.WarnContext(ctx, "registration rejected: email taken")
			sendMessage(h.logger, w, "Error: Email is already taken!", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendMessage(h.logger, w, "User registered successfully!", http.StatusOK)
}

// Login обрабатывает POST /api/auth/login
// Проверка учетных данных и выпуск токена
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, user, err := h.authn.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Единый ответ для несуществующего email и неверного пароля
			h.logger.WarnContext(ctx, "login failed: invalid credentials")
			sendMessage(h.logger, w, "Error: Invalid credentials!", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to login user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	resp := api.LoginResponse{
		Token:     token,
		Type:      "Bearer",
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
