package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/pkg/api"
)

// contextKey - тип ключей контекста запроса
type contextKey string

// UserContextKey - ключ, под которым auth middleware кладет
// аутентифицированного пользователя в контекст запроса
const UserContextKey contextKey = "user"

// UserFromContext возвращает аутентифицированного пользователя запроса
// nil, если запрос прошел мимо auth middleware
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с полем error
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.ErrorResponse{Error: message}, statusCode)
}

// sendMessage отправляет JSON ответ с полем message
// Исходный API отдает часть ошибок (регистрация, вход) именно в этой форме
func sendMessage(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.MessageResponse{Message: message}, statusCode)
}
