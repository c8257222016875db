package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
	"github.com/antonk9218/gomarket/pkg/api"
)

// CategoriesHandler обрабатывает запросы категорий каталога
// Чтение публично; изменения — только ADMINISTRATOR
type CategoriesHandler struct {
	logger     *slog.Logger
	categories storage.CategoryStorage
}

// NewCategoriesHandler создает новый handler для категорий
func NewCategoriesHandler(logger *slog.Logger, categories storage.CategoryStorage) *CategoriesHandler {
	return &CategoriesHandler{
		logger:     logger,
		categories: categories,
	}
}

// List обрабатывает GET /api/categories
// Полный список без пагинации, отсортирован по имени
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.categories.ListCategories(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list categories", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if categories == nil {
		categories = []models.Category{}
	}

	sendJSON(h.logger, w, categories, http.StatusOK)
}

// Get обрабатывает GET /api/categories/{id}
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid category id", http.StatusBadRequest)
		return
	}

	category, err := h.categories.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			sendError(h.logger, w, "category not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get category", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, category, http.StatusOK)
}

// Create обрабатывает POST /api/categories (только ADMINISTRATOR)
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		sendError(h.logger, w, "name is required", http.StatusBadRequest)
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.categories.CreateCategory(ctx, category); err != nil {
		h.logger.ErrorContext(ctx, "failed to create category", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "category created",
		slog.Int64("category_id", category.ID),
		slog.String("name", category.Name))

	sendJSON(h.logger, w, category, http.StatusOK)
}

// Update обрабатывает PUT /api/categories/{id} (только ADMINISTRATOR)
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid category id", http.StatusBadRequest)
		return
	}

	var req api.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		sendError(h.logger, w, "name is required", http.StatusBadRequest)
		return
	}

	category := &models.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.categories.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			sendError(h.logger, w, "category not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update category", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, category, http.StatusOK)
}

// Delete обрабатывает DELETE /api/categories/{id} (только ADMINISTRATOR)
// Категория с товарами не удаляется: сначала надо перевесить товары
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid category id", http.StatusBadRequest)
		return
	}

	if err := h.categories.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrCategoryNotFound):
			sendError(h.logger, w, "category not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrCategoryInUse):
			sendError(h.logger, w, "category has products", http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to delete category", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "category deleted", slog.Int64("category_id", id))

	w.WriteHeader(http.StatusOK)
}
