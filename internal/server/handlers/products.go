package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
	"github.com/antonk9218/gomarket/pkg/api"
)

// allowedSortFields - whitelist полей сортировки списка товаров
var allowedSortFields = map[string]bool{
	"id":          true,
	"name":        true,
	"unitPrice":   true,
	"dateCreated": true,
}

// ProductsHandler обрабатывает запросы каталога товаров
// Чтение публично; создание, изменение и удаление — только ADMINISTRATOR
type ProductsHandler struct {
	logger     *slog.Logger
	products   storage.ProductStorage
	categories storage.CategoryStorage
}

// NewProductsHandler создает новый handler для товаров
func NewProductsHandler(logger *slog.Logger, products storage.ProductStorage, categories storage.CategoryStorage) *ProductsHandler {
	return &ProductsHandler{
		logger:     logger,
		products:   products,
		categories: categories,
	}
}

// List обрабатывает GET /api/products
// Постраничная выборка с сортировкой: page, size, sortBy, sortDir
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, size := parsePage(r)

	sortBy := r.URL.Query().Get("sortBy")
	if !allowedSortFields[sortBy] {
		sortBy = "id"
	}
	sortDesc := strings.EqualFold(r.URL.Query().Get("sortDir"), "desc")

	products, total, err := h.products.ListProducts(ctx, page, size, storage.ProductSort{
		By:   sortBy,
		Desc: sortDesc,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.NewPage(products, total, page, size), http.StatusOK)
}

// Get обрабатывает GET /api/products/{id}
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, product, http.StatusOK)
}

// ListByCategory обрабатывает GET /api/products/category/{categoryId}
// Возвращает только активные товары категории
func (h *ProductsHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, err := strconv.ParseInt(r.PathValue("categoryId"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid category id", http.StatusBadRequest)
		return
	}

	if _, err := h.categories.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			sendError(h.logger, w, "category not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get category", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	page, size := parsePage(r)

	products, total, err := h.products.ListProductsByCategory(ctx, categoryID, page, size)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products by category", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.NewPage(products, total, page, size), http.StatusOK)
}

// Search обрабатывает GET /api/products/search?keyword=
// Поиск подстроки в имени без учета регистра
func (h *ProductsHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		sendError(h.logger, w, "keyword is required", http.StatusBadRequest)
		return
	}

	page, size := parsePage(r)

	products, total, err := h.products.SearchProducts(ctx, keyword, page, size)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to search products", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.NewPage(products, total, page, size), http.StatusOK)
}

// validateProductRequest проверяет поля запроса создания/обновления товара
func validateProductRequest(req *api.ProductRequest) string {
	switch {
	case req.SKU == "":
		return "sku is required"
	case req.Name == "":
		return "name is required"
	case req.UnitPrice < 0:
		return "unitPrice must not be negative"
	case req.UnitsInStock < 0:
		return "unitsInStock must not be negative"
	case req.CategoryID <= 0:
		return "categoryId is required"
	}
	return ""
}

// Create обрабатывает POST /api/products (только ADMINISTRATOR)
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if msg := validateProductRequest(&req); msg != "" {
		sendError(h.logger, w, msg, http.StatusBadRequest)
		return
	}

	now := time.Now()
	product := &models.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		ImageURL:     req.ImageURL,
		Active:       req.Active,
		UnitsInStock: req.UnitsInStock,
		CategoryID:   req.CategoryID,
		DateCreated:  now,
		LastUpdated:  now,
	}

	if err := h.products.CreateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, storage.ErrSKUAlreadyExists):
			sendError(h.logger, w, "sku already exists", http.StatusBadRequest)
		case errors.Is(err, storage.ErrCategoryNotFound):
			sendError(h.logger, w, "category not found", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to create product", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("sku", product.SKU))

	// Перечитываем, чтобы вернуть товар вместе с категорией
	created, err := h.products.GetProductByID(ctx, product.ID)
	if err != nil {
		sendJSON(h.logger, w, product, http.StatusOK)
		return
	}

	sendJSON(h.logger, w, created, http.StatusOK)
}

// Update обрабатывает PUT /api/products/{id} (только ADMINISTRATOR)
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req api.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if msg := validateProductRequest(&req); msg != "" {
		sendError(h.logger, w, msg, http.StatusBadRequest)
		return
	}

	product := &models.Product{
		ID:           id,
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		ImageURL:     req.ImageURL,
		Active:       req.Active,
		UnitsInStock: req.UnitsInStock,
		CategoryID:   req.CategoryID,
		LastUpdated:  time.Now(),
	}

	if err := h.products.UpdateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, storage.ErrProductNotFound):
			sendError(h.logger, w, "product not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrSKUAlreadyExists):
			sendError(h.logger, w, "sku already exists", http.StatusBadRequest)
		case errors.Is(err, storage.ErrCategoryNotFound):
			sendError(h.logger, w, "category not found", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to update product", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	updated, err := h.products.GetProductByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reload product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, updated, http.StatusOK)
}

// Delete обрабатывает DELETE /api/products/{id} (только ADMINISTRATOR)
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))

	w.WriteHeader(http.StatusOK)
}

// adjustStock - общий код увеличения/уменьшения остатка
func (h *ProductsHandler) adjustStock(w http.ResponseWriter, r *http.Request, sign int, successMessage string) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity <= 0 {
		sendError(h.logger, w, "quantity must be a positive integer", http.StatusBadRequest)
		return
	}

	if err := h.products.AdjustStock(ctx, id, sign*quantity); err != nil {
		switch {
		case errors.Is(err, storage.ErrProductNotFound):
			sendError(h.logger, w, "product not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrInsufficientStock):
			sendError(h.logger, w, "Insufficient stock", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to adjust stock", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	sendMessage(h.logger, w, successMessage, http.StatusOK)
}

// DecreaseStock обрабатывает PUT /api/products/{id}/decrease-stock?quantity=
// Отклоняет списание сверх остатка
func (h *ProductsHandler) DecreaseStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, -1, "Stock decreased successfully")
}

// IncreaseStock обрабатывает PUT /api/products/{id}/increase-stock?quantity=
func (h *ProductsHandler) IncreaseStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, +1, "Stock increased successfully")
}
