package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
	"github.com/antonk9218/gomarket/pkg/api"
)

// OrdersHandler обрабатывает оформление и просмотр заказов
// Все операции требуют аутентификации; смена статуса — только ADMINISTRATOR
type OrdersHandler struct {
	logger *slog.Logger
	orders storage.OrderStorage
}

// NewOrdersHandler создает новый handler для заказов
func NewOrdersHandler(logger *slog.Logger, orders storage.OrderStorage) *OrdersHandler {
	return &OrdersHandler{
		logger: logger,
		orders: orders,
	}
}

// newTrackingNumber генерирует уникальный номер отслеживания заказа
func newTrackingNumber() string {
	return "ORD-" + uuid.New().String()
}

func toAddress(req api.AddressRequest) models.Address {
	return models.Address{
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Country: req.Country,
		ZipCode: req.ZipCode,
	}
}

// Create обрабатывает POST /api/orders
// Цены и имена товаров фиксируются на момент оформления; остатки
// списываются атомарно — либо весь заказ, либо ничего
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := UserFromContext(ctx)
	if user == nil {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode create order request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Items) == 0 {
		sendError(h.logger, w, "order must contain at least one item", http.StatusBadRequest)
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			sendError(h.logger, w, "productId is required", http.StatusBadRequest)
			return
		}
		if item.Quantity <= 0 {
			sendError(h.logger, w, "quantity must be a positive integer", http.StatusBadRequest)
			return
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	now := time.Now()
	order := &models.Order{
		OrderTrackingNumber: newTrackingNumber(),
		Status:              models.OrderStatusPending,
		UserID:              user.ID,
		Items:               items,
		ShippingAddress:     toAddress(req.ShippingAddress),
		BillingAddress:      toAddress(req.BillingAddress),
		DateCreated:         now,
		LastUpdated:         now,
	}

	if err := h.orders.CreateOrder(ctx, order); err != nil {
		switch {
		case errors.Is(err, storage.ErrProductNotFound):
			sendError(h.logger, w, "product not found", http.StatusBadRequest)
		case errors.Is(err, storage.ErrInsufficientStock):
			sendError(h.logger, w, "Insufficient stock", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to create order", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.String("tracking_number", order.OrderTrackingNumber),
		slog.String("user_id", user.ID))

	sendJSON(h.logger, w, order, http.StatusOK)
}

// ListMine обрабатывает GET /api/orders
// Заказы текущего пользователя, новые первыми
func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := UserFromContext(ctx)
	if user == nil {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.orders.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}

	sendJSON(h.logger, w, orders, http.StatusOK)
}

// sendOrderIfAllowed отдает заказ владельцу или администратору
// Чужой заказ для обычного пользователя неотличим от несуществующего
func (h *OrdersHandler) sendOrderIfAllowed(w http.ResponseWriter, r *http.Request, order *models.Order) {
	user := UserFromContext(r.Context())
	if user == nil {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if order.UserID != user.ID && user.Role != models.RoleAdministrator {
		sendError(h.logger, w, "order not found", http.StatusNotFound)
		return
	}

	sendJSON(h.logger, w, order, http.StatusOK)
}

// Get обрабатывает GET /api/orders/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			sendError(h.logger, w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendOrderIfAllowed(w, r, order)
}

// GetByTracking обрабатывает GET /api/orders/tracking/{trackingNumber}
func (h *OrdersHandler) GetByTracking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	trackingNumber := r.PathValue("trackingNumber")

	order, err := h.orders.GetOrderByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			sendError(h.logger, w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get order by tracking number", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendOrderIfAllowed(w, r, order)
}

// UpdateStatus обрабатывает PUT /api/orders/{id}/status (только ADMINISTRATOR)
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req api.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		sendError(h.logger, w, "invalid order status", http.StatusBadRequest)
		return
	}

	if err := h.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			sendError(h.logger, w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update order status", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "order status updated",
		slog.Int64("order_id", id),
		slog.String("status", string(status)))

	order, err := h.orders.GetOrderByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reload order", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, order, http.StatusOK)
}
