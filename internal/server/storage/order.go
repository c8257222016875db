package storage

import (
	"context"

	"github.com/antonk9218/gomarket/internal/models"
)

// OrderStorage defines interface for order persistence
type OrderStorage interface {
	// CreateOrder persists the order and its items in one transaction,
	// decrementing stock for every item
	// Returns ErrProductNotFound if an item references a missing product,
	// ErrInsufficientStock if any item exceeds the available stock;
	// in both cases nothing is persisted
	CreateOrder(ctx context.Context, order *models.Order) error

	// GetOrderByID retrieves order with items by ID
	// Returns ErrOrderNotFound if order doesn't exist
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)

	// GetOrderByTrackingNumber retrieves order with items by tracking number
	// Returns ErrOrderNotFound if order doesn't exist
	GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error)

	// ListOrdersByUser returns all orders of a user, newest first
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)

	// UpdateOrderStatus sets a new status and bumps last_updated
	// Returns ErrOrderNotFound if order doesn't exist
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error
}
