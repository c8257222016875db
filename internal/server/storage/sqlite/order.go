package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
)

// CreateOrder persists the order and its items in one transaction
// Для каждой позиции: проверяется и списывается остаток, имя и цена
// товара фиксируются снапшотом, итоги пересчитываются по снапшотам
// При любой ошибке транзакция откатывается целиком
func (s *Storage) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op после Commit

	totalPrice := 0.0
	totalQuantity := 0

	for i := range order.Items {
		item := &order.Items[i]

		// Читаем товар и списываем остаток одним UPDATE
		var name string
		var unitPrice float64
		err := tx.QueryRowContext(ctx,
			`SELECT name, unit_price FROM products WHERE id = ?`,
			item.ProductID,
		).Scan(&name, &unitPrice)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrProductNotFound
			}
			return fmt.Errorf("failed to get product %d: %w", item.ProductID, err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE products
			 SET units_in_stock = units_in_stock - ?, last_updated = ?
			 WHERE id = ? AND units_in_stock >= ?`,
			item.Quantity, order.DateCreated, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to decrease stock for product %d: %w", item.ProductID, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return storage.ErrInsufficientStock
		}

		// Снапшот имени и цены на момент оформления
		item.Name = name
		item.UnitPrice = unitPrice

		totalPrice += unitPrice * float64(item.Quantity)
		totalQuantity += item.Quantity
	}

	order.TotalPrice = totalPrice
	order.TotalQuantity = totalQuantity

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (tracking_number, total_price, total_quantity, status, user_id,
			shipping_address, shipping_city, shipping_state, shipping_country, shipping_zip_code,
			billing_address, billing_city, billing_state, billing_country, billing_zip_code,
			date_created, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.OrderTrackingNumber,
		order.TotalPrice,
		order.TotalQuantity,
		string(order.Status),
		order.UserID,
		order.ShippingAddress.Address,
		order.ShippingAddress.City,
		order.ShippingAddress.State,
		order.ShippingAddress.Country,
		order.ShippingAddress.ZipCode,
		order.BillingAddress.Address,
		order.BillingAddress.City,
		order.BillingAddress.State,
		order.BillingAddress.Country,
		order.BillingAddress.ZipCode,
		order.DateCreated,
		order.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get order id: %w", err)
	}
	order.ID = orderID

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = orderID

		result, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
			 VALUES (?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Name, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		itemID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get order item id: %w", err)
		}
		item.ID = itemID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// orderColumns — общий список колонок для выборок заказа
const orderColumns = `
	id, tracking_number, total_price, total_quantity, status, user_id,
	shipping_address, shipping_city, shipping_state, shipping_country, shipping_zip_code,
	billing_address, billing_city, billing_state, billing_country, billing_zip_code,
	date_created, last_updated
`

// scanOrder читает одну строку orders
func scanOrder(scan func(dest ...any) error) (*models.Order, error) {
	order := &models.Order{}
	var status string

	err := scan(
		&order.ID,
		&order.OrderTrackingNumber,
		&order.TotalPrice,
		&order.TotalQuantity,
		&status,
		&order.UserID,
		&order.ShippingAddress.Address,
		&order.ShippingAddress.City,
		&order.ShippingAddress.State,
		&order.ShippingAddress.Country,
		&order.ShippingAddress.ZipCode,
		&order.BillingAddress.Address,
		&order.BillingAddress.City,
		&order.BillingAddress.State,
		&order.BillingAddress.Country,
		&order.BillingAddress.ZipCode,
		&order.DateCreated,
		&order.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatus(status)

	return order, nil
}

// loadOrderItems загружает позиции заказа
func (s *Storage) loadOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, name, unit_price, quantity
		 FROM order_items WHERE order_id = ? ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}

// getOrder выполняет выборку одного заказа по произвольному условию
func (s *Storage) getOrder(ctx context.Context, where string, arg any) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ` + where

	order, err := scanOrder(s.db.QueryRowContext(ctx, query, arg).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := s.loadOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// GetOrderByID retrieves order with items by ID
func (s *Storage) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return s.getOrder(ctx, "WHERE id = ?", id)
}

// GetOrderByTrackingNumber retrieves order with items by tracking number
func (s *Storage) GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	return s.getOrder(ctx, "WHERE tracking_number = ?", trackingNumber)
}

// ListOrdersByUser returns all orders of a user, newest first
func (s *Storage) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY date_created DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		items, err := s.loadOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// UpdateOrderStatus sets a new status and bumps last_updated
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	query := `UPDATE orders SET status = ?, last_updated = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrOrderNotFound
	}

	return nil
}
