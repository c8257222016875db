package models

import "time"

// OrderStatus представляет статус заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid проверяет, что статус является одним из известных
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Address представляет почтовый адрес заказа
// Хранится снапшотом внутри заказа, не ссылается на профиль
type Address struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// OrderItem представляет позицию заказа
// Name и UnitPrice фиксируются на момент оформления
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"orderId"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Order представляет заказ пользователя
type Order struct {
	ID                  int64       `json:"id"`
	OrderTrackingNumber string      `json:"orderTrackingNumber"` // уникальный номер отслеживания
	TotalPrice          float64     `json:"totalPrice"`
	TotalQuantity       int         `json:"totalQuantity"`
	Status              OrderStatus `json:"status"`
	UserID              string      `json:"userId"`
	Items               []OrderItem `json:"orderItems"`
	ShippingAddress     Address     `json:"shippingAddress"`
	BillingAddress      Address     `json:"billingAddress"`
	DateCreated         time.Time   `json:"dateCreated"`
	LastUpdated         time.Time   `json:"lastUpdated"`
}
