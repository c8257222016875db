package api

// OrderItemRequest представляет позицию в запросе на оформление заказа
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// AddressRequest представляет адрес в запросе на оформление заказа
type AddressRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// CreateOrderRequest представляет запрос на оформление заказа
// Платежные поля формы оформления не принимаются и не сохраняются
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress AddressRequest     `json:"shippingAddress"`
	BillingAddress  AddressRequest     `json:"billingAddress"`
}

// UpdateOrderStatusRequest представляет запрос на смену статуса заказа
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
