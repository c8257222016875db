package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrCategoryNotFound indicates that category was not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryInUse indicates that category still has products attached
	ErrCategoryInUse = errors.New("category is in use")

	// ErrProductNotFound indicates that product was not found
	ErrProductNotFound = errors.New("product not found")

	// ErrSKUAlreadyExists indicates that product with this SKU already exists
	ErrSKUAlreadyExists = errors.New("product sku already exists")

	// ErrOrderNotFound indicates that order was not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrInsufficientStock indicates that requested quantity exceeds units in stock
	ErrInsufficientStock = errors.New("insufficient stock")
)
