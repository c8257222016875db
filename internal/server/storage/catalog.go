package storage

import (
	"context"

	"github.com/antonk9218/gomarket/internal/models"
)

// ProductSort описывает сортировку постраничной выборки товаров
type ProductSort struct {
	By   string // имя поля из whitelist: id, name, unitPrice, dateCreated
	Desc bool
}

// CategoryStorage defines interface for category persistence
type CategoryStorage interface {
	// CreateCategory creates a new category and fills its ID
	CreateCategory(ctx context.Context, category *models.Category) error

	// GetCategoryByID retrieves category by ID
	// Returns ErrCategoryNotFound if category doesn't exist
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)

	// ListCategories returns all categories ordered by name
	ListCategories(ctx context.Context) ([]models.Category, error)

	// UpdateCategory updates category information
	// Returns ErrCategoryNotFound if category doesn't exist
	UpdateCategory(ctx context.Context, category *models.Category) error

	// DeleteCategory deletes category by ID
	// Returns ErrCategoryNotFound if category doesn't exist
	DeleteCategory(ctx context.Context, id int64) error
}

// ProductStorage defines interface for product persistence
type ProductStorage interface {
	// CreateProduct creates a new product and fills its ID
	// Returns ErrSKUAlreadyExists if SKU is already taken,
	// ErrCategoryNotFound if the category doesn't exist
	CreateProduct(ctx context.Context, product *models.Product) error

	// GetProductByID retrieves product by ID with its category
	// Returns ErrProductNotFound if product doesn't exist
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)

	// ListProducts returns a page of all products plus the total count
	ListProducts(ctx context.Context, page, size int, sort ProductSort) ([]models.Product, int64, error)

	// ListProductsByCategory returns a page of *active* products in a category
	ListProductsByCategory(ctx context.Context, categoryID int64, page, size int) ([]models.Product, int64, error)

	// SearchProducts returns a page of products whose name contains
	// the keyword, case-insensitive
	SearchProducts(ctx context.Context, keyword string, page, size int) ([]models.Product, int64, error)

	// UpdateProduct updates product information
	// Returns ErrProductNotFound if product doesn't exist,
	// ErrSKUAlreadyExists if the new SKU belongs to another product
	UpdateProduct(ctx context.Context, product *models.Product) error

	// DeleteProduct deletes product by ID
	// Returns ErrProductNotFound if product doesn't exist
	DeleteProduct(ctx context.Context, id int64) error

	// AdjustStock changes units_in_stock by delta (negative to decrease)
	// Returns ErrInsufficientStock if the result would be negative,
	// ErrProductNotFound if product doesn't exist
	AdjustStock(ctx context.Context, id int64, delta int) error
}
