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

// productColumns — общий список колонок для выборок товара с категорией
const productColumns = `
	p.id, p.sku, p.name, p.description, p.unit_price, p.image_url,
	p.active, p.units_in_stock, p.category_id, p.date_created, p.last_updated,
	c.id, c.name, c.description
`

// sortColumn отображает API-имя поля сортировки на колонку таблицы
// Неизвестные имена сводятся к id, чтобы пользовательский ввод
// никогда не попадал в SQL
func sortColumn(by string) string {
	switch by {
	case "name":
		return "p.name"
	case "unitPrice":
		return "p.unit_price"
	case "dateCreated":
		return "p.date_created"
	default:
		return "p.id"
	}
}

// CreateProduct creates a new product and fills its ID
func (s *Storage) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (sku, name, description, unit_price, image_url, active,
			units_in_stock, category_id, date_created, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.ImageURL,
		product.Active,
		product.UnitsInStock,
		product.CategoryID,
		product.DateCreated,
		product.LastUpdated,
	)

	if err != nil {
		if isUniqueViolation(err, "products.sku") {
			return storage.ErrSKUAlreadyExists
		}
		// FOREIGN KEY на categories
		if isForeignKeyViolation(err) {
			return storage.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get product id: %w", err)
	}

	product.ID = id

	return nil
}

// scanProduct читает одну строку выборки productColumns
func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	product := &models.Product{}
	category := &models.Category{}

	err := scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.UnitPrice,
		&product.ImageURL,
		&product.Active,
		&product.UnitsInStock,
		&product.CategoryID,
		&product.DateCreated,
		&product.LastUpdated,
		&category.ID,
		&category.Name,
		&category.Description,
	)
	if err != nil {
		return nil, err
	}

	product.Category = category

	return product, nil
}

// GetProductByID retrieves product by ID with its category
func (s *Storage) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?
	`

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// queryProductPage выполняет постраничную выборку: count + страница строк
func (s *Storage) queryProductPage(ctx context.Context, where, orderBy string, page, size int, args ...any) ([]models.Product, int64, error) {
	countQuery := `SELECT COUNT(*) FROM products p ` + where

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		` + where + `
		ORDER BY ` + orderBy + `
		LIMIT ? OFFSET ?
	`

	pageArgs := append(append([]any{}, args...), size, page*size)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}

// ListProducts returns a page of all products plus the total count
func (s *Storage) ListProducts(ctx context.Context, page, size int, sort storage.ProductSort) ([]models.Product, int64, error) {
	orderBy := sortColumn(sort.By)
	if sort.Desc {
		orderBy += " DESC"
	}

	return s.queryProductPage(ctx, "", orderBy, page, size)
}

// ListProductsByCategory returns a page of active products in a category
func (s *Storage) ListProductsByCategory(ctx context.Context, categoryID int64, page, size int) ([]models.Product, int64, error) {
	return s.queryProductPage(ctx,
		"WHERE p.category_id = ? AND p.active = 1",
		"p.id", page, size, categoryID)
}

// SearchProducts returns a page of products whose name contains the keyword
// Case-insensitive: LIKE в SQLite нечувствителен к регистру для ASCII
func (s *Storage) SearchProducts(ctx context.Context, keyword string, page, size int) ([]models.Product, int64, error) {
	return s.queryProductPage(ctx,
		"WHERE p.name LIKE ?",
		"p.id", page, size, "%"+keyword+"%")
}

// UpdateProduct updates product information
func (s *Storage) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET sku = ?, name = ?, description = ?, unit_price = ?, image_url = ?,
			active = ?, units_in_stock = ?, category_id = ?, last_updated = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.ImageURL,
		product.Active,
		product.UnitsInStock,
		product.CategoryID,
		product.LastUpdated,
		product.ID,
	)

	if err != nil {
		if isUniqueViolation(err, "products.sku") {
			return storage.ErrSKUAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return storage.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

// DeleteProduct deletes product by ID
func (s *Storage) DeleteProduct(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

// AdjustStock changes units_in_stock by delta (negative to decrease)
// Проверка остатка и изменение выполняются одним UPDATE,
// поэтому остаток не может уйти в минус даже при конкурентных запросах
func (s *Storage) AdjustStock(ctx context.Context, id int64, delta int) error {
	query := `
		UPDATE products
		SET units_in_stock = units_in_stock + ?, last_updated = ?
		WHERE id = ? AND units_in_stock + ? >= 0
	`

	result, err := s.db.ExecContext(ctx, query, delta, time.Now(), id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		// Либо товара нет, либо не хватает остатка — различаем отдельным чтением
		exists, err := s.productExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrProductNotFound
		}
		return storage.ErrInsufficientStock
	}

	return nil
}

// productExists reports whether a product with this ID exists
func (s *Storage) productExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}
