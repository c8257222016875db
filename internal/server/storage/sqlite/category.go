package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
)

// CreateCategory creates a new category and fills its ID
func (s *Storage) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (name, description) VALUES (?, ?)`

	result, err := s.db.ExecContext(ctx, query, category.Name, category.Description)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category id: %w", err)
	}

	category.ID = id

	return nil
}

// GetCategoryByID retrieves category by ID
func (s *Storage) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, name, description FROM categories WHERE id = ?`

	category := &models.Category{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// ListCategories returns all categories ordered by name
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, description FROM categories ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory updates category information
func (s *Storage) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = ?, description = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, category.Name, category.Description, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCategoryNotFound
	}

	return nil
}

// DeleteCategory deletes category by ID
func (s *Storage) DeleteCategory(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		// FK со стороны products: категорию с товарами не удаляем
		if isForeignKeyViolation(err) {
			return storage.ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCategoryNotFound
	}

	return nil
}
