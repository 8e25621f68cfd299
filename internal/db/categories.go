package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"articlehub/internal/models"
)

// ListCategories returns all categories ordered by name.
func (d *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[models.Category])
}

// GetCategory retrieves a category by id.
func (d *DB) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := d.Pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category.
func (d *DB) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	c := models.Category{Name: name}
	err := d.Pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return nil, ErrDuplicateCategory
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RenameCategory changes a category's name.
func (d *DB) RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	result, err := d.Pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if pgErrorCode(err) == pgUniqueViolation {
		return nil, ErrDuplicateCategory
	}
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, ErrCategoryNotFound
	}
	return &models.Category{ID: id, Name: name}, nil
}

// DeleteCategory removes a category that no article uses.
func (d *DB) DeleteCategory(ctx context.Context, id int64) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrCategoryInUse
	}
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// SeedCategories inserts the named categories. Existing names are skipped.
func (d *DB) SeedCategories(ctx context.Context, names []string) error {
	query := `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	for _, name := range names {
		if _, err := d.Pool.Exec(ctx, query, name); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}

	return nil
}
