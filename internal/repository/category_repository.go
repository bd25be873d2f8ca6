// internal/repository/category_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oakmund/taskfolio/internal/models"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

// ListByUser returns the owner's categories ordered by name.
func (r *CategoryRepository) ListByUser(ctx context.Context, ownerID string) ([]models.Category, error) {
	query := r.db.Rebind(`SELECT id, user_id, name, created_at
		FROM categories WHERE user_id = ? ORDER BY name ASC`)

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, query, ownerID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// GetByName looks up the owner's category with the given name.
func (r *CategoryRepository) GetByName(ctx context.Context, ownerID, name string) (*models.Category, error) {
	query := r.db.Rebind(`SELECT id, user_id, name, created_at
		FROM categories WHERE user_id = ? AND name = ?`)

	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, ownerID, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

// GetOrCreate resolves a category name to a row, inserting it on first use.
// The UNIQUE(user_id, name) constraint makes the insert a no-op when another
// request created the row in between, so both callers resolve to the same id.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, ownerID, name string) (*models.Category, error) {
	category, err := r.GetByName(ctx, ownerID, name)
	if err == nil {
		return category, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	insert := r.db.Rebind(`INSERT INTO categories (id, user_id, name, created_at)
		VALUES (?, ?, ?, ?) ON CONFLICT (user_id, name) DO NOTHING`)

	if _, err := r.db.ExecContext(ctx, insert, uuid.New().String(), ownerID, name, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	return r.GetByName(ctx, ownerID, name)
}

// SeedDefaults inserts the given names for an owner, skipping ones that
// already exist. Safe to call concurrently.
func (r *CategoryRepository) SeedDefaults(ctx context.Context, ownerID string, names []string) error {
	insert := r.db.Rebind(`INSERT INTO categories (id, user_id, name, created_at)
		VALUES (?, ?, ?, ?) ON CONFLICT (user_id, name) DO NOTHING`)

	now := time.Now().UTC()
	for _, name := range names {
		if _, err := r.db.ExecContext(ctx, insert, uuid.New().String(), ownerID, name, now); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	return nil
}
