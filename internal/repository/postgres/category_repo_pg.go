package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories sorted by name. An empty type returns all of them.
func (r *CategoryRepository) List(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error) {
	query := `SELECT id, name, slug, type, created_at FROM categories`
	args := []any{}
	if categoryType != "" {
		query += ` WHERE type = $1`
		args = append(args, string(categoryType))
	}
	query += ` ORDER BY name ASC`

	categories := make([]domain.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.GetContext(ctx, &category, `SELECT id, name, slug, type, created_at FROM categories WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &category, nil
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)
