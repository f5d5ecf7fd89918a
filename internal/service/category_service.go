package service

import (
	"context"
	"errors"
	"strings"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

var ErrInvalidCategoryType = errors.New("category type must be tourism or umkm")

type CategoryService struct {
	categories ports.CategoryRepository
}

func NewCategoryService(repo ports.CategoryRepository) *CategoryService {
	return &CategoryService{categories: repo}
}

// List returns every category when categoryType is empty.
func (s *CategoryService) List(ctx context.Context, categoryType string) ([]domain.Category, error) {
	t := domain.CategoryType(strings.ToLower(strings.TrimSpace(categoryType)))
	switch t {
	case "", domain.CategoryTypeTourism, domain.CategoryTypeUmkm:
	default:
		return nil, ErrInvalidCategoryType
	}
	return s.categories.List(ctx, t)
}
