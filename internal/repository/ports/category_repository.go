package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type CategoryRepository interface {
	List(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}
