package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type TourismRepository interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.TourismDestination, error)
	Count(ctx context.Context, q domain.ListQuery) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TourismDestination, error)
	FindBySlug(ctx context.Context, slug string) (*domain.TourismDestination, error)
	Create(ctx context.Context, fields domain.TourismFields) (*domain.TourismDestination, error)
	Update(ctx context.Context, id uuid.UUID, fields domain.TourismFields) (*domain.TourismDestination, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	SumViewCount(ctx context.Context) (int64, error)
}
