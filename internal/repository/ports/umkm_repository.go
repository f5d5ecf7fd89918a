package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type UmkmRepository interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.UmkmProduct, error)
	Count(ctx context.Context, q domain.ListQuery) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UmkmProduct, error)
	FindBySlug(ctx context.Context, slug string) (*domain.UmkmProduct, error)
	Create(ctx context.Context, fields domain.UmkmFields) (*domain.UmkmProduct, error)
	Update(ctx context.Context, id uuid.UUID, fields domain.UmkmFields) (*domain.UmkmProduct, error)
	// UpdateIfStatus applies fields only while the row still has status
	// expected. A row that moved on, or is gone, yields sql.ErrNoRows.
	UpdateIfStatus(ctx context.Context, id uuid.UUID, expected domain.UmkmStatus, fields domain.UmkmFields) (*domain.UmkmProduct, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	SumViewCount(ctx context.Context) (int64, error)
}
