package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type ArticleRepository interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.Article, error)
	Count(ctx context.Context, q domain.ListQuery) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Article, error)
	Create(ctx context.Context, fields domain.ArticleFields, createdBy uuid.UUID, publishedAt *time.Time) (*domain.Article, error)
	// Update sets published_at only when publishedAt is non-nil.
	Update(ctx context.Context, id uuid.UUID, fields domain.ArticleFields, publishedAt *time.Time) (*domain.Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
