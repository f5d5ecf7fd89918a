package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

const articleColumns = `id, title, slug, content, excerpt, featured_image, category, status,
	published_at, created_by, created_at, updated_at`

var articleList = listSpec{
	table:   "articles",
	columns: articleColumns,
	filters: map[string]columnKind{
		"status":     kindText,
		"category":   kindText,
		"created_by": kindUUID,
		"slug":       kindText,
	},
	search:    []string{"title", "excerpt"},
	orderable: map[string]bool{"created_at": true, "updated_at": true, "published_at": true, "title": true},
}

type ArticleRepository struct {
	db *sqlx.DB
}

func NewArticleRepo(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Article, error) {
	query, args, err := articleList.selectSQL(q)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.Article, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ArticleRepository) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	query, args, err := articleList.countSQL(q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	var article domain.Article
	if err := r.db.GetContext(ctx, &article, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) FindBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var article domain.Article
	if err := r.db.GetContext(ctx, &article, `SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) Create(ctx context.Context, fields domain.ArticleFields, createdBy uuid.UUID, publishedAt *time.Time) (*domain.Article, error) {
	b := articleSet(fields)
	b.add("created_by", createdBy)
	if publishedAt != nil {
		b.add("published_at", *publishedAt)
	}
	query, args := b.insertSQL("articles", articleColumns)
	var article domain.Article
	if err := r.db.GetContext(ctx, &article, query, args...); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) Update(ctx context.Context, id uuid.UUID, fields domain.ArticleFields, publishedAt *time.Time) (*domain.Article, error) {
	b := articleSet(fields)
	if publishedAt != nil {
		b.add("published_at", *publishedAt)
	}
	if b.empty() {
		return r.FindByID(ctx, id)
	}
	query, args := b.updateSQL("articles", id, articleColumns)
	var article domain.Article
	if err := r.db.GetContext(ctx, &article, query, args...); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "articles", id)
}

func articleSet(fields domain.ArticleFields) *setBuilder {
	b := &setBuilder{}
	if fields.Title != nil {
		b.add("title", trimmed(fields.Title))
	}
	if fields.Slug != nil {
		b.add("slug", trimmed(fields.Slug))
	}
	if fields.Content != nil {
		b.add("content", *fields.Content)
	}
	if fields.Excerpt != nil {
		b.add("excerpt", nullString(fields.Excerpt))
	}
	if fields.FeaturedImage != nil {
		b.add("featured_image", nullString(fields.FeaturedImage))
	}
	if fields.Category != nil {
		b.add("category", nullString(fields.Category))
	}
	if fields.Status != nil {
		b.add("status", string(*fields.Status))
	}
	return b
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)
