package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

var ErrArticleNotFound = errors.New("article not found")

type ArticleService struct {
	articles ports.ArticleRepository
	now      func() time.Time
}

func NewArticleService(repo ports.ArticleRepository) *ArticleService {
	return &ArticleService{articles: repo, now: time.Now}
}

func (s *ArticleService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *ArticleService) List(ctx context.Context, q domain.ListQuery) ([]domain.Article, error) {
	return s.articles.List(ctx, q)
}

func (s *ArticleService) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	return s.articles.Count(ctx, q)
}

func (s *ArticleService) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, translateReadErr(err, ErrArticleNotFound)
	}
	return article, nil
}

func (s *ArticleService) Create(ctx context.Context, authorID uuid.UUID, fields domain.ArticleFields) (*domain.Article, error) {
	if err := requiredText("title", fields.Title); err != nil {
		return nil, err
	}
	if fields.Status != nil && !fields.Status.Valid() {
		return nil, validationErr("status must be draft or published")
	}
	slug, err := resolveSlug(fields.Slug, *fields.Title)
	if err != nil {
		return nil, err
	}
	fields.Slug = &slug
	if fields.Status == nil {
		status := domain.ArticleStatusDraft
		fields.Status = &status
	}

	var publishedAt *time.Time
	if *fields.Status == domain.ArticleStatusPublished {
		now := s.now().UTC()
		publishedAt = &now
	}
	article, err := s.articles.Create(ctx, fields, authorID, publishedAt)
	if err != nil {
		return nil, translateWriteErr(err, ErrArticleNotFound)
	}
	return article, nil
}

// Update stamps published_at the first time an article is published and
// leaves it alone afterwards.
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, fields domain.ArticleFields) (*domain.Article, error) {
	if err := notBlank("title", fields.Title); err != nil {
		return nil, err
	}
	if fields.Status != nil && !fields.Status.Valid() {
		return nil, validationErr("status must be draft or published")
	}
	if fields.Slug != nil {
		slug, err := resolveSlug(fields.Slug, "")
		if err != nil {
			return nil, err
		}
		fields.Slug = &slug
	}

	var publishedAt *time.Time
	if fields.Status != nil && *fields.Status == domain.ArticleStatusPublished {
		current, err := s.articles.FindByID(ctx, id)
		if err != nil {
			return nil, translateReadErr(err, ErrArticleNotFound)
		}
		if current.PublishedAt == nil {
			now := s.now().UTC()
			publishedAt = &now
		}
	}

	article, err := s.articles.Update(ctx, id, fields, publishedAt)
	if err != nil {
		return nil, translateWriteErr(err, ErrArticleNotFound)
	}
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	return translateReadErr(s.articles.Delete(ctx, id), ErrArticleNotFound)
}

func (s *ArticleService) ListPublished(ctx context.Context, category, search string) ([]domain.Article, error) {
	q := domain.ListQuery{OrderBy: "published_at", Descending: true}
	q = q.WithEqual("status", string(domain.ArticleStatusPublished))
	if category = strings.TrimSpace(category); category != "" {
		q = q.WithEqual("category", category)
	}
	q.Search = search
	return s.articles.List(ctx, q)
}

func (s *ArticleService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	article, err := s.articles.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, translateReadErr(err, ErrArticleNotFound)
	}
	if article.Status != domain.ArticleStatusPublished {
		return nil, ErrArticleNotFound
	}
	return article, nil
}
