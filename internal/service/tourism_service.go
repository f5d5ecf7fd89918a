package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

var ErrTourismNotFound = errors.New("tourism destination not found")

const defaultMaxImages = 5

type TourismService struct {
	tourism   ports.TourismRepository
	maxImages int
}

func NewTourismService(repo ports.TourismRepository, maxImages int) *TourismService {
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	return &TourismService{tourism: repo, maxImages: maxImages}
}

func (s *TourismService) List(ctx context.Context, q domain.ListQuery) ([]domain.TourismDestination, error) {
	return s.tourism.List(ctx, q)
}

func (s *TourismService) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	return s.tourism.Count(ctx, q)
}

func (s *TourismService) Get(ctx context.Context, id uuid.UUID) (*domain.TourismDestination, error) {
	dest, err := s.tourism.FindByID(ctx, id)
	if err != nil {
		return nil, translateReadErr(err, ErrTourismNotFound)
	}
	return dest, nil
}

func (s *TourismService) Create(ctx context.Context, fields domain.TourismFields) (*domain.TourismDestination, error) {
	if err := requiredText("name", fields.Name); err != nil {
		return nil, err
	}
	if err := s.validate(fields); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(fields.Slug, *fields.Name)
	if err != nil {
		return nil, err
	}
	fields.Slug = &slug
	if fields.Status == nil {
		status := domain.TourismStatusActive
		fields.Status = &status
	}
	if fields.ThumbnailURL == nil && fields.Images != nil && len(*fields.Images) > 0 {
		fields.ThumbnailURL = stringPtr((*fields.Images)[0])
	}

	dest, err := s.tourism.Create(ctx, fields)
	if err != nil {
		return nil, translateWriteErr(err, ErrTourismNotFound)
	}
	return dest, nil
}

func (s *TourismService) Update(ctx context.Context, id uuid.UUID, fields domain.TourismFields) (*domain.TourismDestination, error) {
	if err := notBlank("name", fields.Name); err != nil {
		return nil, err
	}
	if err := s.validate(fields); err != nil {
		return nil, err
	}
	if fields.Slug != nil {
		slug, err := resolveSlug(fields.Slug, "")
		if err != nil {
			return nil, err
		}
		fields.Slug = &slug
	}

	dest, err := s.tourism.Update(ctx, id, fields)
	if err != nil {
		return nil, translateWriteErr(err, ErrTourismNotFound)
	}
	return dest, nil
}

func (s *TourismService) Delete(ctx context.Context, id uuid.UUID) error {
	return translateReadErr(s.tourism.Delete(ctx, id), ErrTourismNotFound)
}

// ListPublic returns active destinations for the marketing site, optionally
// narrowed to one category and a name or location search.
func (s *TourismService) ListPublic(ctx context.Context, categoryID, search string) ([]domain.TourismDestination, error) {
	q := domain.DefaultListQuery().WithEqual("status", string(domain.TourismStatusActive))
	if categoryID = strings.TrimSpace(categoryID); categoryID != "" {
		q = q.WithEqual("category_id", categoryID)
	}
	q.Search = search
	return s.tourism.List(ctx, q)
}

// GetPublicBySlug counts a visit for every successful lookup. A failed
// increment is logged and does not fail the read.
func (s *TourismService) GetPublicBySlug(ctx context.Context, slug string) (*domain.TourismDestination, error) {
	dest, err := s.tourism.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, translateReadErr(err, ErrTourismNotFound)
	}
	if !dest.IsActive() {
		return nil, ErrTourismNotFound
	}
	if err := s.tourism.IncrementViewCount(ctx, dest.ID); err != nil {
		log.Printf("tourism: count view for %s: %v", dest.ID, err)
	} else {
		dest.ViewCount++
	}
	return dest, nil
}

func (s *TourismService) validate(fields domain.TourismFields) error {
	if fields.Status != nil && !fields.Status.Valid() {
		return validationErr("status must be active or inactive")
	}
	if fields.Images != nil && len(*fields.Images) > s.maxImages {
		return validationErr("at most %d images allowed", s.maxImages)
	}
	return nil
}
