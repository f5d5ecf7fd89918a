package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

var ErrUmkmNotFound = errors.New("umkm product not found")

type UmkmService struct {
	umkm      ports.UmkmRepository
	maxImages int
}

func NewUmkmService(repo ports.UmkmRepository, maxImages int) *UmkmService {
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	return &UmkmService{umkm: repo, maxImages: maxImages}
}

func (s *UmkmService) List(ctx context.Context, q domain.ListQuery) ([]domain.UmkmProduct, error) {
	return s.umkm.List(ctx, q)
}

func (s *UmkmService) Count(ctx context.Context, q domain.ListQuery) (int, error) {
	return s.umkm.Count(ctx, q)
}

func (s *UmkmService) Get(ctx context.Context, id uuid.UUID) (*domain.UmkmProduct, error) {
	product, err := s.umkm.FindByID(ctx, id)
	if err != nil {
		return nil, translateReadErr(err, ErrUmkmNotFound)
	}
	return product, nil
}

// Create always starts a product in review unless an explicit status is
// given by an admin.
func (s *UmkmService) Create(ctx context.Context, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
	if err := requiredText("name", fields.Name); err != nil {
		return nil, err
	}
	if err := s.validate(fields); err != nil {
		return nil, err
	}
	var price int64
	if fields.Price != nil {
		price = *fields.Price
	}
	if err := checkPriceRange(price, fields.PriceMax); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(fields.Slug, *fields.Name)
	if err != nil {
		return nil, err
	}
	fields.Slug = &slug
	if fields.Status == nil {
		status := domain.UmkmStatusPending
		fields.Status = &status
	}
	if fields.ThumbnailURL == nil && fields.Images != nil && len(*fields.Images) > 0 {
		fields.ThumbnailURL = stringPtr((*fields.Images)[0])
	}

	product, err := s.umkm.Create(ctx, fields)
	if err != nil {
		return nil, translateWriteErr(err, ErrUmkmNotFound)
	}
	return product, nil
}

// Update checks the merged price range and the review workflow against the
// stored row: only pending products can be verified or rejected.
func (s *UmkmService) Update(ctx context.Context, id uuid.UUID, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
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

	var from *domain.UmkmStatus
	if fields.Price != nil || fields.PriceMax != nil || fields.Status != nil {
		current, err := s.umkm.FindByID(ctx, id)
		if err != nil {
			return nil, translateReadErr(err, ErrUmkmNotFound)
		}
		price, priceMax := current.Price, current.PriceMax
		if fields.Price != nil {
			price = *fields.Price
		}
		if fields.PriceMax != nil {
			priceMax = fields.PriceMax
		}
		if err := checkPriceRange(price, priceMax); err != nil {
			return nil, err
		}
		if fields.Status != nil && *fields.Status != current.Status {
			if !current.Status.CanTransitionTo(*fields.Status) {
				return nil, ErrInvalidStatusTransition
			}
			from = &current.Status
		}
	}

	if from == nil {
		product, err := s.umkm.Update(ctx, id, fields)
		if err != nil {
			return nil, translateWriteErr(err, ErrUmkmNotFound)
		}
		return product, nil
	}

	// The review decision only lands if nobody decided first.
	product, err := s.umkm.UpdateIfStatus(ctx, id, *from, fields)
	if errors.Is(err, sql.ErrNoRows) {
		if _, findErr := s.umkm.FindByID(ctx, id); findErr != nil {
			return nil, translateReadErr(findErr, ErrUmkmNotFound)
		}
		return nil, ErrInvalidStatusTransition
	}
	if err != nil {
		return nil, translateWriteErr(err, ErrUmkmNotFound)
	}
	return product, nil
}

func (s *UmkmService) Delete(ctx context.Context, id uuid.UUID) error {
	return translateReadErr(s.umkm.Delete(ctx, id), ErrUmkmNotFound)
}

// ListPublic only ever exposes verified products.
func (s *UmkmService) ListPublic(ctx context.Context, categoryID, search string) ([]domain.UmkmProduct, error) {
	q := domain.DefaultListQuery().WithEqual("status", string(domain.UmkmStatusVerified))
	if categoryID = strings.TrimSpace(categoryID); categoryID != "" {
		q = q.WithEqual("category_id", categoryID)
	}
	q.Search = search
	return s.umkm.List(ctx, q)
}

func (s *UmkmService) GetPublicBySlug(ctx context.Context, slug string) (*domain.UmkmProduct, error) {
	product, err := s.umkm.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, translateReadErr(err, ErrUmkmNotFound)
	}
	if !product.IsVerified() {
		return nil, ErrUmkmNotFound
	}
	if err := s.umkm.IncrementViewCount(ctx, product.ID); err != nil {
		log.Printf("umkm: count view for %s: %v", product.ID, err)
	} else {
		product.ViewCount++
	}
	return product, nil
}

func (s *UmkmService) validate(fields domain.UmkmFields) error {
	if fields.Status != nil && !fields.Status.Valid() {
		return validationErr("status must be pending, verified or rejected")
	}
	if fields.Price != nil && *fields.Price < 0 {
		return validationErr("price cannot be negative")
	}
	if fields.Images != nil && len(*fields.Images) > s.maxImages {
		return validationErr("at most %d images allowed", s.maxImages)
	}
	if err := notBlank("owner_name", fields.OwnerName); err != nil {
		return err
	}
	return nil
}

func checkPriceRange(price int64, priceMax *int64) error {
	if price < 0 {
		return validationErr("price cannot be negative")
	}
	if priceMax != nil && *priceMax < price {
		return validationErr("price_max must be at least price")
	}
	return nil
}
