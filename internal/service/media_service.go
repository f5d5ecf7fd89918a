package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/media"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

var ErrTooManyImages = errors.New("image limit reached")

type MediaConfig struct {
	ListingBucket string
	ArticleBucket string
	MaxImages     int
	Processor     media.Processor
}

// MediaService stores uploaded images and attaches their URLs to rows.
// Listings keep an ordered gallery whose first image doubles as thumbnail;
// articles have a single featured image.
type MediaService struct {
	storage  ports.ObjectStorage
	tourism  ports.TourismRepository
	umkm     ports.UmkmRepository
	articles ports.ArticleRepository
	cfg      MediaConfig
}

func NewMediaService(storage ports.ObjectStorage, tourism ports.TourismRepository, umkm ports.UmkmRepository, articles ports.ArticleRepository, cfg MediaConfig) *MediaService {
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = defaultMaxImages
	}
	if cfg.Processor == nil {
		cfg.Processor = media.NewInspector(media.DefaultMaxBytes, media.DefaultMaxDimension)
	}
	return &MediaService{storage: storage, tourism: tourism, umkm: umkm, articles: articles, cfg: cfg}
}

func (s *MediaService) AddTourismImage(ctx context.Context, id uuid.UUID, upload media.Upload) (*domain.TourismDestination, error) {
	dest, err := s.tourism.FindByID(ctx, id)
	if err != nil {
		return nil, translateReadErr(err, ErrTourismNotFound)
	}
	if len(dest.Images) >= s.cfg.MaxImages {
		return nil, fmt.Errorf("%w: at most %d images", ErrTooManyImages, s.cfg.MaxImages)
	}

	objectName, url, err := s.store(ctx, s.cfg.ListingBucket, "tourism/"+id.String(), upload)
	if err != nil {
		return nil, err
	}
	images := append(append([]string{}, dest.Images...), url)
	fields := domain.TourismFields{Images: &images}
	if dest.ThumbnailURL == "" {
		fields.ThumbnailURL = &url
	}
	updated, err := s.tourism.Update(ctx, id, fields)
	if err != nil {
		s.discard(ctx, s.cfg.ListingBucket, objectName)
		return nil, translateWriteErr(err, ErrTourismNotFound)
	}
	return updated, nil
}

func (s *MediaService) AddUmkmImage(ctx context.Context, id uuid.UUID, upload media.Upload) (*domain.UmkmProduct, error) {
	product, err := s.umkm.FindByID(ctx, id)
	if err != nil {
		return nil, translateReadErr(err, ErrUmkmNotFound)
	}
	if len(product.Images) >= s.cfg.MaxImages {
		return nil, fmt.Errorf("%w: at most %d images", ErrTooManyImages, s.cfg.MaxImages)
	}

	objectName, url, err := s.store(ctx, s.cfg.ListingBucket, "umkm/"+id.String(), upload)
	if err != nil {
		return nil, err
	}
	images := append(append([]string{}, product.Images...), url)
	fields := domain.UmkmFields{Images: &images}
	if product.ThumbnailURL == "" {
		fields.ThumbnailURL = &url
	}
	updated, err := s.umkm.Update(ctx, id, fields)
	if err != nil {
		s.discard(ctx, s.cfg.ListingBucket, objectName)
		return nil, translateWriteErr(err, ErrUmkmNotFound)
	}
	return updated, nil
}

// SetArticleImage replaces the featured image. The previous object is left
// in the bucket.
func (s *MediaService) SetArticleImage(ctx context.Context, id uuid.UUID, upload media.Upload) (*domain.Article, error) {
	if _, err := s.articles.FindByID(ctx, id); err != nil {
		return nil, translateReadErr(err, ErrArticleNotFound)
	}
	objectName, url, err := s.store(ctx, s.cfg.ArticleBucket, "articles/"+id.String(), upload)
	if err != nil {
		return nil, err
	}
	updated, err := s.articles.Update(ctx, id, domain.ArticleFields{FeaturedImage: &url}, nil)
	if err != nil {
		s.discard(ctx, s.cfg.ArticleBucket, objectName)
		return nil, translateWriteErr(err, ErrArticleNotFound)
	}
	return updated, nil
}

func (s *MediaService) store(ctx context.Context, bucket, prefix string, upload media.Upload) (string, string, error) {
	result, err := s.cfg.Processor.Process(ctx, upload)
	if err != nil {
		return "", "", err
	}
	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), result.Ext)
	url, err := s.storage.Upload(ctx, bucket, objectName, result.ContentType, bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
	if err != nil {
		return "", "", fmt.Errorf("upload image: %w", err)
	}
	return objectName, url, nil
}

func (s *MediaService) discard(ctx context.Context, bucket, objectName string) {
	if err := s.storage.Remove(ctx, bucket, objectName); err != nil {
		log.Printf("media: remove orphaned %s/%s: %v", bucket, objectName, err)
	}
}
