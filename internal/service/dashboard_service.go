package service

import (
	"context"
	"fmt"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

type DashboardService struct {
	tourism  ports.TourismRepository
	umkm     ports.UmkmRepository
	articles ports.ArticleRepository
}

func NewDashboardService(tourism ports.TourismRepository, umkm ports.UmkmRepository, articles ports.ArticleRepository) *DashboardService {
	return &DashboardService{tourism: tourism, umkm: umkm, articles: articles}
}

// Stats counts active destinations, verified and pending products and
// published articles. Visitors are the summed view counters of both listings.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	var err error

	status := func(value string) domain.ListQuery {
		return domain.ListQuery{}.WithEqual("status", value)
	}
	if stats.TotalTourism, err = s.tourism.Count(ctx, status(string(domain.TourismStatusActive))); err != nil {
		return nil, fmt.Errorf("count tourism: %w", err)
	}
	if stats.ActiveUmkm, err = s.umkm.Count(ctx, status(string(domain.UmkmStatusVerified))); err != nil {
		return nil, fmt.Errorf("count verified umkm: %w", err)
	}
	if stats.PendingUmkm, err = s.umkm.Count(ctx, status(string(domain.UmkmStatusPending))); err != nil {
		return nil, fmt.Errorf("count pending umkm: %w", err)
	}
	if stats.PublishedArticles, err = s.articles.Count(ctx, status(string(domain.ArticleStatusPublished))); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	tourismViews, err := s.tourism.SumViewCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum tourism views: %w", err)
	}
	umkmViews, err := s.umkm.SumViewCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum umkm views: %w", err)
	}
	stats.TotalVisitors = tourismViews + umkmViews
	return &stats, nil
}
