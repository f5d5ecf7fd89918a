package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

var ErrVisitorStatsUnavailable = errors.New("visitor stats unavailable")

// publicDetailPrefixes are the routes that count as a visit.
var publicDetailPrefixes = []string{"/api/v1/tourism/", "/api/v1/umkm/", "/api/v1/articles/"}

type VisitorStatsConfig struct {
	LogIndex       string
	RequestTimeout time.Duration
	TopPages       int
}

// VisitorStatsService reads visitor traffic from the request logs shipped to
// Elasticsearch through Logstash.
type VisitorStatsService struct {
	es             *elasticsearch.Client
	logIndex       string
	requestTimeout time.Duration
	topPages       int
	now            func() time.Time
}

func NewVisitorStatsService(es *elasticsearch.Client, cfg VisitorStatsConfig) *VisitorStatsService {
	if cfg.TopPages <= 0 {
		cfg.TopPages = 10
	}
	return &VisitorStatsService{
		es:             es,
		logIndex:       cfg.LogIndex,
		requestTimeout: cfg.RequestTimeout,
		topPages:       cfg.TopPages,
		now:            time.Now,
	}
}

func (s *VisitorStatsService) Stats(ctx context.Context, rangeKey domain.VisitorRange) (*domain.VisitorStats, error) {
	if s == nil || s.es == nil {
		return nil, fmt.Errorf("%w: elasticsearch client not configured", ErrVisitorStatsUnavailable)
	}
	now := s.now().UTC()
	result := &domain.VisitorStats{Range: rangeKey, To: now, TopPages: []domain.PageViews{}}
	if d, ok := rangeKey.Duration(); ok {
		from := now.Add(-d)
		result.From = &from
	}

	payload, err := json.Marshal(s.query(result.From))
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	resp, err := s.es.Search(
		s.es.Search.WithContext(reqCtx),
		s.es.Search.WithIndex(s.logIndex),
		s.es.Search.WithBody(bytes.NewReader(payload)),
		s.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVisitorStatsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("%w: elasticsearch search error: %s", ErrVisitorStatsUnavailable, resp.String())
	}

	var parsed visitorSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrVisitorStatsUnavailable, err)
	}

	result.PageViews = parsed.Hits.Total.Value
	result.UniqueVisitors = int64(parsed.Aggregations.UniqueVisitors.Value)
	for _, bucket := range parsed.Aggregations.TopPages.Buckets {
		result.TopPages = append(result.TopPages, domain.PageViews{URI: bucket.Key, Views: bucket.DocCount})
	}
	return result, nil
}

func (s *VisitorStatsService) query(from *time.Time) map[string]any {
	prefixes := make([]map[string]any, 0, len(publicDetailPrefixes))
	for _, prefix := range publicDetailPrefixes {
		prefixes = append(prefixes, map[string]any{"prefix": map[string]any{"uri.keyword": prefix}})
	}
	must := []map[string]any{
		{"term": map[string]any{"method.keyword": "GET"}},
		{"term": map[string]any{"status": 200}},
		{"bool": map[string]any{"should": prefixes, "minimum_should_match": 1}},
	}
	if from != nil {
		must = append(must, map[string]any{
			"range": map[string]any{
				"@timestamp": map[string]any{"gte": from.Format(time.RFC3339)},
			},
		})
	}
	return map[string]any{
		"size": 0,
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"aggs": map[string]any{
			"unique_visitors": map[string]any{"cardinality": map[string]any{"field": "ip.keyword"}},
			"top_pages": map[string]any{
				"terms": map[string]any{"field": "uri.keyword", "size": s.topPages},
			},
		},
	}
}

type visitorSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
	} `json:"hits"`
	Aggregations struct {
		UniqueVisitors struct {
			Value float64 `json:"value"`
		} `json:"unique_visitors"`
		TopPages struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"top_pages"`
	} `json:"aggregations"`
}
