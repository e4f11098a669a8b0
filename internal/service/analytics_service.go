package service

import (
	"context"

	"github.com/PSilyDev/survease/internal/analytics"
	"github.com/PSilyDev/survease/internal/cache"
	"github.com/PSilyDev/survease/internal/repository"
)

// AnalyticsService builds aggregate views over stored responses, with a
// short-lived cached index in front of the store. Aggregation only ever
// runs over a fully fetched response list; a failed fetch yields no
// partial aggregate.
type AnalyticsService struct {
	responseRepo repository.ResponseRepo
	aggCache     cache.AggregateCache
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(responseRepo repository.ResponseRepo, aggCache cache.AggregateCache) *AnalyticsService {
	return &AnalyticsService{
		responseRepo: responseRepo,
		aggCache:     aggCache,
	}
}

// Index returns the aggregate index for all stored responses.
func (s *AnalyticsService) Index(ctx context.Context) (analytics.AggregateIndex, error) {
	if cached, err := s.aggCache.Get(ctx); err == nil && cached != nil {
		return cached, nil
	}

	docs, err := s.responseRepo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := analytics.Aggregate(docs)
	_ = s.aggCache.Set(ctx, idx)
	return idx, nil
}

// Catalog lists the categories and surveys that have responses.
func (s *AnalyticsService) Catalog(ctx context.Context) (analytics.Catalog, error) {
	docs, err := s.responseRepo.FetchAll(ctx)
	if err != nil {
		return analytics.Catalog{}, err
	}
	return analytics.BuildCatalog(docs), nil
}

// ExportCSV renders stored responses as CSV, optionally filtered down to
// one category or survey.
func (s *AnalyticsService) ExportCSV(ctx context.Context, filter *analytics.CSVFilter) (string, error) {
	docs, err := s.responseRepo.FetchAll(ctx)
	if err != nil {
		return "", err
	}
	return analytics.ToCSV(docs, filter)
}
