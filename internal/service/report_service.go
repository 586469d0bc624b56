package service

import (
	"context"
	"encoding/json"

	"ytharvest/internal/repository"
	"ytharvest/pkg/logger"
	"ytharvest/pkg/redis"
)

// ReportService serves the canned insight queries, caching results in
// Redis when a client is configured.
type ReportService struct {
	reports repository.ReportRepository
	cache   *redis.Client // nil when caching is disabled
	log     *logger.Logger
}

func NewReportService(reports repository.ReportRepository, cache *redis.Client, log *logger.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		cache:   cache,
		log:     log.Named("reports"),
	}
}

// ReportNames lists the available canned reports
func (s *ReportService) ReportNames() []string {
	return s.reports.Names()
}

// RunReport executes one canned report, serving from cache when fresh.
func (s *ReportService) RunReport(ctx context.Context, name string) ([]map[string]interface{}, error) {
	if s.cache != nil {
		key := s.cache.KeyBuilder.KeyReportResult(name)
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var rows []map[string]interface{}
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				s.log.WithField("report", name).Debug("report served from cache")
				return rows, nil
			}
			// unreadable cache entry, fall through to the store
			_ = s.cache.Delete(ctx, key)
		}
	}

	rows, err := s.reports.Run(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(rows); err == nil {
			key := s.cache.KeyBuilder.KeyReportResult(name)
			if err := s.cache.Set(ctx, key, payload, redis.TTLReport); err != nil {
				s.log.WithError(err).Warn("failed to cache report result")
			}
		}
	}

	return rows, nil
}

// InvalidateReports drops every cached report result. Called after a
// harvest run changes the underlying tables.
func (s *ReportService) InvalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(s.reports.Names()))
	for _, name := range s.reports.Names() {
		keys = append(keys, s.cache.KeyBuilder.KeyReportResult(name))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("failed to invalidate report cache")
	}
}
