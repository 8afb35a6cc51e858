package service

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Overview is the admin dashboard payload.
type Overview struct {
	Stats   *domain.Stats
	Metrics observability.MetricsSnapshot
}

// StatsService assembles admin dashboard figures.
type StatsService struct {
	repo    repository.StatsRepository
	metrics *observability.Metrics
}

// NewStatsService constructs the service.
func NewStatsService(repo repository.StatsRepository, metrics *observability.Metrics) *StatsService {
	return &StatsService{repo: repo, metrics: metrics}
}

// Overview returns table counts alongside the in-process chat metrics.
func (s *StatsService) Overview(ctx context.Context) (*Overview, error) {
	stats, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{Stats: stats, Metrics: s.metrics.Snapshot()}, nil
}
