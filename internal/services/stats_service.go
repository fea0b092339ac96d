package services

import (
	"context"
	"time"

	"servicehub/internal/caching"
	"servicehub/internal/models"
	"servicehub/internal/repositories"

	"github.com/rs/zerolog/log"
)

const statsCacheTTL = 10 * time.Minute

type StatsService interface {
	// Snapshot returns the aggregate counters, served from cache when warm.
	Snapshot(ctx context.Context) (*models.Stats, error)
	// Refresh recomputes the snapshot and rewrites the cache.
	Refresh(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	repo  repositories.StatsRepository
	cache caching.CacheService
}

func NewStatsService(repo repositories.StatsRepository, cache caching.CacheService) StatsService {
	return &statsService{repo: repo, cache: cache}
}

func (s *statsService) Snapshot(ctx context.Context) (*models.Stats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetStats(ctx); err != nil {
			log.Warn().Err(err).Msg("stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx)
}

func (s *statsService) Refresh(ctx context.Context) (*models.Stats, error) {
	stats, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetStats(ctx, stats, statsCacheTTL); err != nil {
			log.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
