// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"tripreel/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	// Totals returns itinerary count, job counts keyed by status, and the
	// total number of generated day clips.
	Totals(ctx context.Context) (itineraries int, jobsByStatus map[string]int, clips int, err error)
}

type statsUC struct {
	itineraries repository.ItineraryRepository
	jobs        repository.VideoJobRepository
	clips       repository.DayClipRepository

	log *zerolog.Logger
}

func NewStatsUseCase(itineraries repository.ItineraryRepository, jobs repository.VideoJobRepository, clips repository.DayClipRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{itineraries: itineraries, jobs: jobs, clips: clips, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, map[string]int, int, error) {
	itineraries, err := s.itineraries.Count(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, 0, err
	}
	jobs, err := s.jobs.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, 0, err
	}
	clips, err := s.clips.CountAll(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, 0, err
	}
	return itineraries, jobs, clips, nil
}
