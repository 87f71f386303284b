package usecase

import (
	"context"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
	"github.com/google/uuid"
)

type SearchJobsUseCase struct {
	requesters port.RequesterRepositoryPort
	candidates port.CandidateRepositoryPort
	engine     *proximity.Engine
	now        func() time.Time
}

func NewSearchJobsUseCase(requesters port.RequesterRepositoryPort, candidates port.CandidateRepositoryPort, engine *proximity.Engine) *SearchJobsUseCase {
	return &SearchJobsUseCase{
		requesters: requesters,
		candidates: candidates,
		engine:     engine,
		now:        time.Now,
	}
}

func (uc *SearchJobsUseCase) Execute(ctx context.Context, userID uuid.UUID, req domain.SearchRequest) (*domain.SearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchJobs",
		"user_id":  userID.String(),
		"sort_key": req.SortKey,
		"page":     req.Page,
	})

	ucLogger.Info("Use case started", nil)

	// Некорректный запрос отклоняем до похода в БД
	if err := req.Validate(); err != nil {
		ucLogger.Warn("Invalid search request", port.Fields{"error": err.Error()})
		return nil, err
	}

	requester, err := loadRequester(ctx, uc.requesters, userID, req.Requester.Location, uc.now())
	if err != nil {
		ucLogger.Error("Failed to load requester", err, nil)
		return nil, err
	}
	req.Requester = requester

	hints := candidateHints(req)
	hints.OnlyOpen = true

	candidates, err := uc.candidates.ListJobs(ctx, hints)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	result, err := uc.engine.Search(candidates, req)
	if err != nil {
		ucLogger.Error("Engine rejected search request", err, nil)
		return nil, err
	}

	if result.DistanceFilterSkipped {
		ucLogger.Warn("Requester location is unresolved, distance filter skipped", port.Fields{
			"max_distance_km": req.Filters.MaxDistanceKm,
		})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates_loaded": len(candidates),
		"total_found":       result.TotalCount,
		"items_on_page":     len(result.Items),
	})
	return result, nil
}
