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

// FindNearbyUsersUseCase - работодатель ищет соискателей рядом с собой.
type FindNearbyUsersUseCase struct {
	requesters port.RequesterRepositoryPort
	candidates port.CandidateRepositoryPort
	engine     *proximity.Engine
	now        func() time.Time
}

func NewFindNearbyUsersUseCase(requesters port.RequesterRepositoryPort, candidates port.CandidateRepositoryPort, engine *proximity.Engine) *FindNearbyUsersUseCase {
	return &FindNearbyUsersUseCase{
		requesters: requesters,
		candidates: candidates,
		engine:     engine,
		now:        time.Now,
	}
}

func (uc *FindNearbyUsersUseCase) Execute(ctx context.Context, userID uuid.UUID, req domain.SearchRequest) (*domain.SearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "FindNearbyUsers",
		"user_id":  userID.String(),
	})

	ucLogger.Info("Use case started", nil)

	if err := req.Validate(); err != nil {
		ucLogger.Warn("Invalid search request", port.Fields{"error": err.Error()})
		return nil, err
	}

	requester, err := loadRequester(ctx, uc.requesters, userID, req.Requester.Location, uc.now())
	if err != nil {
		ucLogger.Error("Failed to load requester", err, nil)
		return nil, err
	}
	if !requester.Role.CanSearchUsers() {
		ucLogger.Warn("Role is not allowed to search users", port.Fields{"role": requester.Role})
		return nil, domain.ErrForbiddenRole
	}
	req.Requester = requester

	if req.SortKey == "" {
		req.SortKey = domain.SortDistance
	}
	req.Filters.TargetRole = domain.RoleJobSeeker
	// удаленная работа и заполненность к людям не относятся
	req.Filters.IncludeRemote = false
	req.IncludeFullyFilled = true

	hints := candidateHints(req)
	hints.TargetRole = domain.RoleJobSeeker
	hints.ExcludeUserID = &requester.UserID

	candidates, err := uc.candidates.ListUsers(ctx, hints)
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
		ucLogger.Warn("Requester location is unresolved, distance filter skipped", nil)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
	})
	return result, nil
}
