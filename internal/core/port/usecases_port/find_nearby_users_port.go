package usecases_port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

type FindNearbyUsersUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, req domain.SearchRequest) (*domain.SearchResult, error)
}
