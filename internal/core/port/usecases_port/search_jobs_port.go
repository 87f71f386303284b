package usecases_port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

// SearchJobsUseCase ищет вакансии для пользователя userID.
// Если в req.Requester.Location переданы координаты, они заменяют локацию профиля.
type SearchJobsUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, req domain.SearchRequest) (*domain.SearchResult, error)
}
