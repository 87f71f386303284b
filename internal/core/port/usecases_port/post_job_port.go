package usecases_port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

type PostJobUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, job domain.Job) (*domain.Job, *domain.QuotaDecision, error)
}
