package usecases_port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

type SubmitApplicationUseCase interface {
	Execute(ctx context.Context, userID, jobID uuid.UUID, coverLetter string) (*domain.Application, *domain.QuotaDecision, error)
}
