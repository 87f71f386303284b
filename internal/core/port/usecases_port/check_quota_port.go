package usecases_port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

type CheckQuotaUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, action domain.ActionKind) (*domain.QuotaDecision, error)
}
