package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

// ResolveJobLocationUseCase геокодирует адрес вакансии и сохраняет координаты.
type ResolveJobLocationUseCase interface {
	Execute(ctx context.Context, jobID uuid.UUID, address string) error
}
