package port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

// CandidateRepositoryPort отдает кандидатов для движка поиска.
// Подсказки только сужают выборку; полная фильтрация выполняется в ядре.
type CandidateRepositoryPort interface {
	ListJobs(ctx context.Context, hints domain.CandidateHints) ([]domain.Candidate, error)
	ListUsers(ctx context.Context, hints domain.CandidateHints) ([]domain.Candidate, error)
}
