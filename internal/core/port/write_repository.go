package port

import (
	"context"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

// QuotaGuard вызывается хранилищем внутри транзакции, после того как счетчик
// пользователя заблокирован и пересчитан. Запись выполняется, только если решение Allowed.
type QuotaGuard func(usage int) domain.QuotaDecision

// ApplicationRepositoryPort сохраняет отклики с атомарной проверкой квоты.
type ApplicationRepositoryPort interface {
	// CreateApplicationWithinQuota блокирует вакансию и счетчик заявителя, проверяет
	// domain.CheckApplicable и квоту, после чего вставляет отклик.
	// При отказе по квоте возвращает *domain.QuotaDeniedError.
	CreateApplicationWithinQuota(ctx context.Context, app domain.Application, since time.Time, guard QuotaGuard) (domain.QuotaDecision, error)
}

// JobRepositoryPort сохраняет вакансии.
type JobRepositoryPort interface {
	CreateJobWithinQuota(ctx context.Context, job domain.Job, since time.Time, guard QuotaGuard) (domain.QuotaDecision, error)
	UpdateJobLocation(ctx context.Context, jobID uuid.UUID, location domain.Location) error
}
