package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
	"github.com/google/uuid"
)

// PostJobUseCase публикует вакансию. Если координат нет, их подставит
// асинхронное геокодирование по событию JobPosted.
type PostJobUseCase struct {
	requesters port.RequesterRepositoryPort
	jobs       port.JobRepositoryPort
	publisher  port.EventPublisherPort
	gate       *proximity.QuotaGate
	now        func() time.Time
}

func NewPostJobUseCase(
	requesters port.RequesterRepositoryPort,
	jobs port.JobRepositoryPort,
	publisher port.EventPublisherPort,
	gate *proximity.QuotaGate,
) *PostJobUseCase {
	return &PostJobUseCase{
		requesters: requesters,
		jobs:       jobs,
		publisher:  publisher,
		gate:       gate,
		now:        time.Now,
	}
}

func (uc *PostJobUseCase) Execute(ctx context.Context, userID uuid.UUID, job domain.Job) (*domain.Job, *domain.QuotaDecision, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "PostJob",
		"user_id":  userID.String(),
	})

	ucLogger.Info("Use case started", nil)

	if err := job.Validate(); err != nil {
		ucLogger.Warn("Invalid job", port.Fields{"error": err.Error()})
		return nil, nil, err
	}

	now := uc.now()
	requester, err := uc.requesters.GetRequester(ctx, userID, now)
	if err != nil {
		ucLogger.Error("Failed to load requester", err, nil)
		return nil, nil, err
	}
	if !requester.Role.CanSearchUsers() {
		ucLogger.Warn("Only job posters can publish jobs", port.Fields{"role": requester.Role})
		return nil, nil, domain.ErrForbiddenRole
	}

	job.ID = uuid.New()
	job.PosterID = userID
	job.CreatedAt = now

	tier := requester.Tier
	guard := func(usage int) domain.QuotaDecision {
		return uc.gate.Decide(tier, domain.ActionJobPosting, usage)
	}

	decision, err := uc.jobs.CreateJobWithinQuota(ctx, job, uc.gate.WindowStart(now), guard)
	if err != nil {
		var denied *domain.QuotaDeniedError
		if errors.As(err, &denied) {
			ucLogger.Info("Job posting rejected by quota", port.Fields{
				"usage": denied.Decision.Usage,
				"limit": denied.Decision.Limit,
			})
			return nil, &denied.Decision, err
		}
		ucLogger.Error("Failed to create job", err, nil)
		return nil, nil, err
	}

	if err := uc.publisher.PublishJobPosted(ctx, job); err != nil {
		ucLogger.Warn("Failed to publish JobPosted event", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"job_id":          job.ID.String(),
		"needs_geocoding": job.NeedsGeocoding(),
	})
	return &job, &decision, nil
}
