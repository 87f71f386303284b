package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
	"github.com/google/uuid"
)

type SubmitApplicationUseCase struct {
	requesters   port.RequesterRepositoryPort
	applications port.ApplicationRepositoryPort
	publisher    port.EventPublisherPort
	gate         *proximity.QuotaGate
	now          func() time.Time
}

func NewSubmitApplicationUseCase(
	requesters port.RequesterRepositoryPort,
	applications port.ApplicationRepositoryPort,
	publisher port.EventPublisherPort,
	gate *proximity.QuotaGate,
) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{
		requesters:   requesters,
		applications: applications,
		publisher:    publisher,
		gate:         gate,
		now:          time.Now,
	}
}

func (uc *SubmitApplicationUseCase) Execute(ctx context.Context, userID, jobID uuid.UUID, coverLetter string) (*domain.Application, *domain.QuotaDecision, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SubmitApplication",
		"user_id":  userID.String(),
		"job_id":   jobID.String(),
	})

	ucLogger.Info("Use case started", nil)

	now := uc.now()
	requester, err := uc.requesters.GetRequester(ctx, userID, now)
	if err != nil {
		ucLogger.Error("Failed to load requester", err, nil)
		return nil, nil, err
	}
	if requester.Role != domain.RoleJobSeeker {
		ucLogger.Warn("Only job seekers can apply", port.Fields{"role": requester.Role})
		return nil, nil, domain.ErrForbiddenRole
	}

	app := domain.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		ApplicantID: userID,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      domain.ApplicationStatusPending,
		CreatedAt:   now,
	}

	tier := requester.Tier
	guard := func(usage int) domain.QuotaDecision {
		return uc.gate.Decide(tier, domain.ActionApplication, usage)
	}

	decision, err := uc.applications.CreateApplicationWithinQuota(ctx, app, uc.gate.WindowStart(now), guard)
	if err != nil {
		var denied *domain.QuotaDeniedError
		if errors.As(err, &denied) {
			ucLogger.Info("Application rejected by quota", port.Fields{
				"usage": denied.Decision.Usage,
				"limit": denied.Decision.Limit,
			})
			return nil, &denied.Decision, err
		}
		ucLogger.Error("Failed to create application", err, nil)
		return nil, nil, err
	}

	// событие не критично: отклик уже сохранен
	if err := uc.publisher.PublishApplicationSubmitted(ctx, app); err != nil {
		ucLogger.Warn("Failed to publish ApplicationSubmitted event", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"application_id": app.ID.String(),
		"remaining":      decision.Remaining,
	})
	return &app, &decision, nil
}
