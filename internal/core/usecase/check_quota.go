package usecase

import (
	"context"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
	"github.com/google/uuid"
)

// CheckQuotaUseCase показывает текущее решение по квоте. Это справочная операция:
// окончательная проверка выполняется атомарно при записи.
type CheckQuotaUseCase struct {
	requesters port.RequesterRepositoryPort
	usage      port.UsageRepositoryPort
	gate       *proximity.QuotaGate
	now        func() time.Time
}

func NewCheckQuotaUseCase(requesters port.RequesterRepositoryPort, usage port.UsageRepositoryPort, gate *proximity.QuotaGate) *CheckQuotaUseCase {
	return &CheckQuotaUseCase{requesters: requesters, usage: usage, gate: gate, now: time.Now}
}

func (uc *CheckQuotaUseCase) Execute(ctx context.Context, userID uuid.UUID, action domain.ActionKind) (*domain.QuotaDecision, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CheckQuota",
		"user_id":  userID.String(),
		"action":   action,
	})

	now := uc.now()
	requester, err := uc.requesters.GetRequester(ctx, userID, now)
	if err != nil {
		ucLogger.Error("Failed to load requester", err, nil)
		return nil, err
	}

	since := uc.gate.WindowStart(now)
	count, err := uc.usage.CountActions(ctx, userID, action, since)
	if err != nil {
		ucLogger.Error("Failed to count actions", err, nil)
		return nil, err
	}

	decision := uc.gate.Decide(requester.Tier, action, count)
	ucLogger.Debug("Quota evaluated", port.Fields{
		"tier":    requester.Tier,
		"usage":   count,
		"allowed": decision.Allowed,
	})
	return &decision, nil
}
