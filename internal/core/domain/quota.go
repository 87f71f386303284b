package domain

import (
	"fmt"
	"strings"
	"time"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

type ActionKind string

const (
	ActionApplication ActionKind = "application"
	ActionJobPosting  ActionKind = "job_posting"
)

func ParseActionKind(s string) (ActionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "application", "applications":
		return ActionApplication, nil
	case "job_posting", "job_postings", "job-posting", "posting":
		return ActionJobPosting, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// QuotaLimits - лимиты бесплатного тарифа и ширина скользящего окна.
type QuotaLimits struct {
	FreeApplications int
	FreeJobPostings  int
	WindowDays       int
}

// DefaultQuotaLimits - наблюдаемая политика: 1 отклик и 3 вакансии за 30 дней.
func DefaultQuotaLimits() QuotaLimits {
	return QuotaLimits{FreeApplications: 1, FreeJobPostings: 3, WindowDays: 30}
}

// LimitFor возвращает лимит бесплатного тарифа для действия.
func (l QuotaLimits) LimitFor(action ActionKind) int {
	switch action {
	case ActionApplication:
		return l.FreeApplications
	case ActionJobPosting:
		return l.FreeJobPostings
	}
	return 0
}

// Window - длительность скользящего окна.
func (l QuotaLimits) Window() time.Duration {
	return time.Duration(l.WindowDays) * 24 * time.Hour
}

// QuotaPolicy - состояние квоты пользователя для одного действия на момент проверки.
type QuotaPolicy struct {
	Tier       Tier
	Action     ActionKind
	UsageCount int
	Limit      int
}

type QuotaState string

const (
	QuotaWithinLimit QuotaState = "within_limit"
	QuotaAtLimit     QuotaState = "at_limit"
)

// QuotaDecision - результат проверки квоты. Отказ это обычный результат, не ошибка.
type QuotaDecision struct {
	Allowed bool
	State   QuotaState
	Action  ActionKind
	Tier    Tier
	Usage   int
	// Limit < 0 означает отсутствие лимита
	Limit     int
	Remaining int
	Reason    string
}
