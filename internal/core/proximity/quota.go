package proximity

import (
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

// CheckQuota - чистая тотальная функция над (тариф, использование, лимит).
// Ничего не меняет и не паникует; отказ возвращается как обычное решение.
//
// Premium не ограничен. Free переходит в AtLimit, как только использование >= лимита.
// Отрицательный лимит означает отсутствие ограничения. Неизвестный тариф
// обрабатывается как Free.
func CheckQuota(p domain.QuotaPolicy) domain.QuotaDecision {
	usage := p.UsageCount
	if usage < 0 {
		usage = 0
	}
	decision := domain.QuotaDecision{
		Action: p.Action,
		Tier:   p.Tier,
		Usage:  usage,
	}

	if p.Tier == domain.TierPremium || p.Limit < 0 {
		decision.Allowed = true
		decision.State = domain.QuotaWithinLimit
		decision.Limit = -1
		decision.Remaining = -1
		return decision
	}

	decision.Limit = p.Limit
	if usage >= p.Limit {
		decision.State = domain.QuotaAtLimit
		decision.Reason = fmt.Sprintf(
			"free plan allows %d %s in the rolling window and %d already used; upgrade to Premium for unlimited access",
			p.Limit, actionNoun(p.Action, p.Limit), usage,
		)
		return decision
	}

	decision.Allowed = true
	decision.State = domain.QuotaWithinLimit
	decision.Remaining = p.Limit - usage
	return decision
}

func actionNoun(action domain.ActionKind, n int) string {
	var noun string
	switch action {
	case domain.ActionApplication:
		noun = "application"
	case domain.ActionJobPosting:
		noun = "job posting"
	default:
		noun = "action"
	}
	if n != 1 {
		noun += "s"
	}
	return noun
}

// QuotaGate связывает лимиты из конфигурации со скользящим окном.
type QuotaGate struct {
	limits domain.QuotaLimits
}

func NewQuotaGate(limits domain.QuotaLimits) (*QuotaGate, error) {
	if limits.WindowDays <= 0 {
		return nil, fmt.Errorf("quota window must be positive, got %d days", limits.WindowDays)
	}
	return &QuotaGate{limits: limits}, nil
}

// Limits возвращает текущие лимиты.
func (g *QuotaGate) Limits() domain.QuotaLimits {
	return g.limits
}

// WindowStart - начало окна относительно now: учитываются действия с меткой >= результата.
func (g *QuotaGate) WindowStart(now time.Time) time.Time {
	return now.Add(-g.limits.Window())
}

// Policy собирает политику для действия из лимитов конфигурации.
func (g *QuotaGate) Policy(tier domain.Tier, action domain.ActionKind, usage int) domain.QuotaPolicy {
	return domain.QuotaPolicy{
		Tier:       tier,
		Action:     action,
		UsageCount: usage,
		Limit:      g.limits.LimitFor(action),
	}
}

// Decide = CheckQuota(Policy(...)).
func (g *QuotaGate) Decide(tier domain.Tier, action domain.ActionKind, usage int) domain.QuotaDecision {
	return CheckQuota(g.Policy(tier, action, usage))
}
