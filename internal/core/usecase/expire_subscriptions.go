package usecase

import (
	"context"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/port"
)

// ExpireSubscriptionsUseCase закрывает истекшие подписки. Тариф определяется
// по valid_until и без этой задачи, она только приводит статус в порядок.
type ExpireSubscriptionsUseCase struct {
	subscriptions port.SubscriptionRepositoryPort
	now           func() time.Time
}

func NewExpireSubscriptionsUseCase(subscriptions port.SubscriptionRepositoryPort) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{subscriptions: subscriptions, now: time.Now}
}

func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ExpireSubscriptions"})

	expired, err := uc.subscriptions.ExpireSubscriptions(ctx, uc.now())
	if err != nil {
		ucLogger.Error("Failed to expire subscriptions", err, nil)
		return 0, err
	}
	if expired > 0 {
		ucLogger.Info("Subscriptions expired", port.Fields{"count": expired})
	}
	return expired, nil
}
