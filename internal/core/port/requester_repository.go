package port

import (
	"context"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

// RequesterRepositoryPort загружает снимок пользователя: роль, тариф и локацию профиля.
// Тариф Premium, если есть активная подписка с valid_until > now.
type RequesterRepositoryPort interface {
	GetRequester(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.RequesterContext, error)
}

// UsageRepositoryPort считает действия пользователя, начиная с since включительно.
type UsageRepositoryPort interface {
	CountActions(ctx context.Context, userID uuid.UUID, action domain.ActionKind, since time.Time) (int, error)
}

// SubscriptionRepositoryPort обслуживает жизненный цикл подписок.
type SubscriptionRepositoryPort interface {
	// ExpireSubscriptions переводит в expired активные подписки с valid_until <= now
	ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error)
}
