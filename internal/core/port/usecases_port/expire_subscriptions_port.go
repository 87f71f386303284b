package usecases_port

import "context"

type ExpireSubscriptionsUseCase interface {
	Execute(ctx context.Context) (int64, error)
}
