package port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

// EventPublisherPort публикует доменные события для других сервисов.
type EventPublisherPort interface {
	PublishJobPosted(ctx context.Context, job domain.Job) error
	PublishApplicationSubmitted(ctx context.Context, app domain.Application) error
}
