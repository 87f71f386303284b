package local

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/port/usecases_port"
)

const geocodeTimeout = 30 * time.Second

var ErrPublisherClosed = errors.New("local event publisher is closed")

// EventPublisher используется, когда брокер не настроен: JobPosted сразу запускает
// геокодирование в фоне, остальные события только логируются.
type EventPublisher struct {
	resolver usecases_port.ResolveJobLocationUseCase
	wg       sync.WaitGroup

	// mu защищает closed и wg.Add от гонки с Close
	mu     sync.Mutex
	closed bool
}

var _ port.EventPublisherPort = (*EventPublisher)(nil)

func NewEventPublisher(resolver usecases_port.ResolveJobLocationUseCase) *EventPublisher {
	return &EventPublisher{resolver: resolver}
}

func (p *EventPublisher) PublishJobPosted(ctx context.Context, job domain.Job) error {
	if !job.NeedsGeocoding() || p.resolver == nil {
		return nil
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	// запрос уже завершится, пока идет геокодирование
	bg := context.WithoutCancel(ctx)
	go func() {
		defer p.wg.Done()
		runCtx, cancel := context.WithTimeout(bg, geocodeTimeout)
		defer cancel()
		if err := p.resolver.Execute(runCtx, job.ID, job.Location.Address()); err != nil {
			contextkeys.LoggerFromContext(bg).Error("Background geocoding failed", err, port.Fields{"job_id": job.ID.String()})
		}
	}()
	return nil
}

func (p *EventPublisher) PublishApplicationSubmitted(ctx context.Context, app domain.Application) error {
	contextkeys.LoggerFromContext(ctx).Debug("ApplicationSubmitted event (no broker configured)", port.Fields{
		"application_id": app.ID.String(),
		"job_id":         app.JobID.String(),
	})
	return nil
}

// Close перестает принимать события и ждет завершения фоновых задач
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}
