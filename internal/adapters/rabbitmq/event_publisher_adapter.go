package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/internal/constants"
	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/contracts"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher - часть rabbitmq_producer.Publisher, нужная адаптеру
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// EventPublisherAdapter публикует доменные события в обменник workify.events.
// Каждое тело проверяется по своей JSON-схеме до отправки.
type EventPublisherAdapter struct {
	producer messagePublisher
	now      func() time.Time
}

var _ port.EventPublisherPort = (*EventPublisherAdapter)(nil)

func NewEventPublisherAdapter(producer messagePublisher) (*EventPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &EventPublisherAdapter{producer: producer, now: time.Now}, nil
}

func (a *EventPublisherAdapter) PublishJobPosted(ctx context.Context, job domain.Job) error {
	return a.publish(ctx, constants.RoutingKeyJobPosted, contracts.JobPostedEvent, toJobPostedDTO(job))
}

func (a *EventPublisherAdapter) PublishApplicationSubmitted(ctx context.Context, app domain.Application) error {
	return a.publish(ctx, constants.RoutingKeyApplicationSubmitted, contracts.ApplicationSubmittedEvent, toApplicationSubmittedDTO(app))
}

func (a *EventPublisherAdapter) publish(ctx context.Context, routingKey, eventType string, dto interface{}) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "EventPublisherAdapter",
		"routing_key": routingKey,
		"event_type":  eventType,
	})

	body, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: marshal %s: %w", eventType, err)
	}
	if err := contracts.ValidateEvent(eventType, contracts.VersionV1, body); err != nil {
		adapterLogger.Error("Event does not match its schema", err, nil)
		return fmt.Errorf("rabbitmq adapter: %s: %w", eventType, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    a.now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    eventType,
			constants.HeaderEventVersion: contracts.VersionV1,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s: %w", eventType, err)
	}

	adapterLogger.Debug("Event published", nil)
	return nil
}
