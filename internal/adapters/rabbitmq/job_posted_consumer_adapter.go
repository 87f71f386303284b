package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/furqan-y-khan/workify/internal/constants"
	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/contracts"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/port/usecases_port"
	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_common"
	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// JobPostedConsumerAdapter слушает JobPostedEvent и геокодирует адреса новых вакансий
type JobPostedConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.ResolveJobLocationUseCase
	logger   port.LoggerPort
}

var _ port.EventListenerPort = (*JobPostedConsumerAdapter)(nil)

func NewJobPostedConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.ResolveJobLocationUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*JobPostedConsumerAdapter, error) {
	adapter := &JobPostedConsumerAdapter{useCase: useCase, logger: logger}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.handleMessage, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for job geocoding: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

// handleMessage возвращает ошибку только для сбоев, которые имеет смысл повторить
func (a *JobPostedConsumerAdapter) handleMessage(ctx context.Context, d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	msgLogger := a.logger.WithFields(port.Fields{
		"component":    "JobPostedConsumerAdapter",
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if eventType != contracts.JobPostedEvent {
		msgLogger.Debug("Skipping unrelated event", port.Fields{"event_type": eventType})
		return nil
	}
	// битое сообщение не исправится повтором
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Invalid JobPosted event, dropping", err, nil)
		return nil
	}

	var dto JobPostedDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		msgLogger.Error("Failed to unmarshal JobPosted event, dropping", err, nil)
		return nil
	}
	if !dto.NeedsGeocoding {
		return nil
	}

	return a.useCase.Execute(ctx, dto.JobID, dto.Address)
}

func (a *JobPostedConsumerAdapter) Start(ctx context.Context) error {
	a.logger.Info("Starting JobPosted consumer", nil)
	return a.consumer.StartConsuming(ctx)
}

func (a *JobPostedConsumerAdapter) Close() error {
	return a.consumer.Close()
}
