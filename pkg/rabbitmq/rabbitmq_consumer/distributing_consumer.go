package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Ack/nack/ретраи решает потребитель.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// Consumer - общий контракт потребителей пакета
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
	outcomeDeadLetter
)

// decide выбирает, что делать с сообщением после обработчика
func decide(handlerErr error, retryEnabled bool, deaths int64, maxRetries int) outcome {
	switch {
	case handlerErr == nil:
		return outcomeAck
	case !retryEnabled:
		return outcomeDrop
	case deaths < int64(maxRetries):
		return outcomeRetry
	default:
		return outcomeDeadLetter
	}
}

// DistributingConsumer обрабатывает каждое сообщение в отдельной горутине
// с ограничением на число одновременных обработчиков
type DistributingConsumer struct {
	base    *baseConsumer
	handler MessageHandler
	slots   chan struct{}
}

var _ Consumer = (*DistributingConsumer)(nil)

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}
	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	limit := cfg.MaxConcurrentHandlers
	if limit <= 0 {
		limit = cfg.PrefetchCount
	}
	if limit <= 0 {
		limit = 1
	}

	return &DistributingConsumer{base: bc, handler: handler, slots: make(chan struct{}, limit)}, nil
}

// StartConsuming блокируется до отмены ctx или закрытия соединения
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	b := c.base
	if b.channel == nil || b.connection == nil || b.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected")
	}

	msgs, err := b.channel.Consume(b.actualQueueName, b.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("distributing Consumer: failed to consume from '%s': %w", b.actualQueueName, err)
	}
	b.Logger.Info("Waiting for messages", "queue", b.actualQueueName)

	notifyClose := b.connection.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			b.Logger.Info("Context cancelled, stopping consumer", "consumer_tag", b.config.ConsumerTag)
			return nil

		case amqpErr := <-notifyClose:
			if amqpErr == nil {
				return nil
			}
			b.Logger.Error(amqpErr, "Connection closed for consumer", "consumer_tag", b.config.ConsumerTag)
			return amqpErr

		case d, ok := <-msgs:
			if !ok {
				b.Logger.Info("Deliveries channel closed", "consumer_tag", b.config.ConsumerTag)
				return nil
			}

			select {
			case c.slots <- struct{}{}:
			case <-ctx.Done():
				// сообщение вернется в очередь
				_ = d.Nack(false, true)
				return nil
			}

			b.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer b.wg.Done()
				defer func() { <-c.slots }()
				c.process(ctx, delivery)
			}(d)
		}
	}
}

func (c *DistributingConsumer) process(ctx context.Context, d amqp.Delivery) {
	b := c.base
	handlerErr := c.handler(ctx, d)
	deaths := deathCount(d.Headers, b.actualQueueName)

	switch decide(handlerErr, b.config.EnableRetryMechanism, deaths, b.config.MaxRetries) {
	case outcomeAck:
		_ = d.Ack(false)

	case outcomeDrop:
		b.Logger.Error(handlerErr, "Handler failed, retry disabled, dropping message", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)

	case outcomeRetry:
		b.Logger.Warn("Handler failed, message sent to retry", "delivery_tag", d.DeliveryTag, "death_count", deaths, "error", handlerErr.Error())
		_ = d.Nack(false, false)

	case outcomeDeadLetter:
		b.Logger.Error(handlerErr, "Max retries reached, publishing to final DLX", "delivery_tag", d.DeliveryTag)
		err := b.finalDlxPublisher.Publish(context.Background(), b.config.FinalDLQRoutingKey, amqp.Publishing{
			ContentType:  d.ContentType,
			Body:         d.Body,
			Headers:      d.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		})
		if err != nil {
			b.Logger.Error(err, "Failed to publish to final DLX, message stays in retry loop", "delivery_tag", d.DeliveryTag)
			_ = d.Nack(false, false)
			return
		}
		_ = d.Ack(false)
	}
}

func (c *DistributingConsumer) Close() error {
	return c.base.Close()
}
