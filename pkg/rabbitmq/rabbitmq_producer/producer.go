package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig конфигурация издателя
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName    string // пустая строка - default exchange
	ExchangeType    string // direct, fanout, topic, headers
	DurableExchange bool
	ExchangeArgs    amqp.Table

	// если false, обменник должен уже существовать
	DeclareExchangeIfMissing bool

	Logger rabbitmq_common.Logger
}

func (cfg PublisherConfig) validate() error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid base config: %w", err)
	}
	if cfg.DeclareExchangeIfMissing && (cfg.ExchangeName == "") != (cfg.ExchangeType == "") {
		return fmt.Errorf("producer: exchange name and type must be set together when DeclareExchangeIfMissing is true")
	}
	return nil
}

// Publisher публикует сообщения в один обменник через собственный канал
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection

	mu      sync.Mutex
	channel *amqp.Channel

	Logger rabbitmq_common.Logger
}

func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	if cfg.DeclareExchangeIfMissing && cfg.ExchangeName != "" {
		logger.Debug("Declaring exchange", "name", cfg.ExchangeName, "type", cfg.ExchangeType)
		err = ch.ExchangeDeclare(
			cfg.ExchangeName,
			cfg.ExchangeType,
			cfg.DurableExchange,
			false, // auto-delete
			false, // internal
			false, // no-wait
			cfg.ExchangeArgs,
		)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	logger.Debug("Producer is ready", "exchange", cfg.ExchangeName)
	return &Publisher{config: cfg, connection: conn, channel: ch, Logger: logger}, nil
}

// Publish отправляет сообщение с ключом маршрутизации routingKey
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("producer: not connected or channel is closed")
	}

	err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал. Соединение принадлежит ConnectionManager.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing producer channel")
		return err
	}
	p.Logger.Info("Producer closed")
	return nil
}
