package rabbitmq_consumer

import (
	"fmt"
	"sync"

	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_common"
	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig конфигурация потребителя
type ConsumerConfig struct {
	rabbitmq_common.Config

	// очередь
	QueueName    string
	DeclareQueue bool
	DurableQueue bool
	QueueArgs    amqp.Table

	// привязка к обменнику, пустое имя - без привязки
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	RoutingKeyForBind      string

	PrefetchCount int
	ConsumerTag   string

	// ограничение на число одновременно работающих обработчиков, 0 - PrefetchCount
	MaxConcurrentHandlers int

	// ретраи через wait-очередь с TTL и финальный DLX
	EnableRetryMechanism bool
	RetryExchange        string
	RetryQueue           string
	RetryTTL             int // мс
	FinalDLXExchange     string
	FinalDLQ             string
	FinalDLQRoutingKey   string
	MaxRetries           int

	Logger rabbitmq_common.Logger
}

func (cfg ConsumerConfig) validate() error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid base config: %w", err)
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return fmt.Errorf("queue name is required if DeclareQueue is false")
	}
	if cfg.DeclareExchangeForBind && cfg.ExchangeNameForBind != "" && cfg.ExchangeTypeForBind == "" {
		return fmt.Errorf("exchange type is required if declaring an exchange for binding")
	}
	if cfg.EnableRetryMechanism {
		if cfg.RetryExchange == "" || cfg.RetryQueue == "" || cfg.FinalDLXExchange == "" || cfg.FinalDLQ == "" {
			return fmt.Errorf("retry mechanism requires retry exchange, retry queue, final DLX and final DLQ")
		}
		if cfg.RetryTTL <= 0 {
			return fmt.Errorf("retry TTL must be positive")
		}
	}
	return nil
}

// baseConsumer - общая часть: канал, QoS, топология и ретраи
type baseConsumer struct {
	config            ConsumerConfig
	connection        *amqp.Connection
	channel           *amqp.Channel
	actualQueueName   string
	finalDlxPublisher *rabbitmq_producer.Publisher
	wg                sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func newBaseConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*baseConsumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("base Consumer: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("base Consumer: failed to get channel from manager: %w", err)
	}
	c := &baseConsumer{config: cfg, connection: conn, channel: ch, Logger: logger}

	if err := c.setupTopology(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("base Consumer: setup failed: %w", err)
	}

	if cfg.EnableRetryMechanism {
		dlxPublisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       cfg.Config,
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("base Consumer: failed to create final DLX publisher: %w", err)
		}
		c.finalDlxPublisher = dlxPublisher
	}

	return c, nil
}

// setupTopology объявляет очередь, обменник, привязку и инфраструктуру ретраев
func (c *baseConsumer) setupTopology() error {
	cfg := c.config

	if cfg.PrefetchCount > 0 {
		if err := c.channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	queueArgs := amqp.Table{}
	for k, v := range cfg.QueueArgs {
		queueArgs[k] = v
	}
	if cfg.EnableRetryMechanism {
		// отвергнутые сообщения основной очереди уходят в retry-exchange
		queueArgs["x-dead-letter-exchange"] = cfg.RetryExchange
	}

	c.actualQueueName = cfg.QueueName
	if cfg.DeclareQueue {
		c.Logger.Debug("Declaring queue", "name", cfg.QueueName, "durable", cfg.DurableQueue)
		q, err := c.channel.QueueDeclare(cfg.QueueName, cfg.DurableQueue, false, false, false, queueArgs)
		if err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", cfg.QueueName, err)
		}
		c.actualQueueName = q.Name
	}

	if cfg.DeclareExchangeForBind && cfg.ExchangeNameForBind != "" {
		c.Logger.Debug("Declaring exchange", "name", cfg.ExchangeNameForBind, "type", cfg.ExchangeTypeForBind)
		err := c.channel.ExchangeDeclare(cfg.ExchangeNameForBind, cfg.ExchangeTypeForBind, cfg.DurableExchangeForBind, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", cfg.ExchangeNameForBind, err)
		}
	}

	if cfg.ExchangeNameForBind != "" {
		c.Logger.Debug("Binding queue", "queue", c.actualQueueName, "exchange", cfg.ExchangeNameForBind, "routing_key", cfg.RoutingKeyForBind)
		if err := c.channel.QueueBind(c.actualQueueName, cfg.RoutingKeyForBind, cfg.ExchangeNameForBind, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s' to '%s': %w", c.actualQueueName, cfg.ExchangeNameForBind, err)
		}
	}

	if !cfg.EnableRetryMechanism {
		return nil
	}

	if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}
	// wait-очередь возвращает сообщения в основной обменник по истечении TTL
	_, err := c.channel.QueueDeclare(cfg.RetryQueue, true, false, false, false, amqp.Table{
		"x-message-ttl":          int32(cfg.RetryTTL),
		"x-dead-letter-exchange": cfg.ExchangeNameForBind,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry-wait queue: %w", err)
	}
	if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry-wait queue: %w", err)
	}

	c.Logger.Debug("Retry topology is ready", "queue", c.actualQueueName)
	return nil
}

// deathCount - сколько раз сообщение было отвергнуто основной очередью (по x-death)
func deathCount(headers amqp.Table, queueName string) int64 {
	deaths, ok := headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, _ := tbl["queue"].(string); queue == queueName {
			if count, ok := tbl["count"].(int64); ok {
				return count
			}
		}
	}
	return 0
}

// Close ждет завершения обработчиков и закрывает каналы
func (c *baseConsumer) Close() error {
	c.wg.Wait()

	var firstErr error
	if c.finalDlxPublisher != nil {
		if err := c.finalDlxPublisher.Close(); err != nil {
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && firstErr == nil {
			c.Logger.Error(err, "Error closing consumer channel")
			firstErr = err
		}
		c.channel = nil
	}
	c.Logger.Info("Consumer closed")
	return firstErr
}
