package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const defaultPort = 24224

type Config struct {
	Host      string // "fluent-bit" в docker-compose
	Port      int
	TagPrefix string // обычно APP_NAME
	Timeout   time.Duration
	// MaxRetry - сколько раз переподключаться в асинхронном режиме, 0 - значение библиотеки
	MaxRetry int
}

func (c Config) toFluent() (fluent.Config, error) {
	if c.TagPrefix == "" {
		return fluent.Config{}, fmt.Errorf("fluentd tag prefix is required")
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	return fluent.Config{
		FluentHost:         c.Host,
		FluentPort:         c.Port,
		TagPrefix:          c.TagPrefix,
		Timeout:            c.Timeout,
		MaxRetry:           c.MaxRetry,
		SubSecondPrecision: true,
		Async:              true,
	}, nil
}

// NewClient не проверяет соединение: в асинхронном режиме ошибки всплывут при отправке.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	fcfg, err := cfg.toFluent()
	if err != nil {
		return nil, err
	}
	client, err := fluent.New(fcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd client: %w", err)
	}
	return client, nil
}
