package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/port/usecases_port"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const DefaultSweepSpec = "@every 1h"

// SubscriptionSweeper периодически закрывает истекшие подписки
type SubscriptionSweeper struct {
	cron    *cron.Cron
	spec    string
	useCase usecases_port.ExpireSubscriptionsUseCase
	logger  port.LoggerPort
	timeout time.Duration
}

var _ port.EventListenerPort = (*SubscriptionSweeper)(nil)

func NewSubscriptionSweeper(spec string, useCase usecases_port.ExpireSubscriptionsUseCase, logger port.LoggerPort) (*SubscriptionSweeper, error) {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("scheduler: invalid cron spec %q: %w", spec, err)
	}

	sweepLogger := logger.WithFields(port.Fields{"component": "SubscriptionSweeper"})
	return &SubscriptionSweeper{
		cron: cron.New(
			cron.WithLogger(cronLogger{logger: sweepLogger}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: sweepLogger})),
		),
		spec:    spec,
		useCase: useCase,
		logger:  sweepLogger,
		timeout: time.Minute,
	}, nil
}

// Start регистрирует задачу, сразу делает один проход и ждет отмены ctx
func (s *SubscriptionSweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduler: add job: %w", err)
	}
	s.cron.Start()
	s.logger.Info("Subscription sweeper started", port.Fields{"spec": s.spec})

	s.runOnce(ctx)

	<-ctx.Done()
	return nil
}

// Close ждет окончания текущего прохода
func (s *SubscriptionSweeper) Close() error {
	<-s.cron.Stop().Done()
	s.logger.Info("Subscription sweeper stopped", nil)
	return nil
}

func (s *SubscriptionSweeper) runOnce(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	traceID := uuid.New().String()
	runLogger := s.logger.WithFields(port.Fields{"trace_id": traceID})

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	ctx = contextkeys.ContextWithLogger(ctx, runLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	if _, err := s.useCase.Execute(ctx); err != nil {
		runLogger.Error("Subscription sweep failed", err, nil)
	}
}

// cronLogger пишет внутренние сообщения cron в LoggerPort
type cronLogger struct {
	logger port.LoggerPort
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, err, pairs(keysAndValues))
}

func pairs(kv []interface{}) port.Fields {
	fields := make(port.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
