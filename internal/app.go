package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	geocoder_adapter "github.com/furqan-y-khan/workify/internal/adapters/geocoder"
	token_adapter "github.com/furqan-y-khan/workify/internal/adapters/jwt"
	"github.com/furqan-y-khan/workify/internal/adapters/local"
	logger_adapter "github.com/furqan-y-khan/workify/internal/adapters/logger"
	postgres_adapter "github.com/furqan-y-khan/workify/internal/adapters/postgres"
	rabbitmq_adapter "github.com/furqan-y-khan/workify/internal/adapters/rabbitmq"
	redis_adapter "github.com/furqan-y-khan/workify/internal/adapters/redis"
	"github.com/furqan-y-khan/workify/internal/adapters/rest"
	"github.com/furqan-y-khan/workify/internal/adapters/scheduler"
	"github.com/furqan-y-khan/workify/internal/configs"
	"github.com/furqan-y-khan/workify/internal/constants"
	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/contracts"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
	"github.com/furqan-y-khan/workify/internal/core/usecase"
	fluentlogger "github.com/furqan-y-khan/workify/pkg/fluent_logger"
	"github.com/furqan-y-khan/workify/pkg/postgres"
	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_common"
	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server

	listeners map[string]port.EventListenerPort

	connManager    *rabbitmq_common.ConnectionManager
	eventProducer  *rabbitmq_producer.Publisher
	localPublisher *local.EventPublisher
	redisClient    *redis.Client

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   strings.EqualFold(appConfig.StdoutLogger.Format, "json"),
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		listeners:    make(map[string]port.EventListenerPort),
		fluentClient: fluentClient,
		logger:       appLogger,
	}
	if err := application.wire(baseLogger); err != nil {
		application.closeResources()
		return nil, err
	}
	return application, nil
}

// wire собирает адаптеры и use cases. При ошибке уже созданные ресурсы закрывает вызывающий.
func (a *App) wire(baseLogger port.LoggerPort) error {
	cfg := a.config
	startupCtx := contextkeys.ContextWithLogger(context.Background(), a.logger)

	if err := contracts.Load(); err != nil {
		a.logger.Error("Failed to compile event contracts", err, nil)
		return fmt.Errorf("failed to compile event contracts: %w", err)
	}

	// --- 3. POSTGRES ---
	dbPool, err := postgres.NewClient(startupCtx, postgres.Config{
		DatabaseURL:     cfg.Database.URL,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		a.logger.Error("Failed to connect to PostgreSQL", err, nil)
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

	storage, err := postgres_adapter.NewPostgresStorageAdapter(dbPool)
	if err != nil {
		a.logger.Error("Failed to create postgres storage adapter", err, nil)
		return fmt.Errorf("failed to create postgres storage adapter: %w", err)
	}
	if err := storage.CheckSchemaVersion(startupCtx); err != nil {
		a.logger.Error("Database schema check failed", err, port.Fields{"expected_version": postgres_adapter.ExpectedSchemaVersion})
		return err
	}
	a.logger.Info("Postgres storage adapter initialized.", nil)

	// --- 4. ЯДРО ---
	gate, err := proximity.NewQuotaGate(domain.QuotaLimits{
		FreeApplications: cfg.Quota.FreeApplications,
		FreeJobPostings:  cfg.Quota.FreeJobPostings,
		WindowDays:       cfg.Quota.WindowDays,
	})
	if err != nil {
		a.logger.Error("Invalid quota configuration", err, nil)
		return fmt.Errorf("invalid quota configuration: %w", err)
	}
	engine := proximity.NewEngine(proximity.EngineConfig{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	})

	// --- 5. ГЕОКОДИРОВАНИЕ ---
	geocoder, err := geocoder_adapter.NewNominatimClient(geocoder_adapter.Config{
		BaseURL:       cfg.Geocoder.BaseURL,
		UserAgent:     cfg.Geocoder.UserAgent,
		Email:         cfg.Geocoder.Email,
		Timeout:       cfg.Geocoder.Timeout,
		RatePerSecond: cfg.Geocoder.RatePerSecond,
	})
	if err != nil {
		a.logger.Error("Failed to create geocoder client", err, nil)
		return fmt.Errorf("failed to create geocoder client: %w", err)
	}

	var geocodeCache port.GeocodeCachePort
	if cfg.Redis.Enabled() {
		redisClient, err := redis_adapter.NewClient(startupCtx, cfg.Redis.URL)
		if err != nil {
			a.logger.Error("Failed to connect to Redis", err, nil)
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.redisClient = redisClient

		cacheAdapter, err := redis_adapter.NewGeocodeCacheAdapter(redisClient, cfg.Redis.CacheTTL)
		if err != nil {
			return fmt.Errorf("failed to create geocode cache: %w", err)
		}
		geocodeCache = cacheAdapter
		a.logger.Info("Redis geocode cache initialized.", nil)
	} else {
		a.logger.Warn("REDIS_URL is not set, geocode cache disabled.", nil)
	}

	resolveJobLocationUseCase := usecase.NewResolveJobLocationUseCase(geocoder, geocodeCache, storage)

	// --- 6. СОБЫТИЯ ---
	var publisher port.EventPublisherPort
	if cfg.RabbitMQ.Enabled() {
		publisher, err = a.wireRabbitMQ(baseLogger, resolveJobLocationUseCase)
		if err != nil {
			return err
		}
	} else {
		a.localPublisher = local.NewEventPublisher(resolveJobLocationUseCase)
		publisher = a.localPublisher
		a.logger.Warn("RABBITMQ_URL is not set, events are handled in-process.", nil)
	}

	// --- 7. USE CASES ---
	searchJobsUseCase := usecase.NewSearchJobsUseCase(storage, storage, engine)
	findNearbyUsersUseCase := usecase.NewFindNearbyUsersUseCase(storage, storage, engine)
	checkQuotaUseCase := usecase.NewCheckQuotaUseCase(storage, storage, gate)
	submitApplicationUseCase := usecase.NewSubmitApplicationUseCase(storage, storage, publisher, gate)
	postJobUseCase := usecase.NewPostJobUseCase(storage, storage, publisher, gate)
	expireSubscriptionsUseCase := usecase.NewExpireSubscriptionsUseCase(storage)
	a.logger.Info("All use cases initialized.", nil)

	sweeper, err := scheduler.NewSubscriptionSweeper(cfg.Scheduler.SubscriptionSweepSpec, expireSubscriptionsUseCase, baseLogger)
	if err != nil {
		a.logger.Error("Failed to create subscription sweeper", err, nil)
		return fmt.Errorf("failed to create subscription sweeper: %w", err)
	}
	a.listeners["Subscription Sweeper"] = sweeper

	// --- 8. REST ---
	tokens, err := token_adapter.NewTokenService(cfg.JWT.SigningKey, cfg.JWT.Issuer)
	if err != nil {
		a.logger.Error("Failed to create token service", err, nil)
		return fmt.Errorf("failed to create token service: %w", err)
	}

	handlers := rest.Handlers{
		Search: rest.NewSearchHandler(searchJobsUseCase, findNearbyUsersUseCase, rest.SearchDefaults{RadiusKm: cfg.Search.DefaultRadiusKm}),
		Quota:  rest.NewQuotaHandler(checkQuotaUseCase),
		Jobs:   rest.NewJobHandler(postJobUseCase, submitApplicationUseCase),
	}
	a.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           cfg.HTTP.Port,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, handlers, tokens, baseLogger)
	a.logger.Info("REST API server configured.", nil)

	return nil
}

func (a *App) wireRabbitMQ(baseLogger port.LoggerPort, resolver *usecase.ResolveJobLocationUseCase) (port.EventPublisherPort, error) {
	url := a.config.RabbitMQ.URL

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: url}, connManagerBridge)
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: url},
		ExchangeName:             constants.ExchangeJobEvents,
		ExchangeType:             constants.ExchangeJobEventsType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,

		Logger: rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		a.logger.Error("Failed to create event producer", err, nil)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	a.eventProducer = eventProducer

	publisher, err := rabbitmq_adapter.NewEventPublisherAdapter(eventProducer)
	if err != nil {
		return nil, err
	}
	a.logger.Info("RabbitMQ Event Producer initialized.", nil)

	geocodingConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: url},
		QueueName:              constants.QueueJobGeocoding,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.ExchangeJobEvents,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.ExchangeJobEventsType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyJobPosted,
		PrefetchCount:          4,
		ConsumerTag:            constants.ConsumerTagGeocoding,
		// геокодер все равно ограничен по частоте
		MaxConcurrentHandlers: 1,

		EnableRetryMechanism: true,
		RetryExchange:        constants.RetryExchange,
		RetryQueue:           constants.RetryQueue,
		RetryTTL:             constants.RetryTTLMillis,
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           constants.MaxRetries,
	}
	listener, err := rabbitmq_adapter.NewJobPostedConsumerAdapter(geocodingConsumerCfg, resolver, baseLogger, connManager)
	if err != nil {
		a.logger.Error("Failed to create job geocoding listener", err, nil)
		return nil, err
	}
	a.listeners["Job Geocoding Listener"] = listener
	a.logger.Info("Job Geocoding Listener initialized.", nil)

	return publisher, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	appCtx = contextkeys.ContextWithLogger(appCtx, a.logger)

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, len(a.listeners)+1)

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	for name, listener := range a.listeners {
		wg.Add(1)
		go startListener(name, listener)
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()

	return runErr
}

// closeResources закрывает все, что успело открыться, в обратном порядке
func (a *App) closeResources() {
	for name, listener := range a.listeners {
		if err := listener.Close(); err != nil {
			a.logger.Error("Error closing listener", err, port.Fields{"listener_name": name})
		}
	}

	if a.localPublisher != nil {
		if err := a.localPublisher.Close(); err != nil {
			a.logger.Error("Error closing local event publisher", err, nil)
		}
	}

	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}

	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
