package constants

// Обменник доменных событий
const (
	ExchangeJobEvents     = "workify.events"
	ExchangeJobEventsType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyJobPosted            = "jobs.posted"
	RoutingKeyApplicationSubmitted = "applications.submitted"
)

// Очередь геокодирования вакансий
const (
	QueueJobGeocoding    = "workify.jobs.geocoding"
	ConsumerTagGeocoding = "geocoding-worker"
)

// Ретраи геокодирования
const (
	RetryExchange      = "workify.jobs.geocoding.retry"
	RetryQueue         = "workify.jobs.geocoding.retry.wait"
	RetryTTLMillis     = 30000
	MaxRetries         = 3
	FinalDLXExchange   = "workify.jobs.geocoding.final_dlx"
	FinalDLQ           = "workify.jobs.geocoding.final_dlq"
	FinalDLQRoutingKey = "jobs.geocoding.dlq"
)

// Заголовки сообщений
const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
)
