package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DBconfig хранит конфигурацию для БД
type DBconfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
}

// RabbitMQConfig: пустой URL отключает обмен событиями
type RabbitMQConfig struct {
	URL string
}

func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

// RedisConfig: пустой URL отключает кэш геокодера
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool { return c.URL != "" }

type JWTConfig struct {
	SigningKey string
	Issuer     string
}

type StdoutLogConfig struct {
	Level  string
	Format string // text | json
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

type QuotaConfig struct {
	FreeApplications int
	FreeJobPostings  int
	WindowDays       int
}

type SearchConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	DefaultRadiusKm float64
}

type GeocoderConfig struct {
	BaseURL       string
	UserAgent     string
	Email         string
	Timeout       time.Duration
	RatePerSecond float64
}

type SchedulerConfig struct {
	SubscriptionSweepSpec string
}

type HTTPConfig struct {
	Port           string
	AllowedOrigins []string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	HTTP         HTTPConfig
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	Quota        QuotaConfig
	Search       SearchConfig
	Geocoder     GeocoderConfig
	Scheduler    SchedulerConfig
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: .env file not found (path: %v), using process environment.\n", envPath)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "workify")
	cfg.HTTP.Port = getEnvAsString("PORT", "8080")
	cfg.HTTP.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DB_MAX_CONNS", 10)
	cfg.Database.MinConns = getEnvAsInt("DB_MIN_CONNS", 1)
	cfg.Database.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour)

	cfg.JWT.SigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.JWT.SigningKey == "" {
		return nil, fmt.Errorf("JWT_SIGNING_KEY environment variable is required")
	}
	cfg.JWT.Issuer = getEnvAsString("JWT_ISSUER", "workify")

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Redis.CacheTTL = getEnvAsDuration("GEOCODE_CACHE_TTL", 30*24*time.Hour)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.Format = getEnvAsString("STDOUT_LOG_FORMAT", "text")

	cfg.Quota.FreeApplications = getEnvAsInt("QUOTA_FREE_APPLICATIONS", 1)
	cfg.Quota.FreeJobPostings = getEnvAsInt("QUOTA_FREE_JOB_POSTINGS", 3)
	cfg.Quota.WindowDays = getEnvAsInt("QUOTA_WINDOW_DAYS", 30)

	cfg.Search.DefaultPageSize = getEnvAsInt("SEARCH_DEFAULT_PAGE_SIZE", 10)
	cfg.Search.MaxPageSize = getEnvAsInt("SEARCH_MAX_PAGE_SIZE", 100)
	cfg.Search.DefaultRadiusKm = getEnvAsFloat("SEARCH_DEFAULT_RADIUS_KM", 50)

	cfg.Geocoder.BaseURL = getEnvAsString("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	cfg.Geocoder.UserAgent = getEnvAsString("GEOCODER_USER_AGENT", cfg.AppName+"/1.0")
	cfg.Geocoder.Email = os.Getenv("GEOCODER_EMAIL")
	cfg.Geocoder.Timeout = getEnvAsDuration("GEOCODER_TIMEOUT", 10*time.Second)
	cfg.Geocoder.RatePerSecond = getEnvAsFloat("GEOCODER_RATE_PER_SECOND", 1)

	cfg.Scheduler.SubscriptionSweepSpec = getEnvAsString("SUBSCRIPTION_SWEEP_SPEC", "@every 1h")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %v\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return v
}

// getEnvAsDuration понимает формат time.ParseDuration ("90s", "24h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return v
}

// getEnvAsList разбирает список через запятую
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
