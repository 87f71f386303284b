package redis_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix       = "workify:geocode:"
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// GeocodeCacheAdapter хранит ответы геокодера в Redis под нормализованным адресом
type GeocodeCacheAdapter struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ port.GeocodeCachePort = (*GeocodeCacheAdapter)(nil)

func NewGeocodeCacheAdapter(client redis.Cmdable, ttl time.Duration) (*GeocodeCacheAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis adapter: client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &GeocodeCacheAdapter{client: client, ttl: ttl}, nil
}

type cachedResult struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
}

// cacheKey: регистр и повторяющиеся пробелы не влияют на ключ
func cacheKey(address string) string {
	return keyPrefix + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (a *GeocodeCacheAdapter) Get(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	raw, err := a.client.Get(ctx, cacheKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrGeocodeCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis adapter: get: %w", err)
	}

	var cached cachedResult
	if err := json.Unmarshal(raw, &cached); err != nil {
		// испорченная запись равносильна промаху
		return nil, domain.ErrGeocodeCacheMiss
	}
	return &domain.GeocodeResult{
		Latitude:    cached.Latitude,
		Longitude:   cached.Longitude,
		DisplayName: cached.DisplayName,
		PostalCode:  cached.PostalCode,
	}, nil
}

func (a *GeocodeCacheAdapter) Set(ctx context.Context, address string, result domain.GeocodeResult) error {
	raw, err := json.Marshal(cachedResult{
		Latitude:    result.Latitude,
		Longitude:   result.Longitude,
		DisplayName: result.DisplayName,
		PostalCode:  result.PostalCode,
	})
	if err != nil {
		return fmt.Errorf("redis adapter: marshal: %w", err)
	}
	if err := a.client.Set(ctx, cacheKey(address), raw, a.ttl).Err(); err != nil {
		return fmt.Errorf("redis adapter: set: %w", err)
	}
	return nil
}
