package port

import (
	"context"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

// GeocoderPort превращает адрес в координаты.
// Если адрес не найден, возвращает domain.ErrGeocodeNotFound.
type GeocoderPort interface {
	Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error)
}

// GeocodeCachePort кэширует ответы геокодера. Промах - domain.ErrGeocodeCacheMiss.
type GeocodeCachePort interface {
	Get(ctx context.Context, address string) (*domain.GeocodeResult, error)
	Set(ctx context.Context, address string, result domain.GeocodeResult) error
}
