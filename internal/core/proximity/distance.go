package proximity

import (
	"fmt"
	"math"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

// EarthRadiusKm - средний радиус Земли. Модель сферическая, расхождение с
// эллипсоидом до ~0.5%, это принятое приближение.
const EarthRadiusKm = 6371.0

// DistanceKm - расстояние по дуге большого круга (Haversine) в километрах.
// Если у любой из точек нет координат, возвращает domain.ErrUnresolvedLocation.
func DistanceKm(a, b domain.Location) (float64, error) {
	lat1, lon1, ok := a.Coordinates()
	if !ok {
		return 0, fmt.Errorf("first point: %w", domain.ErrUnresolvedLocation)
	}
	lat2, lon2, ok := b.Coordinates()
	if !ok {
		return 0, fmt.Errorf("second point: %w", domain.ErrUnresolvedLocation)
	}
	return haversineKm(lat1, lon1, lat2, lon2), nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// погрешности округления могут вывести h чуть за 1
	if h > 1 {
		h = 1
	}
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RoundKm округляет до 0.1 км, как расстояния показываются пользователю.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// FormatDistance: метры до 1 км, один знак после запятой до 10 км, дальше целые км.
func FormatDistance(km float64) string {
	switch {
	case km < 0 || math.IsNaN(km) || math.IsInf(km, 0):
		return "unknown"
	case km < 1:
		return fmt.Sprintf("%dm", int(km*1000))
	case km < 10:
		return fmt.Sprintf("%.1fkm", km)
	default:
		return fmt.Sprintf("%dkm", int(km))
	}
}
