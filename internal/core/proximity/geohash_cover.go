package proximity

import (
	"math"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/mmcloughlin/geohash"
)

const (
	kmPerDegree = EarthRadiusKm * math.Pi / 180
	// запас на погрешность сферической модели
	coverMargin      = 1.02
	maxCoverLatitude = 80.0
	maxGeohashChars  = 9
)

// CoverRadius возвращает префиксы geohash (ячейка центра плюс 8 соседей),
// покрывающие круг радиуса radiusKm. Подбирается самая мелкая точность, при
// которой ячейка не меньше радиуса по обеим осям.
//
// nil означает "подсказки нет": центр не разрешен, радиус не задан или слишком велик,
// либо блок 3x3 пересекает антимеридиан или полюс.
// Префиксы только сужают выборку в хранилище, точный фильтр делает Filter.
func CoverRadius(center domain.Location, radiusKm float64) []string {
	lat, lon, ok := center.Coordinates()
	if !ok || radiusKm <= 0 || math.IsInf(radiusKm, 0) || math.IsNaN(radiusKm) {
		return nil
	}

	dLat := radiusKm * coverMargin / kmPerDegree
	edgeLat := math.Abs(lat) + dLat
	if edgeLat >= maxCoverLatitude {
		return nil
	}
	dLon := radiusKm * coverMargin / (kmPerDegree * math.Cos(toRadians(edgeLat)))

	for chars := uint(maxGeohashChars); chars >= 1; chars-- {
		hash := geohash.EncodeWithPrecision(lat, lon, chars)
		box := geohash.BoundingBox(hash)
		height := box.MaxLat - box.MinLat
		width := box.MaxLng - box.MinLng
		if height < dLat || width < dLon {
			continue
		}
		// одна ячейка первого уровня с соседями это почти полушарие
		if chars == 1 {
			return nil
		}
		if box.MinLat-height < -90 || box.MaxLat+height > 90 ||
			box.MinLng-width < -180 || box.MaxLng+width > 180 {
			return nil
		}
		return append([]string{hash}, geohash.Neighbors(hash)...)
	}
	return nil
}
