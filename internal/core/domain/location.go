package domain

import (
	"fmt"
	"math"
	"strings"
)

// Location - точка WGS84 в десятичных градусах с необязательным названием и индексом.
// Координаты nil, если адрес еще не геокодирован.
type Location struct {
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	PlaceName  string   `json:"place_name,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
}

// NewLocation проверяет диапазоны координат и собирает Location.
// Одна координата без другой допустима, но такая точка считается неразрешенной.
func NewLocation(lat, lon *float64, placeName, postalCode string) (Location, error) {
	if lat != nil && !inRange(*lat, 90) {
		return Location{}, fmt.Errorf("%w: latitude %v not in [-90, 90]", ErrInvalidCoordinate, *lat)
	}
	if lon != nil && !inRange(*lon, 180) {
		return Location{}, fmt.Errorf("%w: longitude %v not in [-180, 180]", ErrInvalidCoordinate, *lon)
	}
	return Location{
		Latitude:   lat,
		Longitude:  lon,
		PlaceName:  strings.TrimSpace(placeName),
		PostalCode: NormalizePostalCode(postalCode),
	}, nil
}

// inRange отвергает NaN и бесконечности
func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

// MustLocation - обертка для статичных данных и тестов.
func MustLocation(lat, lon float64) Location {
	loc, err := NewLocation(&lat, &lon, "", "")
	if err != nil {
		panic(err)
	}
	return loc
}

// IsResolved - обе координаты присутствуют.
func (l Location) IsResolved() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Coordinates возвращает координаты, если точка разрешена.
func (l Location) Coordinates() (lat, lon float64, ok bool) {
	if !l.IsResolved() {
		return 0, 0, false
	}
	return *l.Latitude, *l.Longitude, true
}

// HasPostalCode сообщает, задан ли индекс.
func (l Location) HasPostalCode() bool {
	return l.PostalCode != ""
}

// NormalizePostalCode убирает пробелы по краям и приводит к верхнему регистру.
func NormalizePostalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Address - строка для геокодера: название места и индекс через запятую.
func (l Location) Address() string {
	parts := make([]string, 0, 2)
	if p := strings.TrimSpace(l.PlaceName); p != "" {
		parts = append(parts, p)
	}
	if l.PostalCode != "" {
		parts = append(parts, l.PostalCode)
	}
	return strings.Join(parts, ", ")
}
