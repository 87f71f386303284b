package proximity

import (
	"testing"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm_KnownCityPairs(t *testing.T) {
	tests := []struct {
		name     string
		a, b     domain.Location
		expectKm float64
	}{
		{"New York - Los Angeles", domain.MustLocation(40.7128, -74.0060), domain.MustLocation(34.0522, -118.2437), 3936},
		{"London - Paris", domain.MustLocation(51.5074, -0.1278), domain.MustLocation(48.8566, 2.3522), 343.5},
		{"Sydney - Melbourne", domain.MustLocation(-33.8688, 151.2093), domain.MustLocation(-37.8136, 144.9631), 713.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DistanceKm(tt.a, tt.b)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.expectKm, d, 0.01)
		})
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	points := []domain.Location{
		domain.MustLocation(40.7128, -74.0060),
		domain.MustLocation(34.0522, -118.2437),
		domain.MustLocation(-33.8688, 151.2093),
		domain.MustLocation(89.9, 179.9),
		domain.MustLocation(-89.9, -179.9),
		domain.MustLocation(0, 0),
	}

	for i, a := range points {
		for j, b := range points {
			ab, err := DistanceKm(a, b)
			require.NoError(t, err)
			ba, err := DistanceKm(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "points %d and %d", i, j)
			assert.GreaterOrEqual(t, ab, 0.0)
		}
	}
}

func TestDistanceKm_Identity(t *testing.T) {
	for _, loc := range []domain.Location{
		domain.MustLocation(0, 0),
		domain.MustLocation(52.52, 13.405),
		domain.MustLocation(-90, 180),
	} {
		d, err := DistanceKm(loc, loc)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)
	}
}

func TestDistanceKm_AntipodesBounded(t *testing.T) {
	d, err := DistanceKm(domain.MustLocation(0, 0), domain.MustLocation(0, 180))
	require.NoError(t, err)
	assert.InDelta(t, EarthRadiusKm*3.141592653589793, d, 1e-6)
}

func TestDistanceKm_Unresolved(t *testing.T) {
	lat := 10.0
	halfResolved, err := domain.NewLocation(&lat, nil, "Springfield", "12345")
	require.NoError(t, err)

	_, err = DistanceKm(halfResolved, origin())
	assert.ErrorIs(t, err, domain.ErrUnresolvedLocation)

	_, err = DistanceKm(origin(), domain.Location{PostalCode: "12345"})
	assert.ErrorIs(t, err, domain.ErrUnresolvedLocation)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 12.3, RoundKm(12.34))
	assert.Equal(t, 12.4, RoundKm(12.35))
	assert.Equal(t, 0.0, RoundKm(0.04))
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km     float64
		expect string
	}{
		{0, "0m"},
		{0.25, "250m"},
		{0.9999, "999m"},
		{1, "1.0km"},
		{3.24, "3.2km"},
		{9.94, "9.9km"},
		{10, "10km"},
		{42.9, "42km"},
		{-1, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, FormatDistance(tt.km), "km=%v", tt.km)
	}
}
