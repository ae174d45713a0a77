package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curtishsu/travelog/internal/geo"
)

func TestHaversine_ZeroDistance(t *testing.T) {
	assert.Equal(t, 0.0, geo.HaversineKm(48.8566, 2.3522, 48.8566, 2.3522))
}

func TestHaversine_OneDegreeLongitudeAtEquator(t *testing.T) {
	// Reference value for 1° of longitude on the equator.
	got := geo.HaversineKm(0, 0, 0, 1)
	assert.InDelta(t, 111.19, got, 0.05)
}

func TestHaversine_Symmetric(t *testing.T) {
	ab := geo.HaversineMeters(35.6762, 139.6503, 37.5665, 126.9780)
	ba := geo.HaversineMeters(37.5665, 126.9780, 35.6762, 139.6503)
	assert.InDelta(t, ab, ba, 1e-6)
}
