// Package geo provides great-circle distance math on a spherical-Earth
// approximation. Recreational travel distances do not warrant an ellipsoidal
// model, so the haversine is used throughout.
package geo

import "github.com/golang/geo/s2"

const (
	// EarthRadiusMeters is Earth's mean radius in meters.
	EarthRadiusMeters = 6371000.0
	// EarthRadiusKm is Earth's mean radius in kilometers.
	EarthRadiusKm = 6371.0
)

// HaversineMeters calculates the great-circle distance between two points in
// meters using the Haversine formula.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// HaversineKm calculates the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineMeters(lat1, lon1, lat2, lon2) / 1000.0
}
