package geo

import (
	"math"

	"churchmap/internal/domain/entities"
)

const (
	EarthRadiusKm = 6371.0
	earthRadiusM  = EarthRadiusKm * 1000
)

// Distance returns the great-circle distance between a and b in meters.
//
// Go Learning Note — Haversine:
// The haversine formula stays numerically stable for the short distances a
// church search deals with (tens of meters to a few kilometers), where the
// plain spherical law of cosines loses precision.
func Distance(a, b entities.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// DistanceKm is Distance in kilometers.
func DistanceKm(a, b entities.Location) float64 {
	return Distance(a, b) / 1000
}
