// Package geo provides the planar route geometry used to draw a flight on a
// map: geographic points, viewport regions, the curved route between two
// airports and the projection of coordinates into pixel space. Great-circle
// distances are kept for display only; the drawn curve is a stylised
// quadratic approximation.
package geo

import "math"

const (
	// EarthRadiusMiles is the mean radius of Earth in miles.
	EarthRadiusMiles = 3958.8
	// EarthRadiusKm is the mean radius of Earth in kilometers.
	EarthRadiusKm = 6371.0
)

// Haversine calculates the great-circle distance between two points
// on Earth given their latitude and longitude in decimal degrees.
// Returns the distance in miles.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineWithRadius(lat1, lon1, lat2, lon2, EarthRadiusMiles)
}

// HaversineKm calculates the great-circle distance in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineWithRadius(lat1, lon1, lat2, lon2, EarthRadiusKm)
}

// HaversineWithRadius calculates the great-circle distance using a custom radius.
func HaversineWithRadius(lat1, lon1, lat2, lon2, radius float64) float64 {
	lat1Rad := Radians(lat1)
	lat2Rad := Radians(lat2)
	deltaLat := Radians(lat2 - lat1)
	deltaLon := Radians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}

// DistanceMiles returns the great-circle distance in miles between two points.
func DistanceMiles(from, to GeoPoint) float64 {
	return Haversine(from.Lat, from.Lng, to.Lat, to.Lng)
}

// DistanceKm returns the great-circle distance in kilometers between two points.
func DistanceKm(from, to GeoPoint) float64 {
	return HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng)
}

// DegreeDistance is the planar length of the straight segment between two
// points measured in degree space. It drives the curvature tiers of the
// route arc and is not a navigational distance.
func DegreeDistance(from, to GeoPoint) float64 {
	return to.Sub(from).Length()
}
