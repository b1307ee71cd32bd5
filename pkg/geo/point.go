package geo

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// GeoPoint is a latitude/longitude pair in decimal degrees. The same type
// doubles as a 2D vector in degree space (Lat is the first component, Lng
// the second) for the route arithmetic below.
type GeoPoint struct {
	Lat float64 `json:"lat" msgpack:"lat"`
	Lng float64 `json:"lng" msgpack:"lng"`
}

// Pt is shorthand for GeoPoint{Lat: lat, Lng: lng}.
func Pt(lat, lng float64) GeoPoint {
	return GeoPoint{Lat: lat, Lng: lng}
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", p.Lat, p.Lng)
}

// IsValid returns true if the coordinates are within valid ranges.
// Latitude must be between -90 and 90, longitude between -180 and 180.
func (p GeoPoint) IsValid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lng)
}

// IsZero returns true if both coordinates are zero (likely unset).
func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

func (p GeoPoint) Add(q GeoPoint) GeoPoint {
	return GeoPoint{Lat: p.Lat + q.Lat, Lng: p.Lng + q.Lng}
}

func (p GeoPoint) Sub(q GeoPoint) GeoPoint {
	return GeoPoint{Lat: p.Lat - q.Lat, Lng: p.Lng - q.Lng}
}

func (p GeoPoint) Scale(s float64) GeoPoint {
	return GeoPoint{Lat: p.Lat * s, Lng: p.Lng * s}
}

// Length is the euclidean norm of p in degree space.
func (p GeoPoint) Length() float64 {
	return math.Sqrt(Sqr(p.Lat) + Sqr(p.Lng))
}

// Normalize returns p scaled to unit length. The zero vector is returned
// unchanged.
func (p GeoPoint) Normalize() GeoPoint {
	l := p.Length()
	if l == 0 {
		return p
	}
	return p.Scale(1 / l)
}

// Perpendicular rotates p by 90 degrees counter-clockwise in the
// (Lat, Lng) plane.
func (p GeoPoint) Perpendicular() GeoPoint {
	return GeoPoint{Lat: -p.Lng, Lng: p.Lat}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b GeoPoint) GeoPoint {
	return GeoPoint{Lat: (a.Lat + b.Lat) / 2, Lng: (a.Lng + b.Lng) / 2}
}

// LerpPoint linearly interpolates between a and b.
func LerpPoint(t float64, a, b GeoPoint) GeoPoint {
	return GeoPoint{Lat: Lerp(t, a.Lat, b.Lat), Lng: Lerp(t, a.Lng, b.Lng)}
}

func Radians(d float64) float64 {
	return d * math.Pi / 180
}

func Degrees(r float64) float64 {
	return r * 180 / math.Pi
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}
