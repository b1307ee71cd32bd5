package geo

import "math"

const (
	// PrimarySegments is the number of curve segments sampled for the full
	// flight detail view.
	PrimarySegments = 100
	// CompactSegments is used by the compact detail view.
	CompactSegments = 50
)

// curveTiers maps the degree-space distance of a route to the fraction of
// that distance by which the curve bows away from the straight line.
// Upper bounds are exclusive.
var curveTiers = []struct {
	below  float64
	factor float64
}{
	{3, 0.05},
	{8, 0.12},
	{20, 0.18},
	{40, 0.25},
	{80, 0.30},
	{math.Inf(1), 0.35},
}

// CurveMagnitude returns how far, in degrees, the control point of a route
// of the given degree-space length is offset from the route midpoint.
func CurveMagnitude(distance float64) float64 {
	if distance <= 0 || math.IsNaN(distance) {
		return 0
	}
	for _, tier := range curveTiers {
		if distance < tier.below {
			return tier.factor * distance
		}
	}
	return curveTiers[len(curveTiers)-1].factor * distance
}

// CurveDirection returns the side the route bows toward: -1 when the
// destination lies east of (or level with) the origin, +1 when it lies west.
func CurveDirection(from, to GeoPoint) float64 {
	if to.Lng < from.Lng {
		return 1
	}
	return -1
}

// ControlPoint returns the quadratic Bézier control point of the route from
// from to to. Coincident endpoints yield their midpoint, i.e. no curvature.
func ControlPoint(from, to GeoPoint) GeoPoint {
	delta := to.Sub(from)
	distance := delta.Length()
	mid := Midpoint(from, to)
	if distance == 0 {
		return mid
	}

	perp := delta.Scale(1 / distance).Perpendicular()
	offset := CurveMagnitude(distance) * CurveDirection(from, to)
	return mid.Add(perp.Scale(offset))
}

// RoutePath is the sampled curve between two airports. It is created once
// per flight and never modified afterwards; all accessors copy or clamp.
type RoutePath struct {
	points    []GeoPoint
	control   GeoPoint
	magnitude float64
	direction float64
}

// GeneratePath samples the route between from and to with PrimarySegments
// segments.
func GeneratePath(from, to GeoPoint) RoutePath {
	return GeneratePathN(from, to, PrimarySegments)
}

// GeneratePathN samples the route between from and to with n segments,
// returning n+1 points. The first point is exactly from and the last is
// exactly to.
func GeneratePathN(from, to GeoPoint, n int) RoutePath {
	if n < 1 {
		n = 1
	}
	points := make([]GeoPoint, n+1)

	distance := DegreeDistance(from, to)
	if distance == 0 {
		for i := range points {
			points[i] = from
		}
		return RoutePath{points: points, control: from, direction: CurveDirection(from, to)}
	}

	control := ControlPoint(from, to)
	for i := 0; i <= n; i++ {
		points[i] = quadraticBezier(float64(i)/float64(n), from, control, to)
	}
	points[0], points[n] = from, to

	return RoutePath{
		points:    points,
		control:   control,
		magnitude: CurveMagnitude(distance),
		direction: CurveDirection(from, to),
	}
}

func quadraticBezier(t float64, p0, p1, p2 GeoPoint) GeoPoint {
	u := 1 - t
	a, b, c := u*u, 2*u*t, t*t
	return GeoPoint{
		Lat: a*p0.Lat + b*p1.Lat + c*p2.Lat,
		Lng: a*p0.Lng + b*p1.Lng + c*p2.Lng,
	}
}

// Len returns the number of points on the path.
func (r RoutePath) Len() int {
	return len(r.points)
}

// Segments returns the number of curve segments, Len()-1.
func (r RoutePath) Segments() int {
	if len(r.points) == 0 {
		return 0
	}
	return len(r.points) - 1
}

// Empty reports whether the path has no points at all (the zero RoutePath).
func (r RoutePath) Empty() bool {
	return len(r.points) == 0
}

// At returns the point at index i, clamped to the valid index range.
func (r RoutePath) At(i int) GeoPoint {
	if len(r.points) == 0 {
		return GeoPoint{}
	}
	return r.points[Clamp(i, 0, len(r.points)-1)]
}

func (r RoutePath) First() GeoPoint { return r.At(0) }

func (r RoutePath) Last() GeoPoint { return r.At(len(r.points) - 1) }

// Points returns a copy of the sampled points.
func (r RoutePath) Points() []GeoPoint {
	return append([]GeoPoint(nil), r.points...)
}

// Prefix returns a copy of the points up to and including index i.
func (r RoutePath) Prefix(i int) []GeoPoint {
	if len(r.points) == 0 {
		return nil
	}
	i = Clamp(i, 0, len(r.points)-1)
	return append([]GeoPoint(nil), r.points[:i+1]...)
}

// Control returns the Bézier control point used to build the path.
func (r RoutePath) Control() GeoPoint { return r.control }

// Magnitude returns the offset of the control point from the route midpoint.
func (r RoutePath) Magnitude() float64 { return r.magnitude }

// Direction returns the sign of the curvature, see CurveDirection.
func (r RoutePath) Direction() float64 { return r.direction }

// IndexFor maps a completion fraction to the index of the path point the
// marker sits on: round((Len-1) * progress), clamped to the path.
func (r RoutePath) IndexFor(progress float64) int {
	if len(r.points) == 0 {
		return 0
	}
	if math.IsNaN(progress) {
		progress = 0
	}
	last := len(r.points) - 1
	return Clamp(int(math.Round(float64(last)*Clamp(progress, 0, 1))), 0, last)
}
