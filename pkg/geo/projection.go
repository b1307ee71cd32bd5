package geo

import "math"

// Size is a viewport size in pixels.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PixelPoint is a screen position with (0, 0) at the top-left corner.
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project maps point linearly into a w×h pixel viewport showing the given
// region. Latitude is inverted since screen y grows downward. No clipping
// is done; points outside the region land off-screen.
func Project(point GeoPoint, viewport ViewportRegion, size Size) PixelPoint {
	// Written relative to the center so that the center maps to exactly
	// (w/2, h/2).
	fx := (point.Lng-viewport.Center.Lng)/viewport.LngSpan + 0.5
	fy := (viewport.Center.Lat-point.Lat)/viewport.LatSpan + 0.5
	return PixelPoint{X: fx * size.W, Y: fy * size.H}
}

// Unproject is the inverse of Project.
func Unproject(p PixelPoint, viewport ViewportRegion, size Size) GeoPoint {
	if size.W == 0 || size.H == 0 {
		return viewport.Center
	}
	return GeoPoint{
		Lat: viewport.Center.Lat - (p.Y/size.H-0.5)*viewport.LatSpan,
		Lng: viewport.Center.Lng + (p.X/size.W-0.5)*viewport.LngSpan,
	}
}

// OnScreen reports whether p falls inside a w×h viewport.
func OnScreen(p PixelPoint, size Size) bool {
	return p.X >= 0 && p.X <= size.W && p.Y >= 0 && p.Y <= size.H
}

// Heading returns the marker rotation, in degrees, for travel from before
// to after: atan2(Δlng, Δlat), so 0 points north and 90 east.
func Heading(before, after GeoPoint) float64 {
	return Degrees(math.Atan2(after.Lng-before.Lng, after.Lat-before.Lat))
}

// NormalizeHeading maps h into [0, 360).
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HeadingAt returns the heading of the path at index i using the points
// immediately surrounding it. At either end only one neighbour exists and
// the one-sided difference is used. When the neighbours coincide the
// straight-line heading from the first to the last point is returned.
func (r RoutePath) HeadingAt(i int) float64 {
	n := len(r.points)
	if n < 2 {
		return 0
	}
	i = Clamp(i, 0, n-1)
	before, after := r.points[Clamp(i-1, 0, n-1)], r.points[Clamp(i+1, 0, n-1)]
	if before == after {
		return Heading(r.First(), r.Last())
	}
	return Heading(before, after)
}
