package geo

import "math"

// MinSpan is the smallest latitude or longitude span a viewport may have.
const MinSpan = 0.05

// ViewportRegion is the visible map window: a center coordinate plus the
// latitude and longitude spans, in degrees. Spans are always strictly
// positive; viewports are replaced wholesale rather than edited.
type ViewportRegion struct {
	Center  GeoPoint `json:"center"`
	LatSpan float64  `json:"lat_span"`
	LngSpan float64  `json:"lng_span"`
}

// NewViewport returns a viewport with spans floored at MinSpan.
func NewViewport(center GeoPoint, latSpan, lngSpan float64) ViewportRegion {
	return ViewportRegion{
		Center:  center,
		LatSpan: positiveSpan(latSpan),
		LngSpan: positiveSpan(lngSpan),
	}
}

func positiveSpan(s float64) float64 {
	if math.IsNaN(s) || s < MinSpan {
		return MinSpan
	}
	return s
}

// Cover returns the smallest viewport containing all the given points.
func Cover(points ...GeoPoint) ViewportRegion {
	if len(points) == 0 {
		return NewViewport(GeoPoint{}, MinSpan, MinSpan)
	}
	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points[1:] {
		minLat, maxLat = math.Min(minLat, p.Lat), math.Max(maxLat, p.Lat)
		minLng, maxLng = math.Min(minLng, p.Lng), math.Max(maxLng, p.Lng)
	}
	return NewViewport(Pt((minLat+maxLat)/2, (minLng+maxLng)/2), maxLat-minLat, maxLng-minLng)
}

// Widen scales both spans by factor around the same center.
func (v ViewportRegion) Widen(factor float64) ViewportRegion {
	return NewViewport(v.Center, v.LatSpan*factor, v.LngSpan*factor)
}

// Pad grows both spans by the given fraction on each side.
func (v ViewportRegion) Pad(fraction float64) ViewportRegion {
	return v.Widen(1 + 2*fraction)
}

// ReserveBottom enlarges the latitude span so that the original region fits
// in the upper (1-fraction) of the screen, leaving the bottom fraction for
// an overlapping panel. The center moves south accordingly.
func (v ViewportRegion) ReserveBottom(fraction float64) ViewportRegion {
	if fraction <= 0 {
		return v
	}
	fraction = math.Min(fraction, 0.9)
	latSpan := v.LatSpan / (1 - fraction)
	center := Pt(v.Center.Lat-(latSpan-v.LatSpan)/2, v.Center.Lng)
	return NewViewport(center, latSpan, v.LngSpan)
}

// LerpViewport interpolates centers and spans between a and b.
func LerpViewport(t float64, a, b ViewportRegion) ViewportRegion {
	t = Clamp(t, 0, 1)
	return NewViewport(LerpPoint(t, a.Center, b.Center),
		Lerp(t, a.LatSpan, b.LatSpan), Lerp(t, a.LngSpan, b.LngSpan))
}

// FitRoute returns the tightly fitted region around a route: both endpoints
// padded by padding, with the bottom panel fraction reserved.
func FitRoute(from, to GeoPoint, padding, bottomPanel float64) ViewportRegion {
	return Cover(from, to).Pad(padding).ReserveBottom(bottomPanel)
}
