package geo

import (
	"fmt"
	"math"

	"bitbucket.org/crgw/booking-client/internal/schema"
)

// Haversine distance in meters
func Haversine(a, b schema.GeoPoint) float64 {
	const R = 6371000.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// FormatDistance renders meters for short distances and kilometers with one
// decimal beyond a kilometer.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}

	return fmt.Sprintf("%.1f km", meters/1000)
}

// Bounds is an axis-aligned box over coordinates.
type Bounds struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

func (b Bounds) Contains(p schema.GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// BoundsOf builds the smallest box covering all points. Returns false when
// no points are given.
func BoundsOf(points ...schema.GeoPoint) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	bounds := Bounds{
		MinLat: points[0].Lat,
		MinLng: points[0].Lng,
		MaxLat: points[0].Lat,
		MaxLng: points[0].Lng,
	}

	for _, p := range points[1:] {
		bounds.MinLat = math.Min(bounds.MinLat, p.Lat)
		bounds.MinLng = math.Min(bounds.MinLng, p.Lng)
		bounds.MaxLat = math.Max(bounds.MaxLat, p.Lat)
		bounds.MaxLng = math.Max(bounds.MaxLng, p.Lng)
	}

	return bounds, true
}
