package schema

import "fmt"

// GeoPoint is an immutable coordinate pair. Points are either user-picked or
// server-reported, so comparison is exact equality with no tolerance.
type GeoPoint struct {
	Lat float64
	Lng float64
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}
