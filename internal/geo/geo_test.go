package geo_test

import (
	"testing"

	"bitbucket.org/crgw/booking-client/internal/geo"
	"bitbucket.org/crgw/booking-client/internal/schema"
	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		p := schema.GeoPoint{Lat: 37.7749, Lng: -122.4194}
		assert.Equal(t, 0.0, geo.Haversine(p, p))
	})

	t.Run("one degree of latitude is close to 111 km", func(t *testing.T) {
		a := schema.GeoPoint{Lat: 0, Lng: 0}
		b := schema.GeoPoint{Lat: 1, Lng: 0}

		assert.InDelta(t, 111195, geo.Haversine(a, b), 200)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := schema.GeoPoint{Lat: 37.7749, Lng: -122.4194}
		b := schema.GeoPoint{Lat: 37.8044, Lng: -122.2712}

		assert.Equal(t, geo.Haversine(a, b), geo.Haversine(b, a))
	})
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		expected string
	}{
		{"meters under a kilometer", 432.4, "432 m"},
		{"kilometers with one decimal", 1250, "1.2 km"},
		{"exactly a kilometer", 1000, "1.0 km"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, geo.FormatDistance(test.meters))
		})
	}
}

func TestBounds(t *testing.T) {
	t.Run("covers all points", func(t *testing.T) {
		bounds, ok := geo.BoundsOf(
			schema.GeoPoint{Lat: 1, Lng: 4},
			schema.GeoPoint{Lat: -2, Lng: 8},
			schema.GeoPoint{Lat: 3, Lng: -1},
		)

		assert.True(t, ok)
		assert.Equal(t, geo.Bounds{MinLat: -2, MinLng: -1, MaxLat: 3, MaxLng: 8}, bounds)
	})

	t.Run("no points means no box", func(t *testing.T) {
		_, ok := geo.BoundsOf()
		assert.False(t, ok)
	})

	t.Run("contains is inclusive of edges", func(t *testing.T) {
		bounds := geo.Bounds{MinLat: 0, MinLng: 0, MaxLat: 2, MaxLng: 2}

		assert.True(t, bounds.Contains(schema.GeoPoint{Lat: 1, Lng: 1}))
		assert.True(t, bounds.Contains(schema.GeoPoint{Lat: 0, Lng: 2}))
		assert.False(t, bounds.Contains(schema.GeoPoint{Lat: 3, Lng: 1}))
	})
}
