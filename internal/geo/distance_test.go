package geo

import (
	"testing"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	boston  = models.Coordinate{Latitude: 42.36, Longitude: -71.06}
	newYork = models.Coordinate{Latitude: 40.71, Longitude: -74.01}
	seattle = models.Coordinate{Latitude: 47.6062, Longitude: -122.3321}
)

func TestDistance_Identity(t *testing.T) {
	for _, c := range []models.Coordinate{boston, newYork, seattle, {}, {Latitude: -89.9, Longitude: 179.9}} {
		assert.Equal(t, 0.0, Distance(c, c), "distance from %v to itself", c)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{boston, newYork},
		{newYork, seattle},
		{seattle, {Latitude: -33.86, Longitude: 151.21}},
	}
	for _, p := range pairs {
		assert.InDelta(t, Distance(p[0], p[1]), Distance(p[1], p[0]), 1e-9)
	}
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
		want float64
	}{
		{"boston to new york", boston, newYork, 190.45},
		{"one degree of latitude", models.Coordinate{}, models.Coordinate{Latitude: 1}, 69.1},
		{"antipodes", models.Coordinate{}, models.Coordinate{Longitude: 180}, 12437.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), 1.0)
		})
	}
}

func TestBoundAround_ContainsRadius(t *testing.T) {
	b := BoundAround(boston, 50)

	assert.True(t, b.Min.Lat() < boston.Latitude && boston.Latitude < b.Max.Lat())
	assert.True(t, b.Min.Lon() < boston.Longitude && boston.Longitude < b.Max.Lon())

	// a point ~40 miles due north must fall inside the box
	north := models.Coordinate{Latitude: boston.Latitude + 40/69.1, Longitude: boston.Longitude}
	assert.Less(t, north.Latitude, b.Max.Lat())
	assert.Less(t, Distance(boston, north), 50.0)
}
