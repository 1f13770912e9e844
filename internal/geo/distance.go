// Package geo holds the small amount of geospatial and clock math the tide
// planner needs: great-circle distance and the fixed daylight window.
package geo

import (
	"math"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

const (
	EarthRadiusMiles = 3959.0
	metersPerMile    = 1609.344
)

// Distance returns the great-circle distance in miles between a and b using
// the haversine formula. Coordinates are not validated.
func Distance(a, b models.Coordinate) float64 {
	lat1Rad := a.Latitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// BoundAround returns a lat/lon box that contains every point within miles of c.
// It is only a prefilter; callers still rank with Distance.
func BoundAround(c models.Coordinate, miles float64) orb.Bound {
	return orbgeo.NewBoundAroundPoint(orb.Point{c.Longitude, c.Latitude}, miles*metersPerMile)
}
