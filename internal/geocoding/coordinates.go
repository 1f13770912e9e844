package geocoding

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
)

var coordinatePattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// CoordinateProvider accepts literal "lat, lon" queries
type CoordinateProvider struct{}

func (CoordinateProvider) Name() string { return "coordinates" }

func (CoordinateProvider) Geocode(_ context.Context, query string) (*Location, error) {
	m := coordinatePattern.FindStringSubmatch(query)
	if m == nil {
		return nil, ErrUnsupportedQuery
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, ErrUnsupportedQuery
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, ErrUnsupportedQuery
	}

	c := models.Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return nil, fmt.Errorf("%s is out of range: %w", c, ErrNotFound)
	}
	return &Location{Latitude: lat, Longitude: lon, Name: c.String()}, nil
}
