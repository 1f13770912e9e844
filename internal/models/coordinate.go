package models

import "fmt"

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within [-90,90] x [-180,180]
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// Station represents a NOAA tide prediction station
type Station struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	State    string     `json:"state,omitempty"`
	Location Coordinate `json:"location"`
}
