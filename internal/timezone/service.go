// Package timezone resolves the IANA zone of a station coordinate so that
// "today" can be shown in station-local time.
package timezone

import (
	"fmt"
	"sync"
	"time"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ringsaturn/tzf"
)

// Service provides timezone lookup functionality
type Service interface {
	GetTimezone(c models.Coordinate) (string, error)
	Location(c models.Coordinate) *time.Location
	Today(c models.Coordinate, now time.Time) models.Date
}

// service implements timezone lookup using tzf
type service struct {
	finder tzf.F
	mu     sync.RWMutex
}

var (
	instance *service
	once     sync.Once
	initErr  error
)

// NewService creates or returns the singleton timezone service.
// tzf.Finder holds its polygon data in memory, so it is built once.
func NewService() (Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &service{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// GetTimezone returns the IANA timezone name for the coordinate, such as
// "America/Los_Angeles"
func (s *service) GetTimezone(c models.Coordinate) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := s.finder.GetTimezoneName(c.Longitude, c.Latitude)
	if name == "" {
		return "", fmt.Errorf("could not determine timezone for %s", c)
	}
	return name, nil
}

// Location returns the station's zone, or time.Local when it cannot be resolved
func (s *service) Location(c models.Coordinate) *time.Location {
	name, err := s.GetTimezone(c)
	if err != nil {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// Today returns the calendar date at the coordinate at instant now
func (s *service) Today(c models.Coordinate, now time.Time) models.Date {
	return models.DateOf(now.In(s.Location(c)))
}

// Local is a Service that always answers with the process time zone. It is
// used when the tzf data cannot be loaded.
type Local struct{}

func (Local) GetTimezone(models.Coordinate) (string, error) { return time.Local.String(), nil }
func (Local) Location(models.Coordinate) *time.Location      { return time.Local }
func (Local) Today(_ models.Coordinate, now time.Time) models.Date {
	return models.DateOf(now.In(time.Local))
}
