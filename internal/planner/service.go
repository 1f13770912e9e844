// Package planner ties geocoding, the station directory, NOAA predictions and
// the tide-pool filter together for the terminal UI and the JSON API.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ngmaloney/tidepool-terminal/internal/geo"
	"github.com/ngmaloney/tidepool-terminal/internal/geocoding"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/noaa"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
	"github.com/ngmaloney/tidepool-terminal/internal/tides"
	"github.com/ngmaloney/tidepool-terminal/internal/timezone"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
)

// Geocoder resolves a free-form location query
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*geocoding.Location, error)
}

// StationStore is the station directory
type StationStore interface {
	All(ctx context.Context) ([]models.Station, error)
	Within(ctx context.Context, b orb.Bound) ([]models.Station, error)
	ByID(ctx context.Context, stationID string) (models.Station, error)
}

// Options tunes the search and prediction window
type Options struct {
	StationLimit int
	RadiusMiles  float64 // 0 ranks every station in the directory
	Days         int
}

// TideCalendar is a year of aggregated predictions for one station
type TideCalendar struct {
	Station  models.Station
	Days     []models.DaySummary
	Skipped  int
	Location *time.Location
	Today    models.Date
}

// Day returns the summary for date, if predictions exist for it
func (c *TideCalendar) Day(date models.Date) (models.DaySummary, bool) {
	return tides.Find(c.Days, date)
}

// GoodDays returns the dates that pass settings
func (c *TideCalendar) GoodDays(settings models.FilterSettings) []models.Date {
	return tides.GoodDays(c.Days, settings)
}

// Service orchestrates planner operations
type Service struct {
	geocoder Geocoder
	stations StationStore
	tides    noaa.TideClient
	zones    timezone.Service
	opts     Options
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new planner service. A zero StationLimit or Days falls
// back to stations.DefaultLimit and 365.
func NewService(geocoder Geocoder, store StationStore, tideClient noaa.TideClient, zones timezone.Service, opts Options, logger zerolog.Logger) *Service {
	if opts.StationLimit == 0 {
		opts.StationLimit = stations.DefaultLimit
	}
	if opts.Days == 0 {
		opts.Days = 365
	}
	if zones == nil {
		zones = timezone.Local{}
	}
	return &Service{
		geocoder: geocoder,
		stations: store,
		tides:    tideClient,
		zones:    zones,
		opts:     opts,
		logger:   logger.With().Str("component", "planner").Logger(),
		now:      time.Now,
	}
}

// Locate geocodes a user query
func (s *Service) Locate(ctx context.Context, query string) (*geocoding.Location, error) {
	loc, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	return loc, nil
}

// NearestStations ranks directory stations by distance from coord and returns
// the configured number of closest ones. An empty directory yields no matches.
func (s *Service) NearestStations(ctx context.Context, coord models.Coordinate) ([]stations.Match, error) {
	return s.NearestStationsN(ctx, coord, s.opts.StationLimit)
}

// NearestStationsN is NearestStations with an explicit limit
func (s *Service) NearestStationsN(ctx context.Context, coord models.Coordinate, limit int) ([]stations.Match, error) {
	var (
		candidates []models.Station
		err        error
	)
	if s.opts.RadiusMiles > 0 {
		candidates, err = s.stations.Within(ctx, geo.BoundAround(coord, s.opts.RadiusMiles))
	} else {
		candidates, err = s.stations.All(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("loading tide stations: %w", err)
	}

	matches := stations.Nearest(coord, candidates, limit)
	if s.opts.RadiusMiles > 0 {
		// The bounding box corners reach beyond the radius
		kept := matches[:0]
		for _, m := range matches {
			if m.DistanceMiles <= s.opts.RadiusMiles {
				kept = append(kept, m)
			}
		}
		matches = kept
	}

	s.logger.Debug().
		Stringer("coord", coord).
		Int("candidates", len(candidates)).
		Int("matches", len(matches)).
		Msg("ranked stations")
	return matches, nil
}

// Zone returns the time zone used for the station's calendar
func (s *Service) Zone(coord models.Coordinate) *time.Location {
	return s.zones.Location(coord)
}

// LoadDays fetches predictions for stationID starting at from (station-local
// today when from is zero) and aggregates them into day summaries.
func (s *Service) LoadDays(ctx context.Context, stationID string, from models.Date) (*TideCalendar, error) {
	station, err := s.stations.ByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	loc := s.zones.Location(station.Location)
	today := models.DateOf(s.now().In(loc))
	if from.IsZero() {
		from = today
	}
	end := from.AddDays(s.opts.Days)

	preds, err := s.tides.GetTidePredictions(ctx, station.ID, from, end)
	if err != nil {
		return nil, fmt.Errorf("fetching predictions for %s: %w", station.ID, err)
	}
	if station.Name == "" {
		station.Name = preds.StationName
	}

	days := tides.Aggregate(preds.Samples)
	s.logger.Info().
		Str("station", station.ID).
		Int("samples", len(preds.Samples)).
		Int("skipped", preds.Skipped).
		Int("days", len(days)).
		Msg("loaded tide predictions")

	return &TideCalendar{
		Station:  station,
		Days:     days,
		Skipped:  preds.Skipped,
		Location: loc,
		Today:    today,
	}, nil
}

// IsNotFound reports whether err means a station or location does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, stations.ErrNotFound) || errors.Is(err, geocoding.ErrNotFound)
}
