// Package app wires configuration, storage and the NOAA clients into a
// planner shared by the terminal UI and the JSON API.
package app

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/ngmaloney/tidepool-terminal/internal/config"
	"github.com/ngmaloney/tidepool-terminal/internal/database"
	"github.com/ngmaloney/tidepool-terminal/internal/geocoding"
	"github.com/ngmaloney/tidepool-terminal/internal/noaa"
	"github.com/ngmaloney/tidepool-terminal/internal/planner"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
	"github.com/ngmaloney/tidepool-terminal/internal/timezone"
	"github.com/rs/zerolog"
)

// App encapsulates application dependencies
type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	DB          *sql.DB
	Planner     *planner.Service
	Provisioner *planner.DataProvisioner
}

// New opens the database and builds the planner from cfg
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	db, err := database.Open(cfg.Data.DBPath)
	if err != nil {
		return nil, err
	}

	provisioner := planner.NewDataProvisioner(db).
		Add("tide_stations", stations.NewProvisioner(cfg.NOAA.MetadataAPIURL, logger)).
		Add("zipcodes", geocoding.NewZipcodeProvisioner("", logger))

	geocoder, err := newGeocoder(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	zones, err := timezone.NewService()
	if err != nil {
		logger.Warn().Err(err).Msg("timezone lookup unavailable, using the local time zone")
		zones = timezone.Local{}
	}

	svc := planner.NewService(
		geocoder,
		stations.NewRepository(db),
		noaa.NewTideClient(cfg.NOAA.DataGetterURL, cfg.NOAA.Application, logger),
		zones,
		planner.Options{
			StationLimit: cfg.Search.StationLimit,
			RadiusMiles:  cfg.Search.RadiusMiles,
			Days:         cfg.Tides.Days,
		},
		logger,
	)

	logger.Info().Str("db", cfg.Data.DBPath).Msg("application initialized")

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Planner:     svc,
		Provisioner: provisioner,
	}, nil
}

// newGeocoder chains the providers from most to least specific. Google is
// only tried when an API key is configured.
func newGeocoder(cfg *config.Config, db *sql.DB, logger zerolog.Logger) (*geocoding.Geocoder, error) {
	providers := []geocoding.Provider{
		geocoding.CoordinateProvider{},
		geocoding.NewZipcodeProvider(db),
	}
	if key := cfg.Geocoding.GoogleAPIKey; key != "" {
		google, err := geocoding.NewGoogleProvider(key, "")
		if err != nil {
			return nil, fmt.Errorf("configuring Google geocoding: %w", err)
		}
		providers = append(providers, google)
	}
	providers = append(providers, geocoding.NewNominatimProvider(""))
	return geocoding.NewGeocoder(logger, providers...), nil
}

// Close releases the database and any extra closers, such as a log file
func (a *App) Close(extra ...io.Closer) error {
	var result error
	if err := a.DB.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing database: %w", err))
	}
	for _, c := range extra {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
