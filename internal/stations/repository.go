package stations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/paulmach/orb"
)

// ErrNotFound is returned when a station id is not in the directory
var ErrNotFound = errors.New("tide station not found")

// Repository reads the provisioned tide_stations table
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over an open database
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// All returns every known station ordered by id
func (r *Repository) All(ctx context.Context) ([]models.Station, error) {
	return r.query(ctx, `
		SELECT id, name, state, latitude, longitude
		FROM tide_stations
		ORDER BY id
	`)
}

// Within returns stations inside the bounding box b, ordered by id. The box is
// a coarse prefilter; it does not wrap across the antimeridian.
func (r *Repository) Within(ctx context.Context, b orb.Bound) ([]models.Station, error) {
	return r.query(ctx, `
		SELECT id, name, state, latitude, longitude
		FROM tide_stations
		WHERE latitude BETWEEN ? AND ?
		  AND longitude BETWEEN ? AND ?
		ORDER BY id
	`, b.Min.Lat(), b.Max.Lat(), b.Min.Lon(), b.Max.Lon())
}

// ByID retrieves a single tide station by its ID
func (r *Repository) ByID(ctx context.Context, stationID string) (models.Station, error) {
	var s models.Station
	var state sql.NullString

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, state, latitude, longitude FROM tide_stations WHERE id = ?",
		stationID,
	).Scan(&s.ID, &s.Name, &state, &s.Location.Latitude, &s.Location.Longitude)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Station{}, fmt.Errorf("%w: %s", ErrNotFound, stationID)
	}
	if err != nil {
		return models.Station{}, fmt.Errorf("querying tide station by ID: %w", err)
	}
	s.State = state.String
	return s, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]models.Station, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer rows.Close()

	stations := []models.Station{}
	for rows.Next() {
		var s models.Station
		var state sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &state, &s.Location.Latitude, &s.Location.Longitude); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		s.State = state.String
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading stations: %w", err)
	}
	return stations, nil
}
