package stations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ngmaloney/tidepool-terminal/internal/database"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/rs/zerolog"
)

// DefaultMetadataURL is the NOAA CO-OPS metadata API
const DefaultMetadataURL = "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi"

const stationsTable = "tide_stations"

var provisionMu sync.Mutex

// stationRecord is one entry of the MDAPI stations listing. Coordinates arrive
// as JSON numbers from some endpoints and as strings from others.
type stationRecord struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	State string          `json:"state"`
	Lat   json.RawMessage `json:"lat"`
	Lng   json.RawMessage `json:"lng"`
}

type stationResponse struct {
	Stations []stationRecord `json:"stations"`
}

// Provisioner downloads the NOAA tide prediction station directory into SQLite
type Provisioner struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewProvisioner creates a provisioner against baseURL (DefaultMetadataURL when empty)
func NewProvisioner(baseURL string, logger zerolog.Logger) *Provisioner {
	if baseURL == "" {
		baseURL = DefaultMetadataURL
	}
	return &Provisioner{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "stations").Logger(),
	}
}

// NeedsProvisioning checks if the tide stations table is missing
func NeedsProvisioning(db *sql.DB) (bool, error) {
	exists, err := database.TableExists(db, stationsTable)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Provision fetches every tide prediction station and stores it in db. It is a
// no-op when the table already exists. Progress messages are sent on progress
// when it is non-nil.
func (p *Provisioner) Provision(ctx context.Context, db *sql.DB, progress chan<- string) error {
	provisionMu.Lock()
	defer provisionMu.Unlock()

	needs, err := NeedsProvisioning(db)
	if err != nil {
		return err
	}
	if !needs {
		return nil
	}

	sendProgress := func(msg string) {
		p.logger.Info().Msg(msg)
		if progress != nil {
			progress <- msg
		}
	}

	sendProgress("Downloading tide station directory from NOAA...")
	stations, skipped, err := p.fetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetching all tide stations: %w", err)
	}
	if skipped > 0 {
		p.logger.Warn().Int("skipped", skipped).Msg("skipped malformed station records")
	}

	sendProgress("Building tide stations database...")
	count, err := buildStationsTable(db, stations)
	if err != nil {
		return fmt.Errorf("building database: %w", err)
	}

	sendProgress(fmt.Sprintf("Stored %d tide stations", count))
	return nil
}

// fetchAll downloads the station listing, returning well-formed stations and
// the number of records that had to be skipped.
func (p *Provisioner) fetchAll(ctx context.Context) ([]models.Station, int, error) {
	apiURL := fmt.Sprintf("%s/stations.json?type=tidepredictions&units=english", p.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching stations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("NOAA MDAPI returned status %d", resp.StatusCode)
	}

	var stationResp stationResponse
	if err := json.NewDecoder(resp.Body).Decode(&stationResp); err != nil {
		return nil, 0, fmt.Errorf("decoding response: %w", err)
	}

	stations := make([]models.Station, 0, len(stationResp.Stations))
	skipped := 0
	for _, rec := range stationResp.Stations {
		s, ok := rec.toStation()
		if !ok {
			p.logger.Debug().Str("station", rec.ID).Msg("malformed station record")
			skipped++
			continue
		}
		stations = append(stations, s)
	}
	return stations, skipped, nil
}

func (r stationRecord) toStation() (models.Station, bool) {
	if strings.TrimSpace(r.ID) == "" {
		return models.Station{}, false
	}
	lat, ok := parseDegrees(r.Lat)
	if !ok {
		return models.Station{}, false
	}
	lng, ok := parseDegrees(r.Lng)
	if !ok {
		return models.Station{}, false
	}
	loc := models.Coordinate{Latitude: lat, Longitude: lng}
	if !loc.Valid() {
		return models.Station{}, false
	}
	return models.Station{
		ID:       strings.TrimSpace(r.ID),
		Name:     strings.TrimSpace(r.Name),
		State:    strings.TrimSpace(r.State),
		Location: loc,
	}, true
}

// parseDegrees accepts 42.35 as well as "42.35"
func parseDegrees(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// buildStationsTable creates the tide_stations table and inserts stations
func buildStationsTable(db *sql.DB, stations []models.Station) (int, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tide_stations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			state TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tide_stations_coords ON tide_stations(latitude, longitude);
	`)
	if err != nil {
		return 0, fmt.Errorf("creating tide_stations table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() // Rollback on error

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO tide_stations (id, name, state, latitude, longitude) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, s := range stations {
		if _, err := stmt.Exec(s.ID, s.Name, s.State, s.Location.Latitude, s.Location.Longitude); err != nil {
			return 0, fmt.Errorf("inserting station %s: %w", s.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return count, nil
}
