package geocoding

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/tidepool-terminal/internal/database"
	"github.com/rs/zerolog"
)

// DefaultZipcodeCSVURL is the public-domain US zipcode listing
const DefaultZipcodeCSVURL = "https://raw.githubusercontent.com/midwire/free_zipcode_data/develop/all_us_zipcodes.csv"

// ZipcodeProvisioner downloads the zipcode CSV and loads it into SQLite
type ZipcodeProvisioner struct {
	csvURL     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewZipcodeProvisioner creates a provisioner reading from csvURL
// (DefaultZipcodeCSVURL when empty)
func NewZipcodeProvisioner(csvURL string, logger zerolog.Logger) *ZipcodeProvisioner {
	if csvURL == "" {
		csvURL = DefaultZipcodeCSVURL
	}
	return &ZipcodeProvisioner{
		csvURL:     csvURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     logger.With().Str("component", "zipcodes").Logger(),
	}
}

// Provision builds the zipcodes table unless it already exists
func (p *ZipcodeProvisioner) Provision(ctx context.Context, db *sql.DB, progress chan<- string) error {
	exists, err := database.TableExists(db, "zipcodes")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	sendProgress := func(msg string) {
		p.logger.Info().Msg(msg)
		if progress != nil {
			progress <- msg
		}
	}

	sendProgress("Downloading zipcode data...")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.csvURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading zipcode CSV: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading zipcode CSV: HTTP error: %d", resp.StatusCode)
	}

	sendProgress("Building zipcode database...")
	count, err := buildZipcodeTable(db, resp.Body)
	if err != nil {
		return fmt.Errorf("building database: %w", err)
	}

	sendProgress(fmt.Sprintf("Stored %d zipcodes", count))
	return nil
}

// buildZipcodeTable creates the zipcodes table from CSV rows of the form
// Zipcode,ZipCodeType,City,State,LocationType,Lat,Long,...
// Rows that cannot be parsed are skipped.
func buildZipcodeTable(db *sql.DB, r io.Reader) (int, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS zipcodes (
			zipcode TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_zipcodes_city_state ON zipcodes(city, state);
	`)
	if err != nil {
		return 0, fmt.Errorf("creating table: %w", err)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}

	// Begin transaction for faster inserts
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO zipcodes (zipcode, city, state, latitude, longitude) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil || len(record) < 7 {
			continue // Skip invalid records
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[6]), 64)
		if err != nil {
			continue
		}

		if _, err := stmt.Exec(record[0], record[2], record[3], lat, lon); err != nil {
			return 0, fmt.Errorf("inserting zipcode %s: %w", record[0], err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return count, nil
}
