package geocoding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var zipcodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// isZipcode checks if a string looks like a US zipcode
func isZipcode(s string) bool {
	// Match 5-digit or 9-digit (with hyphen) zipcodes
	return zipcodePattern.MatchString(s)
}

// ZipcodeProvider resolves US zipcodes and "City, ST" queries from the local
// zipcodes table
type ZipcodeProvider struct {
	db *sql.DB
}

// NewZipcodeProvider creates a provider over a database holding the zipcodes table
func NewZipcodeProvider(db *sql.DB) *ZipcodeProvider {
	return &ZipcodeProvider{db: db}
}

func (p *ZipcodeProvider) Name() string { return "zipcode" }

func (p *ZipcodeProvider) Geocode(ctx context.Context, query string) (*Location, error) {
	if isZipcode(query) {
		return lookupZipcodeInDB(ctx, p.db, query[:5])
	}

	// Expected format: "City, ST"
	city, state, ok := strings.Cut(query, ",")
	if !ok || strings.Contains(state, ",") {
		return nil, ErrUnsupportedQuery
	}
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	if city == "" || len(state) != 2 {
		return nil, ErrUnsupportedQuery
	}
	return lookupCityStateInDB(ctx, p.db, city, state)
}

// lookupZipcodeInDB looks up a zipcode in the provided database connection
func lookupZipcodeInDB(ctx context.Context, db *sql.DB, zipcode string) (*Location, error) {
	var city, state string
	var lat, lon float64

	err := db.QueryRowContext(ctx,
		"SELECT city, state, latitude, longitude FROM zipcodes WHERE zipcode = ?",
		zipcode,
	).Scan(&city, &state, &lat, &lon)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("zipcode %s: %w", zipcode, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying zipcode: %w", err)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      fmt.Sprintf("%s, %s %s", city, state, zipcode),
	}, nil
}

// lookupCityStateInDB looks up a city and state in the provided database connection.
// If multiple zipcodes match, returns the first one (by zipcode)
func lookupCityStateInDB(ctx context.Context, db *sql.DB, city, state string) (*Location, error) {
	var zipcode, foundCity, foundState string
	var lat, lon float64

	err := db.QueryRowContext(ctx,
		"SELECT zipcode, city, state, latitude, longitude FROM zipcodes WHERE city = ? COLLATE NOCASE AND state = ? ORDER BY zipcode LIMIT 1",
		city, state,
	).Scan(&zipcode, &foundCity, &foundState, &lat, &lon)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s, %s: %w", city, state, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying city/state: %w", err)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      fmt.Sprintf("%s, %s %s", foundCity, foundState, zipcode),
	}, nil
}
