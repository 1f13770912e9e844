package stations

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ngmaloney/tidepool-terminal/internal/database"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/rs/zerolog"
)

const stationsFixture = `{"stations": [
	{"id": "9413450", "name": "Monterey", "state": "CA", "lat": 36.605, "lng": -121.888},
	{"id": "8443970", "name": "Boston", "state": "MA", "lat": "42.3539", "lng": "-71.0503"},
	{"id": "BAD1", "name": "No Latitude", "state": "ME", "lng": "-70.0"},
	{"id": "BAD2", "name": "Garbage", "state": "ME", "lat": "north", "lng": "-70.0"},
	{"id": "BAD3", "name": "Out Of Range", "state": "ME", "lat": 142.0, "lng": "-70.0"}
]}`

func newStationServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stations.json" || r.URL.Query().Get("type") != "tidepredictions" {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFetchAll_SkipsMalformed(t *testing.T) {
	server := newStationServer(t, stationsFixture)
	p := NewProvisioner(server.URL, zerolog.Nop())

	stations, skipped, err := p.fetchAll(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(stations) != 2 {
		t.Fatalf("Expected 2 stations, got %v", stations)
	}

	want := models.Coordinate{Latitude: 42.3539, Longitude: -71.0503}
	if stations[1].ID != "8443970" || stations[1].Location != want {
		t.Errorf("string coordinates not parsed: %+v", stations[1])
	}
}

func TestFetchAll_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, _, err := NewProvisioner(server.URL, zerolog.Nop()).fetchAll(context.Background())
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}
}

func TestParseDegrees(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{`42.5`, 42.5, true},
		{`"42.5"`, 42.5, true},
		{`" -70.25 "`, -70.25, true},
		{`"abc"`, 0, false},
		{`null`, 0, false},
		{`true`, 0, false},
		{``, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseDegrees([]byte(tt.raw))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseDegrees(%s) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestProvision(t *testing.T) {
	server := newStationServer(t, stationsFixture)
	db := openTestDB(t)
	p := NewProvisioner(server.URL, zerolog.Nop())

	needs, err := NeedsProvisioning(db)
	if err != nil || !needs {
		t.Fatalf("before provisioning: needs=%v err=%v", needs, err)
	}

	progress := make(chan string, 16)
	if err := p.Provision(context.Background(), db, progress); err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	close(progress)

	var messages []string
	for msg := range progress {
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		t.Error("Expected progress messages")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tide_stations").Scan(&count); err != nil || count != 2 {
		t.Errorf("Expected 2 stations in DB, got %d (err: %v)", count, err)
	}

	needs, err = NeedsProvisioning(db)
	if err != nil || needs {
		t.Errorf("after provisioning: needs=%v err=%v", needs, err)
	}

	// Second call must not download again
	server.Close()
	if err := p.Provision(context.Background(), db, nil); err != nil {
		t.Errorf("Second Provision() error = %v", err)
	}
}
