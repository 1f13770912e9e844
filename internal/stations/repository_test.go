package stations

import (
	"context"
	"errors"
	"testing"

	"github.com/ngmaloney/tidepool-terminal/internal/geo"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
)

func seededRepository(t *testing.T) *Repository {
	t.Helper()
	db := openTestDB(t)

	// Boston, New York, Miami
	_, err := buildStationsTable(db, []models.Station{
		{ID: "BOS", Name: "Boston Harbor", State: "MA", Location: models.Coordinate{Latitude: 42.36, Longitude: -71.06}},
		{ID: "NYC", Name: "New York Harbor", State: "NY", Location: models.Coordinate{Latitude: 40.71, Longitude: -74.01}},
		{ID: "MIA", Name: "Miami Beach", State: "FL", Location: models.Coordinate{Latitude: 25.76, Longitude: -80.19}},
	})
	if err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}
	return NewRepository(db)
}

func TestRepository_All(t *testing.T) {
	repo := seededRepository(t)

	stations, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(stations) != 3 {
		t.Fatalf("All() returned %d stations, want 3", len(stations))
	}
	if stations[0].ID != "BOS" || stations[0].Location.Latitude != 42.36 {
		t.Errorf("All()[0] = %+v, want BOS", stations[0])
	}
}

func TestRepository_Within(t *testing.T) {
	repo := seededRepository(t)

	tests := []struct {
		name   string
		center models.Coordinate
		miles  float64
		want   []string
	}{
		{"boston only", models.Coordinate{Latitude: 42.3, Longitude: -71.0}, 50, []string{"BOS"}},
		{"northeast", models.Coordinate{Latitude: 41.5, Longitude: -72.5}, 250, []string{"BOS", "NYC"}},
		{"mid atlantic ocean", models.Coordinate{Latitude: 30, Longitude: -40}, 100, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stations, err := repo.Within(context.Background(), geo.BoundAround(tt.center, tt.miles))
			if err != nil {
				t.Fatalf("Within() error = %v", err)
			}
			got := make([]string, len(stations))
			for i, s := range stations {
				got[i] = s.ID
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Within() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Within() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRepository_ByID(t *testing.T) {
	repo := seededRepository(t)

	station, err := repo.ByID(context.Background(), "NYC")
	if err != nil {
		t.Errorf("ByID() error = %v, want nil", err)
	}
	if station.Name != "New York Harbor" || station.State != "NY" {
		t.Errorf("ByID() got %+v, want NYC", station)
	}

	_, err = repo.ByID(context.Background(), "NONEXISTENT")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ByID() error = %v, want ErrNotFound", err)
	}
}
