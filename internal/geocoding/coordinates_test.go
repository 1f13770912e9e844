package geocoding

import (
	"context"
	"errors"
	"testing"
)

func TestCoordinateProvider(t *testing.T) {
	tests := []struct {
		query   string
		wantLat float64
		wantLon float64
		wantErr error
	}{
		{"36.95, -122.02", 36.95, -122.02, nil},
		{"  -33.9,151.2 ", -33.9, 151.2, nil},
		{"42,-70", 42, -70, nil},
		{"95.0, 10.0", 0, 0, ErrNotFound},
		{"10.0, 190.0", 0, 0, ErrNotFound},
		{"Monterey, CA", 0, 0, ErrUnsupportedQuery},
		{"36.95", 0, 0, ErrUnsupportedQuery},
		{"1.2.3, 4", 0, 0, ErrUnsupportedQuery},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			loc, err := CoordinateProvider{}.Geocode(context.Background(), tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Geocode(%q) error = %v, want %v", tt.query, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Geocode(%q) error = %v", tt.query, err)
			}
			if loc.Latitude != tt.wantLat || loc.Longitude != tt.wantLon {
				t.Errorf("Geocode(%q) = %v, %v; want %v, %v", tt.query, loc.Latitude, loc.Longitude, tt.wantLat, tt.wantLon)
			}
		})
	}
}
