package geocoding

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// GoogleProvider uses the Google Maps Geocoding API
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogleProvider creates a provider authenticated with apiKey. A non-empty
// baseURL overrides the Google endpoint.
func NewGoogleProvider(apiKey, baseURL string) (*GoogleProvider, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Google Maps client: %w", err)
	}
	return &GoogleProvider{client: c}, nil
}

func (g *GoogleProvider) Name() string { return "google" }

func (g *GoogleProvider) Geocode(ctx context.Context, query string) (*Location, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: query,
		Region:  "us",
	})
	if err != nil {
		return nil, fmt.Errorf("google geocoding: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results for %q: %w", query, ErrNotFound)
	}

	result := results[0]
	return &Location{
		Latitude:  result.Geometry.Location.Lat,
		Longitude: result.Geometry.Location.Lng,
		Name:      result.FormattedAddress,
	}, nil
}
