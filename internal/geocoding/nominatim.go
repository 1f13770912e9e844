package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultNominatimURL is the public OpenStreetMap search endpoint
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	userAgent           = "TidepoolTerminal/1.0" // Required by Nominatim ToS
)

// NominatimProvider geocodes free-form places with OpenStreetMap Nominatim.
// Calls are spaced at least minInterval apart as the usage policy requires.
type NominatimProvider struct {
	baseURL     string
	httpClient  *http.Client
	minInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewNominatimProvider creates a provider against baseURL (DefaultNominatimURL when empty)
func NewNominatimProvider(baseURL string) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		minInterval: time.Second,
	}
}

// nominatimResponse represents the Nominatim API response
type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *NominatimProvider) Name() string { return "nominatim" }

func (n *NominatimProvider) Geocode(ctx context.Context, query string) (*Location, error) {
	params := url.Values{}
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("q", query)

	reqURL := fmt.Sprintf("%s?%s", n.baseURL, params.Encode())

	if err := n.throttle(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Set required User-Agent header (Nominatim ToS requirement)
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results for %q: %w", query, ErrNotFound)
	}

	result := results[0]
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      result.DisplayName,
	}, nil
}

// throttle blocks until minInterval has passed since the previous call
func (n *NominatimProvider) throttle(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.lastCall.IsZero() {
		if wait := n.minInterval - time.Since(n.lastCall); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	n.lastCall = time.Now()
	return nil
}
