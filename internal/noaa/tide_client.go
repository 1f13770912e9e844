package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/rs/zerolog"
)

// DefaultDataGetterURL is the NOAA CO-OPS data API
const DefaultDataGetterURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

// ErrNoPredictions is returned when NOAA answers without a predictions array
var ErrNoPredictions = errors.New("no tide predictions returned")

// APIError is an error payload reported by the CO-OPS API with a 200 status
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "NOAA CO-OPS: " + e.Message
}

// NOAATideClient implements TideClient using the NOAA CO-OPS API
type NOAATideClient struct {
	baseURL     string
	application string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewTideClient creates a new NOAA tide client. Empty baseURL and application
// fall back to the public endpoint and "TidepoolTerminal".
func NewTideClient(baseURL, application string, logger zerolog.Logger) *NOAATideClient {
	if baseURL == "" {
		baseURL = DefaultDataGetterURL
	}
	if application == "" {
		application = "TidepoolTerminal"
	}
	return &NOAATideClient{
		baseURL:     baseURL,
		application: application,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "noaa").Logger(),
	}
}

// GetTidePredictions retrieves high/low tide predictions for a date range.
// Times are station local (lst_ldt) and heights are feet above MLLW.
func (c *NOAATideClient) GetTidePredictions(ctx context.Context, stationID string, begin, end models.Date) (*TidePredictions, error) {
	params := url.Values{}
	params.Add("begin_date", formatDate(begin))
	params.Add("end_date", formatDate(end))
	params.Add("station", stationID)
	params.Add("product", "predictions")
	params.Add("datum", "MLLW")        // Mean Lower Low Water
	params.Add("time_zone", "lst_ldt") // Local standard/daylight time
	params.Add("interval", "hilo")     // High and low tides only
	params.Add("units", "english")     // Feet
	params.Add("format", "json")
	params.Add("application", c.application)

	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("station", stationID).Stringer("begin", begin).Stringer("end", end).Msg("fetching tide predictions")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tide data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var tideResp tideResponse
	if err := json.NewDecoder(resp.Body).Decode(&tideResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if tideResp.Error != nil {
		return nil, &APIError{Message: tideResp.Error.Message}
	}
	if tideResp.Predictions == nil {
		return nil, fmt.Errorf("station %s: %w", stationID, ErrNoPredictions)
	}

	result := &TidePredictions{
		StationID:   stationID,
		StationName: tideResp.Metadata.Name,
		Samples:     make([]models.RawTideSample, 0, len(tideResp.Predictions)),
	}

	unknown := 0
	for _, pred := range tideResp.Predictions {
		sample, err := pred.toSample()
		if errors.Is(err, errUnknownKind) {
			unknown++
			continue
		}
		if err != nil {
			c.logger.Debug().Err(err).Str("station", stationID).Msg("skipping malformed prediction")
			result.Skipped++
			continue
		}
		result.Samples = append(result.Samples, sample)
	}

	if result.Skipped > 0 {
		c.logger.Warn().Str("station", stationID).Int("skipped", result.Skipped).Msg("skipped malformed tide predictions")
	}
	if unknown > 0 {
		c.logger.Debug().Str("station", stationID).Int("dropped", unknown).Msg("dropped predictions of unknown type")
	}
	return result, nil
}

var errUnknownKind = errors.New("unknown tide type")

// toSample splits the "YYYY-MM-DD HH:MM" timestamp verbatim; no zone
// conversion is applied because the request already asked for station time.
func (p prediction) toSample() (models.RawTideSample, error) {
	kind, ok := models.ParseTideKind(p.Type)
	if !ok {
		return models.RawTideSample{}, fmt.Errorf("%w %q", errUnknownKind, p.Type)
	}

	datePart, timePart, found := strings.Cut(strings.TrimSpace(p.Time), " ")
	if !found {
		return models.RawTideSample{}, fmt.Errorf("timestamp %q has no time component", p.Time)
	}
	date, err := models.ParseDate(datePart)
	if err != nil {
		return models.RawTideSample{}, err
	}
	clock, err := models.ParseTimeOfDay(strings.TrimSpace(timePart))
	if err != nil {
		return models.RawTideSample{}, err
	}

	height, err := strconv.ParseFloat(strings.TrimSpace(p.Height), 64)
	if err != nil {
		return models.RawTideSample{}, fmt.Errorf("parsing height %q: %w", p.Height, err)
	}

	return models.RawTideSample{
		Date:   date,
		Time:   clock,
		Height: height,
		Kind:   kind,
	}, nil
}

func formatDate(d models.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// Internal types for NOAA CO-OPS API responses

type prediction struct {
	Time   string `json:"t"`
	Height string `json:"v"`    // NOAA returns this as string
	Type   string `json:"type"` // "H" or "L"
}

type tideResponse struct {
	Metadata struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"metadata"`
	Predictions []prediction `json:"predictions"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}
