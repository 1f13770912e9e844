package noaa

import (
	"context"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
)

// TideClient defines the interface for fetching tide data from NOAA CO-OPS
type TideClient interface {
	// GetTidePredictions retrieves high/low predictions for the inclusive date range
	GetTidePredictions(ctx context.Context, stationID string, begin, end models.Date) (*TidePredictions, error)
}

// TidePredictions is the parsed result of a predictions request. Samples are in
// the order NOAA returned them; Skipped counts records that could not be parsed.
type TidePredictions struct {
	StationID   string
	StationName string
	Samples     []models.RawTideSample
	Skipped     int
}
