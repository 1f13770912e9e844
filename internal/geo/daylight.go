package geo

import "github.com/ngmaloney/tidepool-terminal/internal/models"

// Fixed daylight window. This is a coarse approximation, independent of date
// and latitude, and is intentionally not a sunrise/sunset calculation.
var (
	DaylightStart = models.NewTimeOfDay(6, 0)
	DaylightEnd   = models.NewTimeOfDay(18, 0)
)

// IsDaylight reports whether t falls inside the 06:00-18:00 window, inclusive
// at both ends.
func IsDaylight(t models.TimeOfDay) bool {
	return t >= DaylightStart && t <= DaylightEnd
}
