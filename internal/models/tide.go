package models

import "sort"

// TideKind represents whether a tide is high or low
type TideKind string

const (
	TideHigh TideKind = "H"
	TideLow  TideKind = "L"
)

// ParseTideKind maps a NOAA type code to a TideKind.
// The second return value is false for anything other than "H" or "L".
func ParseTideKind(code string) (TideKind, bool) {
	switch TideKind(code) {
	case TideHigh:
		return TideHigh, true
	case TideLow:
		return TideLow, true
	}
	return "", false
}

func (k TideKind) String() string {
	switch k {
	case TideHigh:
		return "High"
	case TideLow:
		return "Low"
	}
	return string(k)
}

// RawTideSample is one high/low prediction as delivered by the data source,
// with the local timestamp already split into date and time.
type RawTideSample struct {
	Date   Date
	Time   TimeOfDay
	Height float64 // feet relative to MLLW, negative for very low tides
	Kind   TideKind
}

// TideEvent is a high or low tide within a DaySummary
type TideEvent struct {
	Time       TimeOfDay `json:"time"`
	Height     float64   `json:"height"`
	IsDaylight bool      `json:"is_daylight"`
}

// DaySummary aggregates every tide event predicted for one calendar date.
// MinHeight and MaxHeight cover both low and high events.
type DaySummary struct {
	Date       Date        `json:"date"`
	MinHeight  float64     `json:"min_height"`
	MaxHeight  float64     `json:"max_height"`
	LowEvents  []TideEvent `json:"low_events"`
	HighEvents []TideEvent `json:"high_events"`
}

// TimelineEntry is a TideEvent tagged with its kind
type TimelineEntry struct {
	Kind TideKind
	TideEvent
}

// Timeline merges low and high events into one chronological list
func (d DaySummary) Timeline() []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(d.LowEvents)+len(d.HighEvents))
	for _, e := range d.LowEvents {
		entries = append(entries, TimelineEntry{Kind: TideLow, TideEvent: e})
	}
	for _, e := range d.HighEvents {
		entries = append(entries, TimelineEntry{Kind: TideHigh, TideEvent: e})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time < entries[j].Time
	})
	return entries
}

// FilterSettings are the user's tide-pooling preferences
type FilterSettings struct {
	MaxTideLevel float64 `json:"max_tide_level"` // feet, may be zero or negative
	DaylightOnly bool    `json:"daylight_only"`
}
