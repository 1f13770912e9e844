package tides

import (
	"sort"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
)

// pool returns the low tides eligible under settings. High tides never count.
func pool(day models.DaySummary, settings models.FilterSettings) []models.TideEvent {
	if !settings.DaylightOnly {
		return day.LowEvents
	}
	daylight := make([]models.TideEvent, 0, len(day.LowEvents))
	for _, e := range day.LowEvents {
		if e.IsDaylight {
			daylight = append(daylight, e)
		}
	}
	return daylight
}

// IsGoodDay reports whether at least one eligible low tide on day is at or
// below settings.MaxTideLevel.
func IsGoodDay(day models.DaySummary, settings models.FilterSettings) bool {
	for _, e := range pool(day, settings) {
		if e.Height <= settings.MaxTideLevel {
			return true
		}
	}
	return false
}

// QualifyingEvents returns the eligible low tides at or below
// settings.MaxTideLevel in chronological order. The result is never nil; an
// empty slice means no time that day qualifies, which is different from the
// day having no low tides at all (see HasLowTides).
func QualifyingEvents(day models.DaySummary, settings models.FilterSettings) []models.TideEvent {
	events := make([]models.TideEvent, 0)
	for _, e := range pool(day, settings) {
		if e.Height <= settings.MaxTideLevel {
			events = append(events, e)
		}
	}
	return events
}

// HasLowTides reports whether any low tide was predicted on day
func HasLowTides(day models.DaySummary) bool {
	return len(day.LowEvents) > 0
}

// ReachesThreshold reports whether the day's lowest water, at any hour and
// of either kind, gets down to settings.MaxTideLevel. The calendar uses it
// for the low-water marker independent of the daylight filter.
func ReachesThreshold(day models.DaySummary, settings models.FilterSettings) bool {
	return day.MinHeight <= settings.MaxTideLevel
}

// GoodDays returns the dates of every good day in days, in input order
func GoodDays(days []models.DaySummary, settings models.FilterSettings) []models.Date {
	var good []models.Date
	for _, d := range days {
		if IsGoodDay(d, settings) {
			good = append(good, d.Date)
		}
	}
	return good
}

// Find looks up the summary for date in days, which must be sorted by date
// as Aggregate returns them.
func Find(days []models.DaySummary, date models.Date) (models.DaySummary, bool) {
	i := sort.Search(len(days), func(i int) bool {
		return !days[i].Date.Before(date)
	})
	if i < len(days) && days[i].Date == date {
		return days[i], true
	}
	return models.DaySummary{}, false
}
