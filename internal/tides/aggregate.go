// Package tides turns raw high/low predictions into per-day summaries and
// answers tide-pooling questions about them.
package tides

import (
	"sort"

	"github.com/ngmaloney/tidepool-terminal/internal/geo"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
)

// dayAccumulator collects one date's events while folding samples in
type dayAccumulator struct {
	min, max float64
	low      []models.TideEvent
	high     []models.TideEvent
}

func (a *dayAccumulator) add(s models.RawTideSample) {
	event := models.TideEvent{
		Time:       s.Time,
		Height:     s.Height,
		IsDaylight: geo.IsDaylight(s.Time),
	}

	switch s.Kind {
	case models.TideLow:
		a.low = append(a.low, event)
	case models.TideHigh:
		a.high = append(a.high, event)
	default:
		return
	}

	if len(a.low)+len(a.high) == 1 {
		a.min, a.max = s.Height, s.Height
		return
	}
	if s.Height < a.min {
		a.min = s.Height
	}
	if s.Height > a.max {
		a.max = s.Height
	}
}

func (a *dayAccumulator) summary(date models.Date) models.DaySummary {
	if a.low == nil {
		a.low = []models.TideEvent{}
	}
	if a.high == nil {
		a.high = []models.TideEvent{}
	}
	sortByTime(a.low)
	sortByTime(a.high)
	return models.DaySummary{
		Date:       date,
		MinHeight:  a.min,
		MaxHeight:  a.max,
		LowEvents:  a.low,
		HighEvents: a.high,
	}
}

// Aggregate groups samples by calendar date and returns one DaySummary per
// date that has at least one high or low event, ordered by date.
//
// Samples may arrive in any order. Samples of an unknown kind are dropped and
// duplicates are kept. No time zone conversion is applied; the date the
// source wrote is the grouping key.
func Aggregate(samples []models.RawTideSample) []models.DaySummary {
	byDate := make(map[models.Date]*dayAccumulator)
	for _, s := range samples {
		acc, ok := byDate[s.Date]
		if !ok {
			acc = &dayAccumulator{}
			byDate[s.Date] = acc
		}
		acc.add(s)
	}

	days := make([]models.DaySummary, 0, len(byDate))
	for date, acc := range byDate {
		if len(acc.low)+len(acc.high) == 0 {
			continue
		}
		days = append(days, acc.summary(date))
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

func sortByTime(events []models.TideEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
}
