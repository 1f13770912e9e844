package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
)

// stationItem wraps a ranked station for use in a list
type stationItem struct {
	match stations.Match
}

// FilterValue implements list.Item
func (s stationItem) FilterValue() string {
	return s.match.Station.ID + " " + s.match.Station.Name
}

// Title implements list.DefaultItem
func (s stationItem) Title() string {
	st := s.match.Station
	if st.State != "" {
		return fmt.Sprintf("%s, %s", st.Name, st.State)
	}
	return st.Name
}

// Description implements list.DefaultItem
func (s stationItem) Description() string {
	return fmt.Sprintf("Station %s • %.1f miles away", s.match.Station.ID, s.match.DistanceMiles)
}

// createStationList creates a list.Model from ranked stations
func createStationList(matches []stations.Match, width, height int) list.Model {
	items := make([]list.Item, len(matches))
	for i, match := range matches {
		items[i] = stationItem{match: match}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Select a Tide Station"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}
