package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/tidepool-terminal/internal/geocoding"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/planner"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
)

// Planner is the subset of planner.Service the UI drives
type Planner interface {
	Locate(ctx context.Context, query string) (*geocoding.Location, error)
	NearestStations(ctx context.Context, coord models.Coordinate) ([]stations.Match, error)
	LoadDays(ctx context.Context, stationID string, from models.Date) (*planner.TideCalendar, error)
}

// Provisioner builds the local lookup tables on first run
type Provisioner interface {
	NeedsProvisioning() (bool, error)
	Provision(ctx context.Context, progress chan<- string) error
}

// Message types for async operations

// provisioningStartedMsg carries the channels of a running provisioning job
type provisioningStartedMsg struct {
	progressChan <-chan string
	resultChan   <-chan error
}

// provisionStatusMsg is a progress line from the provisioning job
type provisionStatusMsg string

// provisionResultMsg is sent once provisioning has finished
type provisionResultMsg struct {
	err error
}

// geocodeMsg is sent when geocoding completes. seq identifies the search it
// belongs to.
type geocodeMsg struct {
	seq      int
	location *geocoding.Location
	err      error
}

// stationsFoundMsg is sent when nearby stations have been ranked
type stationsFoundMsg struct {
	seq     int
	matches []stations.Match
	err     error
}

// tidesLoadedMsg is sent when a tide fetch completes. seq identifies the
// request so that results of superseded fetches can be dropped.
type tidesLoadedMsg struct {
	seq      int
	calendar *planner.TideCalendar
	err      error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// initiateProvisioning starts p in the background and hands its channels to Update
func initiateProvisioning(p Provisioner) tea.Cmd {
	return func() tea.Msg {
		progress := make(chan string, 16)
		result := make(chan error, 1)
		go func() {
			err := p.Provision(context.Background(), progress)
			close(progress)
			result <- err
		}()
		return provisioningStartedMsg{progressChan: progress, resultChan: result}
	}
}

// waitForProvisionStatus waits for the next progress line. It returns nil once
// the channel is closed so that the command chain ends.
func waitForProvisionStatus(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return provisionStatusMsg(status)
	}
}

func waitForProvisionResult(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return provisionResultMsg{err: <-ch}
	}
}

// geocodeLocation performs geocoding in the background
func geocodeLocation(p Planner, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		location, err := p.Locate(ctx, query)
		return geocodeMsg{seq: seq, location: location, err: err}
	}
}

// findStations ranks the stations nearest to coord
func findStations(p Planner, seq int, coord models.Coordinate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		matches, err := p.NearestStations(ctx, coord)
		return stationsFoundMsg{seq: seq, matches: matches, err: err}
	}
}

// loadTides fetches and aggregates a year of predictions for stationID
func loadTides(p Planner, seq int, stationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		cal, err := p.LoadDays(ctx, stationID, models.Date{})
		return tidesLoadedMsg{seq: seq, calendar: cal, err: err}
	}
}
