package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/tidepool-terminal/internal/geocoding"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
)

// AppState represents the current state of the application
type AppState int

const (
	StateSearch       AppState = iota // Search for location (zipcode/city/state/coordinates)
	StateLocating                     // Geocoding and ranking stations
	StateStationList                  // Show list of nearby tide stations
	StateLoadingTides                 // Fetching a year of predictions
	StateCalendar                     // Month calendar of tide-pool days
	StateProvisioning                 // Initial data provisioning (downloading/building DB)
	StateError                        // Error state
)

// Options are the startup choices passed on the command line
type Options struct {
	Location  string // search for this location immediately
	StationID string // load this station immediately
	Filter    models.FilterSettings
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error
	notice string // non-error message shown on the search screen

	planner     Planner
	provisioner Provisioner
	opts        Options

	// Search. searchSeq numbers searches; results of abandoned ones are dropped.
	searchInput textinput.Model
	searchQuery string // Last search query
	searchSeq   int

	// Location and stations
	location    *geocoding.Location
	matches     []stations.Match
	stationList list.Model

	// Tides. tideSeq numbers fetches; only the latest one is applied.
	loadingStation string
	tideSeq        int
	calendar       calendarView
	hasCalendar    bool

	// Provisioning
	spinner           spinner.Model
	provisionStatus   string
	provisionChannels *provisioningStartedMsg
}

// NewModel creates a new application model
func NewModel(p Planner, provisioner Provisioner, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter zipcode, city, state, place or lat, lon (e.g. 95060 or Monterey, CA)..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		state:       StateSearch,
		planner:     p,
		provisioner: provisioner,
		opts:        opts,
		searchInput: ti,
		spinner:     s,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.provisioner != nil {
		needed, err := m.provisioner.NeedsProvisioning()
		if err != nil {
			return func() tea.Msg { return errMsg{err: fmt.Errorf("checking local data: %w", err)} }
		}
		if needed {
			return tea.Batch(m.spinner.Tick, initiateProvisioning(m.provisioner))
		}
	}
	return m.startupCmd()
}

// startupCmd honours --station and --location once local data is ready
func (m Model) startupCmd() tea.Cmd {
	switch {
	case m.opts.StationID != "":
		return func() tea.Msg { return startStationMsg{stationID: m.opts.StationID} }
	case m.opts.Location != "":
		return func() tea.Msg { return startSearchMsg{query: m.opts.Location} }
	}
	return textinput.Blink
}

// startStationMsg and startSearchMsg replay command-line choices through Update
type startStationMsg struct{ stationID string }
type startSearchMsg struct{ query string }

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateStationList {
			m.stationList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	// Provisioning messages
	case provisioningStartedMsg:
		m.state = StateProvisioning
		m.provisionStatus = "Starting data provisioning..."
		m.provisionChannels = &msg
		return m, tea.Batch(
			waitForProvisionStatus(msg.progressChan),
			waitForProvisionResult(msg.resultChan),
		)

	case provisionStatusMsg:
		m.provisionStatus = string(msg)
		// Continue waiting for more status updates using stored channel
		if m.provisionChannels != nil {
			return m, waitForProvisionStatus(m.provisionChannels.progressChan)
		}
		return m, nil

	case provisionResultMsg:
		m.provisionChannels = nil
		if msg.err != nil {
			m.err = fmt.Errorf("provisioning failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.state = StateSearch
		m.searchInput.Focus()
		return m, m.startupCmd()

	case startSearchMsg:
		m.searchInput.SetValue(msg.query)
		return m.search(msg.query)

	case startStationMsg:
		return m.startLoadingTides(msg.stationID)

	case geocodeMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		if msg.err != nil {
			m.err = fmt.Errorf("geocoding failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.location = msg.location
		return m, findStations(m.planner, m.searchSeq, msg.location.Coordinate())

	case stationsFoundMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		if msg.err != nil {
			m.err = fmt.Errorf("finding tide stations failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		if len(msg.matches) == 0 {
			m.state = StateSearch
			m.notice = fmt.Sprintf("No tide stations found near '%s'", m.searchQuery)
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		m.matches = msg.matches
		m.stationList = createStationList(msg.matches, m.width-4, m.height-8)
		m.state = StateStationList
		return m, nil

	case tidesLoadedMsg:
		if msg.seq != m.tideSeq {
			// A newer fetch has been requested since this one started
			return m, nil
		}
		m.loadingStation = ""
		if msg.err != nil {
			m.err = fmt.Errorf("loading tide predictions failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		settings := m.opts.Filter
		if m.hasCalendar {
			settings = m.calendar.settings
		}
		m.calendar = newCalendarView(msg.calendar, settings)
		m.hasCalendar = true
		m.state = StateCalendar
		return m, nil
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Global keys
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// q types into the search box rather than quitting
		if keyMsg.String() == "q" && m.state != StateSearch {
			return m, tea.Quit
		}

		// State-specific handling
		switch m.state {
		case StateSearch:
			return m.handleSearchInput(keyMsg)

		case StateStationList:
			return m.handleStationList(msg)

		case StateCalendar:
			return m.handleCalendar(keyMsg)

		case StateLoadingTides, StateLocating:
			if keyMsg.Type == tea.KeyEsc {
				return m.newSearch()
			}
			return m, nil

		case StateError:
			// Any key returns to search (except quit keys)
			m.state = StateSearch
			m.err = nil
			m.searchInput.Focus()
			return m.handleSearchInput(keyMsg)
		}
	}

	// Update appropriate component based on state
	switch m.state {
	case StateProvisioning, StateLocating, StateLoadingTides:
		m.spinner, cmd = m.spinner.Update(msg)
	case StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case StateStationList:
		m.stationList, cmd = m.stationList.Update(msg)
	}

	return m, cmd
}

// search starts geocoding query
func (m Model) search(query string) (tea.Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m, nil
	}
	m.searchSeq++
	m.searchQuery = query
	m.err = nil
	m.notice = ""
	m.state = StateLocating
	return m, tea.Batch(m.spinner.Tick, geocodeLocation(m.planner, m.searchSeq, query))
}

// startLoadingTides requests predictions for stationID, superseding any
// fetch still in flight
func (m Model) startLoadingTides(stationID string) (tea.Model, tea.Cmd) {
	m.tideSeq++
	m.loadingStation = stationID
	m.state = StateLoadingTides
	return m, tea.Batch(m.spinner.Tick, loadTides(m.planner, m.tideSeq, stationID))
}

// newSearch returns to the search box, dropping location state. Pending
// lookups and tide fetches are invalidated.
func (m Model) newSearch() (tea.Model, tea.Cmd) {
	m.searchSeq++
	m.tideSeq++
	m.state = StateSearch
	m.loadingStation = ""
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	m.location = nil
	m.matches = nil
	return m, textinput.Blink
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Clear error when typing
	if msg.Type != tea.KeyEnter {
		m.err = nil
		m.notice = ""
	}

	if msg.Type == tea.KeyEnter {
		return m.search(m.searchInput.Value())
	}

	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleStationList handles keyboard input in station list state
func (m Model) handleStationList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEnter {
			if item, ok := m.stationList.SelectedItem().(stationItem); ok {
				return m.startLoadingTides(item.match.Station.ID)
			}
		}
		// 's' or Esc to go back to search
		if keyMsg.String() == "s" || keyMsg.Type == tea.KeyEsc {
			return m.newSearch()
		}
	}

	m.stationList, cmd = m.stationList.Update(msg)
	return m, cmd
}

// handleCalendar handles keyboard input in calendar state
func (m Model) handleCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.calendar

	if c.detail.isOpen() {
		if msg.Type == tea.KeyEsc {
			m.calendar = c.dismissDetail()
		}
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		c = c.moveCursor(-1)
	case "right", "l":
		c = c.moveCursor(1)
	case "up", "k":
		c = c.moveCursor(-7)
	case "down", "j":
		c = c.moveCursor(7)
	case "[":
		c = c.shiftMonth(-1)
	case "]":
		c = c.shiftMonth(1)
	case "+", "=":
		c = c.adjustLevel(tideLevelStep)
	case "-", "_":
		c = c.adjustLevel(-tideLevelStep)
	case "d":
		c = c.toggleDaylight()
	case "enter":
		c = c.openDetail()
	case "s":
		return m.newSearch()
	case "b", "esc":
		if len(m.matches) > 0 {
			m.state = StateStationList
			return m, nil
		}
	}

	m.calendar = c
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateProvisioning:
		return m.viewProvisioning()
	case StateSearch:
		return m.viewSearch()
	case StateLocating:
		return m.viewBusy(fmt.Sprintf("Finding tide stations near %s...", m.searchQuery))
	case StateStationList:
		return m.viewStationList()
	case StateLoadingTides:
		return m.viewBusy(fmt.Sprintf("Loading a year of tide predictions for station %s...", m.loadingStation))
	case StateCalendar:
		return m.viewCalendar()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewProvisioning renders the initial setup screen
func (m Model) viewProvisioning() string {
	title := titleStyle.Render("🌊 Tidepool Terminal Setup")

	status := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(m.provisionStatus)

	info := helpStyle.Render("One-time setup: downloading tide stations and zipcodes...")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), status),
		"",
		info,
	)
}

func (m Model) viewBusy(status string) string {
	help := helpStyle.Render("Esc: Cancel • Q: Quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🌊 Tidepool Terminal"),
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), status),
		"",
		help,
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
		if errors.Is(m.err, geocoding.ErrNotFound) {
			errorMsg = fmt.Sprintf("Could not find '%s'. Try a zipcode, \"City, ST\" or \"lat, lon\".", m.searchQuery)
		}
	}

	help := helpStyle.Render("Press any key to return to search • Ctrl+C: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	title := titleStyle.Render("🌊 Tidepool Terminal")
	subtitle := mutedStyle.Render("Find low tides for tide pooling from NOAA predictions")

	searchBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(64).
		Render(m.searchInput.View())

	sections := []string{title, subtitle, "", searchBox}

	if m.err != nil {
		sections = append(sections, "", errorStyle.Padding(0, 2).Render("✗ "+m.err.Error()))
	}
	if m.notice != "" {
		sections = append(sections, "", mutedStyle.Padding(0, 2).Render(m.notice))
	}

	examples := mutedStyle.Render("Examples: 95060 | Monterey, CA | Pacific Grove | 36.62, -121.90")
	help := helpStyle.Render("Press Enter to search • Ctrl+C to quit")
	sections = append(sections, "", examples, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewStationList renders the tide station selection list
func (m Model) viewStationList() string {
	title := titleStyle.Render("🌊 Tide Stations")
	near := m.searchQuery
	if m.location != nil && m.location.Name != "" {
		near = m.location.Name
	}
	subtitle := mutedStyle.Render(fmt.Sprintf("Nearest %d stations to %s", len(m.matches), near))

	help := helpStyle.Render("↑/↓: Navigate • Enter: Select • S/Esc: Back to search • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		m.stationList.View(),
		"",
		help,
	)
}

// viewCalendar renders the month calendar, or the detail panel when open
func (m Model) viewCalendar() string {
	c := m.calendar
	if c.detail.isOpen() {
		if day, ok := c.cal.Day(c.detail.date); ok {
			return placeDetail(renderDetail(day, c.settings, min(m.width-4, 72)), m.width, m.height)
		}
	}

	station := c.cal.Station
	header := titleStyle.Render(fmt.Sprintf("🌊 %s (%s)", station.Name, station.ID))
	zone := mutedStyle.Render(fmt.Sprintf("Times are station local (%s) • heights in feet above MLLW", c.cal.Location))

	sections := []string{header, zone, ""}

	if len(c.cal.Days) == 0 {
		sections = append(sections, mutedStyle.Render("No tide data available for this station"))
	} else {
		sections = append(sections,
			c.renderFilters(),
			"",
			sectionBoxStyle.Render(c.renderGrid()),
			renderLegend(),
		)
		if day, ok := c.cal.Day(c.cursor); ok {
			sections = append(sections, "", m.renderDaySummary(day))
		} else {
			sections = append(sections, "", mutedStyle.Render(fmt.Sprintf("%s: no predictions", c.cursor)))
		}
	}
	if c.cal.Skipped > 0 {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("%d malformed predictions were skipped", c.cal.Skipped)))
	}

	help := helpStyle.Render("←/→/↑/↓: Day • [/]: Month • +/-: Max tide level • D: Daylight only • Enter: Details • S: New search • Q: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDaySummary is the one-line preview of the cursor day
func (m Model) renderDaySummary(day models.DaySummary) string {
	good := len(m.calendar.qualifying(day))
	verdict := mutedStyle.Render("no tide-pool window")
	if good > 0 {
		verdict = goodTideStyle.Render(fmt.Sprintf("%d tide-pool window(s)", good))
	}
	return fmt.Sprintf("%s  %s %s  %s %s  %s",
		labelStyle.Render(day.Date.Time(time.UTC).Format("Mon Jan 2")),
		labelStyle.Render("low"),
		valueStyle.Render(fmt.Sprintf("%.1f ft", day.MinHeight)),
		labelStyle.Render("high"),
		valueStyle.Render(fmt.Sprintf("%.1f ft", day.MaxHeight)),
		verdict,
	)
}
