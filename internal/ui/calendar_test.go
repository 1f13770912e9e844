package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/planner"
)

func TestNewCalendarView_CursorStart(t *testing.T) {
	cal := montereyCalendar()

	c := newCalendarView(cal, models.FilterSettings{})
	if c.cursor != cal.Today {
		t.Errorf("cursor = %v, want today %v", c.cursor, cal.Today)
	}

	// Today outside the predicted range falls back to the first day
	cal.Today = models.NewDate(2024, time.December, 31)
	c = newCalendarView(cal, models.FilterSettings{})
	if c.cursor != cal.Days[0].Date {
		t.Errorf("cursor = %v, want first day %v", c.cursor, cal.Days[0].Date)
	}
	if c.month != models.NewDate(2025, time.July, 1) {
		t.Errorf("month = %v, want 2025-07-01", c.month)
	}
}

func TestShiftMonth_ClampsDay(t *testing.T) {
	c := calendarView{
		cal:    &planner.TideCalendar{Location: time.UTC},
		month:  models.NewDate(2025, time.January, 1),
		cursor: models.NewDate(2025, time.January, 31),
	}

	c = c.shiftMonth(1)
	if c.cursor != models.NewDate(2025, time.February, 28) {
		t.Errorf("cursor = %v, want 2025-02-28", c.cursor)
	}

	c = c.shiftMonth(-2)
	if c.cursor != models.NewDate(2024, time.December, 28) {
		t.Errorf("cursor = %v, want 2024-12-28", c.cursor)
	}
}

func TestMoveCursor_FollowsMonth(t *testing.T) {
	c := calendarView{
		cal:    &planner.TideCalendar{Location: time.UTC},
		month:  models.NewDate(2025, time.July, 1),
		cursor: models.NewDate(2025, time.July, 30),
	}

	c = c.moveCursor(7)
	if c.month != models.NewDate(2025, time.August, 1) {
		t.Errorf("month = %v, want 2025-08-01", c.month)
	}
}

func TestDetailView_OpenReplaces(t *testing.T) {
	var d detailView
	if d.isOpen() {
		t.Fatal("zero detailView should be closed")
	}

	d = d.opened(models.NewDate(2025, time.July, 14)).opened(models.NewDate(2025, time.July, 15))
	if !d.isOpen() || d.date != models.NewDate(2025, time.July, 15) {
		t.Errorf("detail = %+v, want open on 2025-07-15", d)
	}

	// A single dismiss closes the panel no matter how many days were opened
	if d.dismissed().isOpen() {
		t.Error("dismiss should close the panel")
	}
}

func TestRenderDetail_NoQualifyingTides(t *testing.T) {
	day := montereyCalendar().Days[1]

	out := renderDetail(day, models.FilterSettings{MaxTideLevel: 0}, 72)

	if !strings.Contains(out, "No optimal tide pool times") {
		t.Error("expected the no-results message")
	}
	if strings.Contains(out, "★") {
		t.Error("no event should be starred")
	}
	if !strings.Contains(out, "7:10 AM") || !strings.Contains(out, "1:50 PM") {
		t.Error("all tides should still be listed")
	}
}

func TestRenderGrid_Layout(t *testing.T) {
	c := newCalendarView(montereyCalendar(), models.FilterSettings{})

	grid := c.renderGrid()
	lines := strings.Split(grid, "\n")

	// Header, weekdays and five weeks for July 2025
	if len(lines) != 7 {
		t.Fatalf("grid has %d lines, want 7:\n%s", len(lines), grid)
	}
	if !strings.HasPrefix(lines[2], strings.Repeat(" ", 10)) {
		t.Errorf("July 2025 starts on a Tuesday, first week = %q", lines[2])
	}
	if !strings.Contains(lines[6], "31") {
		t.Errorf("last week should end on the 31st, got %q", lines[6])
	}
}
