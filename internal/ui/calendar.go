package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/planner"
	"github.com/ngmaloney/tidepool-terminal/internal/tides"
)

// tideLevelStep is the +/- increment of the max tide level, in feet
const tideLevelStep = 0.1

// calendarView is the month grid shown once predictions are loaded
type calendarView struct {
	cal      *planner.TideCalendar
	month    models.Date // first day of the displayed month
	cursor   models.Date
	settings models.FilterSettings
	detail   detailView
}

// newCalendarView starts on today when predictions cover it, otherwise on the
// first predicted day
func newCalendarView(cal *planner.TideCalendar, settings models.FilterSettings) calendarView {
	cursor := cal.Today
	if len(cal.Days) > 0 {
		if _, ok := cal.Day(cursor); !ok {
			cursor = cal.Days[0].Date
		}
	}
	if cursor.IsZero() {
		cursor = models.DateOf(time.Now())
	}
	return calendarView{
		cal:      cal,
		month:    cursor.FirstOfMonth(),
		cursor:   cursor,
		settings: settings,
	}
}

func (c calendarView) moveCursor(days int) calendarView {
	c.cursor = c.cursor.AddDays(days)
	c.month = c.cursor.FirstOfMonth()
	return c
}

// shiftMonth shows the month n months away, keeping the cursor's day of
// month where the new month allows it
func (c calendarView) shiftMonth(n int) calendarView {
	c.month = c.month.AddMonths(n)
	day := c.cursor.Day
	if last := c.month.DaysInMonth(); day > last {
		day = last
	}
	c.cursor = models.NewDate(c.month.Year, c.month.Month, day)
	return c
}

// adjustLevel moves the max tide level by delta, rounded to a tenth of a foot
func (c calendarView) adjustLevel(delta float64) calendarView {
	c.settings.MaxTideLevel = math.Round((c.settings.MaxTideLevel+delta)*10) / 10
	return c
}

func (c calendarView) toggleDaylight() calendarView {
	c.settings.DaylightOnly = !c.settings.DaylightOnly
	return c
}

// openDetail opens the detail panel on the cursor day if it has predictions
func (c calendarView) openDetail() calendarView {
	if _, ok := c.cal.Day(c.cursor); ok {
		c.detail = c.detail.opened(c.cursor)
	}
	return c
}

func (c calendarView) dismissDetail() calendarView {
	c.detail = c.detail.dismissed()
	return c
}

// goodDaysInMonth counts the displayed month's days passing the filter
func (c calendarView) goodDaysInMonth() int {
	count := 0
	for _, d := range c.cal.GoodDays(c.settings) {
		if d.Year == c.month.Year && d.Month == c.month.Month {
			count++
		}
	}
	return count
}

// renderGrid draws the Sunday-first month grid
func (c calendarView) renderGrid() string {
	var b strings.Builder

	header := c.month.Time(time.UTC).Format("January 2006")
	b.WriteString(titleStyle.Render(fmt.Sprintf("%-21s", header)))
	b.WriteString("\n")

	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(weekdayStyle.Render(fmt.Sprintf("%-4s", wd)))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	lead := int(c.month.Weekday())
	b.WriteString(strings.Repeat("     ", lead))

	col := lead
	for day := 1; day <= c.month.DaysInMonth(); day++ {
		date := models.NewDate(c.month.Year, c.month.Month, day)
		b.WriteString(c.renderCell(date))
		col++
		if col == 7 && day != c.month.DaysInMonth() {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (c calendarView) renderCell(date models.Date) string {
	marker := " "
	summary, ok := c.cal.Day(date)
	if ok && tides.ReachesThreshold(summary, c.settings) {
		marker = thresholdDotStyle.Render("•")
	}
	text := fmt.Sprintf("%3d", date.Day)

	var style lipgloss.Style
	switch {
	case date == c.cursor:
		style = cursorStyle
	case ok && tides.IsGoodDay(summary, c.settings):
		style = goodDayStyle
	case !ok:
		style = noDataStyle
	default:
		style = valueStyle
	}
	if date == c.cal.Today {
		style = style.Inherit(todayStyle)
	}
	return style.Render(text) + marker
}

// renderFilters shows the current filter settings
func (c calendarView) renderFilters() string {
	daylight := "off"
	if c.settings.DaylightOnly {
		daylight = "on"
	}
	return fmt.Sprintf("%s %s    %s %s    %s",
		labelStyle.Render("Max tide level:"),
		valueStyle.Render(fmt.Sprintf("%.1f ft", c.settings.MaxTideLevel)),
		labelStyle.Render("Daylight only:"),
		valueStyle.Render(daylight),
		successStyle.Render(fmt.Sprintf("%d good days this month", c.goodDaysInMonth())),
	)
}

// renderLegend explains the cell markers
func renderLegend() string {
	return strings.Join([]string{
		goodDayStyle.Render(" 12 ") + mutedStyle.Render(" good tide-pool day"),
		thresholdDotStyle.Render("•") + mutedStyle.Render(" lowest tide at or below max level"),
		todayStyle.Render("12") + mutedStyle.Render(" today"),
	}, "   ")
}

func (c calendarView) qualifying(day models.DaySummary) []models.TideEvent {
	return tides.QualifyingEvents(day, c.settings)
}
