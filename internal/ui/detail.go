package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/tides"
)

// detailView is the day-detail overlay. It is either closed or open on one
// date, and only changes through open and dismiss.
type detailView struct {
	open bool
	date models.Date
}

// opened returns the view showing date, replacing any day already shown
func (d detailView) opened(date models.Date) detailView {
	return detailView{open: true, date: date}
}

func (d detailView) dismissed() detailView {
	return detailView{}
}

func (d detailView) isOpen() bool { return d.open }

// renderDetail renders the detail panel for day under settings
func renderDetail(day models.DaySummary, settings models.FilterSettings, width int) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("Tide Details"))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render(day.Date.Time(time.UTC).Format("Monday, January 2, 2006")))
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("%s %s    %s %s\n",
		labelStyle.Render("Lowest tide:"),
		valueStyle.Render(fmt.Sprintf("%.1f ft", day.MinHeight)),
		labelStyle.Render("Highest tide:"),
		valueStyle.Render(fmt.Sprintf("%.1f ft", day.MaxHeight)),
	))

	content.WriteString(sectionHeaderStyle.Render("Best Tide Pool Times"))
	content.WriteString("\n")
	good := tides.QualifyingEvents(day, settings)
	if len(good) == 0 {
		content.WriteString(mutedStyle.Render("No optimal tide pool times for this day based on your filters"))
		content.WriteString("\n")
		if !tides.HasLowTides(day) {
			content.WriteString(mutedStyle.Render("No low tides are predicted on this day"))
		} else {
			content.WriteString(mutedStyle.Render("Try adjusting your tide level or daylight preferences"))
		}
		content.WriteString("\n")
	}
	for _, e := range good {
		content.WriteString(fmt.Sprintf("  %s  %-8s  %s\n",
			goodTideStyle.Render(fmt.Sprintf("%8s", e.Time.Format12h())),
			daylightLabel(e.IsDaylight),
			goodTideStyle.Render(fmt.Sprintf("%.1f ft", e.Height)),
		))
	}

	content.WriteString(sectionHeaderStyle.Render("All Tides"))
	content.WriteString("\n")
	qualifies := make(map[models.TideEvent]bool, len(good))
	for _, e := range good {
		qualifies[e] = true
	}
	for _, entry := range day.Timeline() {
		line := fmt.Sprintf("  %8s  %-4s  %5.1f ft  %s",
			entry.Time.Format12h(),
			entry.Kind.String(),
			entry.Height,
			daylightLabel(entry.IsDaylight),
		)
		if entry.Kind == models.TideLow && qualifies[entry.TideEvent] {
			line = goodTideStyle.Render(line + "  ★")
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(mutedStyle.Render("Esc: Close"))

	return detailBoxStyle.Width(width).Render(content.String())
}

func daylightLabel(daylight bool) string {
	if daylight {
		return "Daylight"
	}
	return "Night"
}

// placeDetail centers the panel over the available area
func placeDetail(panel string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
