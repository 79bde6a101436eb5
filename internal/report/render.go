package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	aheadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	behindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const tableHeader = "Date               Goal       Worked     Day +/-    Total      Status"

// Render writes the report table: excluded-tag banner, one row per visible
// day, weekly summary rows when enabled, a whole-range total footer, and the
// excluded-time summary.
func Render(w io.Writer, rep *Report) {
	if len(rep.Options.IgnoredTags) > 0 {
		styled := make([]string, len(rep.Options.IgnoredTags))
		for i, tag := range rep.Options.IgnoredTags {
			styled[i] = tagStyle.Render(tag)
		}
		fmt.Fprintf(w, "Excluded tags: %s\n\n", strings.Join(styled, ", "))
	}

	rule := strings.Repeat("-", len(tableHeader))
	fmt.Fprintln(w, tableHeader)
	fmt.Fprintln(w, rule)

	weekIdx := 0
	for i, row := range rep.Rows {
		if i > 0 && row.Week != rep.Rows[i-1].Week {
			if rep.Options.WeeklySummary {
				renderWeekSummary(w, rep.Weeks[weekIdx], rule)
			}
			fmt.Fprintln(w, rule)
			weekIdx++
		}
		if row.Hidden {
			continue
		}
		renderRow(w, row)
	}
	if rep.Options.WeeklySummary && weekIdx < len(rep.Weeks) {
		renderWeekSummary(w, rep.Weeks[weekIdx], rule)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-18s %-10s %-10s %s %s\n",
		"Total", formatHours(rep.TotalTarget), formatHours(rep.TotalWorked),
		formatSigned(rep.Delta()), marker(rep.Delta()))

	if rep.Options.SummarizeExcluded && len(rep.Excluded) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Excluded Time Summary:")
		fmt.Fprintln(w, strings.Repeat("-", 30))
		for _, tt := range rep.Excluded {
			// The style widens the string with escape codes, so pad the
			// plain tag before coloring.
			padded := fmt.Sprintf("%-22s", tt.Tag)
			fmt.Fprintf(w, "%s %s\n", tagStyle.Render(padded), formatHours(tt.Total))
		}
	}
}

func renderRow(w io.Writer, row Row) {
	label := fmt.Sprintf("W%02d %s", row.Week, row.Date.Format("Jan Mon 02"))
	fmt.Fprintf(w, "%-18s %-10s %-10s %-10s %-10s %s %s\n",
		label,
		formatHours(row.Target),
		formatHours(row.Worked),
		formatSigned(row.DayDelta),
		formatHours(row.Total),
		formatSigned(row.Running),
		marker(row.Running))
}

func renderWeekSummary(w io.Writer, week WeekSummary, rule string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Week %02d Summary:   %-10s %-10s (%s)\n",
		week.Week, formatHours(week.Target), formatHours(week.Worked), weekStatus(week.Delta()))
}

func weekStatus(delta time.Duration) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("Ahead of goal by %s", formatSigned(delta))
	case delta < 0:
		return fmt.Sprintf("Behind goal by %s", formatSigned(delta))
	}
	return "On track"
}

// marker returns the running-total status indicator: ahead, behind, or
// nothing at exactly zero.
func marker(running time.Duration) string {
	switch {
	case running > 0:
		return aheadStyle.Render("▲")
	case running < 0:
		return behindStyle.Render("▼")
	}
	return ""
}

// formatHours renders a duration as H:MM, minutes truncated.
func formatHours(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%d:%02d", h, m)
}

// formatSigned renders a duration as +H:MM or -H:MM; zero gets a plus.
func formatSigned(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
	}
	return sign + formatHours(d)
}
