package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeFormat is used when a manifest names no display preference.
const DefaultTimeFormat = "12h"

// NormalizeTimeFormat collapses the many ways manifests spell a time
// format preference ("24-hour", "am/pm", "12") into "12h" or "24h".
func NormalizeTimeFormat(value string) string {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return DefaultTimeFormat
	}
	switch raw {
	case "24h", "24-hour", "24 hour", "24hour", "24":
		return "24h"
	case "12h", "12-hour", "12 hour", "12hour", "12", "am/pm", "ampm":
		return "12h"
	}
	if strings.Contains(raw, "24") {
		return "24h"
	}
	if strings.Contains(raw, "12") || strings.Contains(raw, "am") || strings.Contains(raw, "pm") {
		return "12h"
	}
	return DefaultTimeFormat
}

// FormatClockDisplay renders a clock value for display in the given
// format. Unparseable input is returned as-is.
func FormatClockDisplay(clock, format string) string {
	hour, minute, ok := ParseClock(clock)
	if !ok {
		return clock
	}
	if NormalizeTimeFormat(format) == "24h" {
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

// FormatTimeRange renders "9:00 AM – 10:30 AM" style range labels. A
// missing end yields the start alone; a missing start yields "".
func FormatTimeRange(start, end, format string) string {
	startLabel := ""
	if NormalizeClock(start) != "" {
		startLabel = FormatClockDisplay(start, format)
	}
	if startLabel == "" {
		return ""
	}
	if NormalizeClock(end) == "" {
		return startLabel
	}
	return startLabel + " – " + FormatClockDisplay(end, format)
}

// FormatDuration renders minutes as "2 hrs 15 min" style labels.
// Non-positive input yields "".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	remainder := minutes % 60
	var parts []string
	if hours == 1 {
		parts = append(parts, "1 hr")
	} else if hours > 1 {
		parts = append(parts, fmt.Sprintf("%d hrs", hours))
	}
	if remainder > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d min", remainder))
	}
	return strings.Join(parts, " ")
}

// FormatDayLabel synthesizes a weekday label ("Friday, Oct 31") from an
// ISO calendar date, for days that carry no authored label.
func FormatDayLabel(date string) string {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return ""
	}
	return parsed.Format("Monday, Jan 2")
}

// FormatDateDisplay renders an ISO calendar date as "Oct 31, 2025".
func FormatDateDisplay(date string) string {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return ""
	}
	return parsed.Format("Jan 2, 2006")
}

// FormatDateRange renders the event date span for display.
func FormatDateRange(start, end string) string {
	startLabel := FormatDateDisplay(start)
	endLabel := FormatDateDisplay(end)
	if startLabel == "" && endLabel == "" {
		return "Dates TBA"
	}
	if endLabel == "" || startLabel == endLabel {
		return startLabel
	}
	if startLabel == "" {
		return endLabel
	}
	return startLabel + " → " + endLabel
}

// FormatLastUpdated builds the "Updated ... · Version ..." label from the
// manifest's lastUpdated timestamp and version token. Either part may be
// absent; both absent yields "".
func FormatLastUpdated(lastUpdated, version string, loc *time.Location) string {
	label := ""
	if ts := parseFlexibleTimestamp(lastUpdated); !ts.IsZero() {
		if loc == nil {
			loc = time.UTC
		}
		label = "Updated " + ts.In(loc).Format("Jan 2, 2006, 3:04 PM MST")
	}
	if version != "" {
		versionLabel := "Version " + version
		if label != "" {
			return label + " · " + versionLabel
		}
		return versionLabel
	}
	return label
}

func parseFlexibleTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
