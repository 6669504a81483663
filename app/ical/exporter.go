// Package ical renders agenda entries as downloadable calendar events.
// Events carry local times qualified with a TZID so calendar clients
// show the event at the venue's wall-clock time wherever the attendee
// happens to be.
package ical

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/makerconf/agenda-comb/app/slug"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

const fallbackDurationMinutes = 60

// Event is the calendar-facing view of an agenda entry.
type Event struct {
	Summary         string
	Description     string
	Location        string
	DayLabel        string
	StartISO        string
	DurationMinutes int
	Timezone        string
	MapURL          string
	PageURL         string
}

// Exporter renders events as single-event VCALENDAR payloads.
type Exporter struct {
	resolver *timeutil.Resolver
	host     string
	prodID   string
	footer   string
}

// NewExporter creates an exporter. The host anchors event UIDs, the
// footer is appended to every event description (typically the event
// name), and prodID identifies the generator.
func NewExporter(resolver *timeutil.Resolver, host, prodID, footer string) *Exporter {
	return &Exporter{
		resolver: resolver,
		host:     host,
		prodID:   prodID,
		footer:   footer,
	}
}

// Run renders one event. It fails only when the event has no resolvable
// start instant.
func (e *Exporter) Run(event Event) (string, error) {
	loc := e.resolver.Resolve(event.Timezone)
	timezone := loc.String()

	start, ok := timeutil.ParseISOInstant(event.StartISO, loc)
	if !ok {
		return "", fmt.Errorf("failed to parse event start %q", event.StartISO)
	}

	durationMinutes := event.DurationMinutes
	if durationMinutes <= 0 {
		durationMinutes = fallbackDurationMinutes
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	dtStart := timeutil.FormatICSLocal(start, loc)
	dtEnd := timeutil.FormatICSLocal(end, loc)

	location := event.Location
	locationSlug := slug.Fallback
	if location != "" {
		locationSlug = slug.Make(location)
	}
	uid := fmt.Sprintf("%s-%s-%s@%s", dtStart, slug.Make(event.Summary), locationSlug, e.host)

	cal := ics.NewCalendar()
	cal.SetVersion("2.0")
	cal.SetProductId(e.prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRTimezone(timezone)

	if timezone == "America/Los_Angeles" {
		addLosAngelesTimezone(cal)
	}

	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(time.Now().UTC())
	ev.SetProperty(ics.ComponentPropertyDtStart, dtStart, &ics.KeyValues{Key: "TZID", Value: []string{timezone}})
	ev.SetProperty(ics.ComponentPropertyDtEnd, dtEnd, &ics.KeyValues{Key: "TZID", Value: []string{timezone}})
	ev.SetSummary(event.Summary)
	ev.SetDescription(e.buildDescription(event))
	ev.SetLocation(location)
	if event.PageURL != "" {
		ev.SetProperty(ics.ComponentProperty(ics.PropertyUrl), event.PageURL)
	}
	ev.SetStatus(ics.ObjectStatusConfirmed)
	ev.SetTimeTransparency(ics.TransparencyOpaque)

	// RFC 5545 requires CRLF line breaks; the library's default follows
	// the platform.
	return cal.Serialize(ics.WithNewLineWindows), nil
}

func (e *Exporter) buildDescription(event Event) string {
	var sections []string
	if event.DayLabel != "" {
		sections = append(sections, event.DayLabel)
	}
	if event.Description != "" {
		sections = append(sections, event.Description)
	}
	if event.Location != "" {
		sections = append(sections, event.Location)
	}
	if event.MapURL != "" {
		sections = append(sections, "Map: "+event.MapURL)
	}
	if e.footer != "" {
		sections = append(sections, e.footer)
	}
	return strings.Join(sections, "\n")
}

var timestampStripPattern = regexp.MustCompile(`[:T+\-]`)

// SuggestFilename builds the download filename for an event.
func SuggestFilename(title, startISO string) string {
	fragment := timestampStripPattern.ReplaceAllString(startISO, "")
	if fragment == "" {
		fragment = fmt.Sprintf("%d", time.Now().UnixMilli())
	}
	return slug.Make(title) + "-" + fragment + ".ics"
}

// The VTIMEZONE shipped with every Los Angeles event, so clients
// resolve the TZID without consulting their own zone database. The
// rules are the post-2007 US DST schedule.
func addLosAngelesTimezone(cal *ics.Calendar) {
	tz := cal.AddTimezone("America/Los_Angeles")
	tz.AddProperty(ics.ComponentProperty("X-LIC-LOCATION"), "America/Los_Angeles")

	daylight := &ics.Daylight{}
	daylight.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), "-0800")
	daylight.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), "-0700")
	daylight.AddProperty(ics.ComponentProperty(ics.PropertyTzname), "PDT")
	daylight.AddProperty(ics.ComponentProperty(ics.PropertyDtstart), "19700308T020000")
	daylight.AddProperty(ics.ComponentProperty(ics.PropertyRrule), "FREQ=YEARLY;BYMONTH=3;BYDAY=2SU")
	tz.Components = append(tz.Components, daylight)

	standard := tz.AddStandard()
	standard.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), "-0700")
	standard.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), "-0800")
	standard.AddProperty(ics.ComponentProperty(ics.PropertyTzname), "PST")
	standard.AddProperty(ics.ComponentProperty(ics.PropertyDtstart), "19701101T020000")
	standard.AddProperty(ics.ComponentProperty(ics.PropertyRrule), "FREQ=YEARLY;BYMONTH=11;BYDAY=1SU")
}
