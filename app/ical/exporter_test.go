package ical

import (
	"strings"
	"testing"

	"github.com/makerconf/agenda-comb/app/timeutil"
)

func newTestExporter() *Exporter {
	return NewExporter(timeutil.NewResolver(""), "makerconf.example.com", "-//Maker Conf 2025//Agenda//EN", "Maker Conf 2025")
}

func testEvent() Event {
	return Event{
		Summary:         "Opening Keynote",
		Description:     "Welcome and the year in review.",
		Location:        "Headquarters",
		DayLabel:        "Friday",
		StartISO:        "2025-10-31T09:00",
		DurationMinutes: 45,
		Timezone:        "Pacific Time",
		MapURL:          "https://maps.example.com/hq",
		PageURL:         "https://makerconf.example.com/schedule",
	}
}

// unfold undoes RFC 5545 line folding so assertions can match whole
// property values.
func unfold(payload string) string {
	return strings.ReplaceAll(payload, "\r\n ", "")
}

func TestRunProducesTimezoneQualifiedEvent(t *testing.T) {
	payload, err := newTestExporter().Run(testEvent())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	flat := unfold(payload)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//Maker Conf 2025//Agenda//EN",
		"CALSCALE:GREGORIAN",
		"X-WR-TIMEZONE:America/Los_Angeles",
		"DTSTART;TZID=America/Los_Angeles:20251031T090000",
		"DTEND;TZID=America/Los_Angeles:20251031T094500",
		"SUMMARY:Opening Keynote",
		"LOCATION:Headquarters",
		"STATUS:CONFIRMED",
		"TRANSP:OPAQUE",
		"END:VCALENDAR",
	} {
		if !strings.Contains(flat, want) {
			t.Errorf("Expected payload to contain '%s'\npayload:\n%s", want, payload)
		}
	}
}

func TestRunUIDIsDeterministic(t *testing.T) {
	exporter := newTestExporter()
	first, err := exporter.Run(testEvent())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := exporter.Run(testEvent())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	uid := "UID:20251031T090000-opening-keynote-headquarters@makerconf.example.com"
	if !strings.Contains(unfold(first), uid) {
		t.Errorf("Expected UID '%s' in payload:\n%s", uid, first)
	}
	if !strings.Contains(unfold(second), uid) {
		t.Errorf("Expected identical UID across exports")
	}
}

func TestRunIncludesLosAngelesTimezoneDefinition(t *testing.T) {
	payload, err := newTestExporter().Run(testEvent())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	flat := unfold(payload)

	for _, want := range []string{
		"BEGIN:VTIMEZONE",
		"TZID:America/Los_Angeles",
		"TZNAME:PDT",
		"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU",
		"TZNAME:PST",
		"RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU",
		"END:VTIMEZONE",
	} {
		if !strings.Contains(flat, want) {
			t.Errorf("Expected VTIMEZONE block to contain '%s'\npayload:\n%s", want, payload)
		}
	}
}

func TestRunOmitsTimezoneDefinitionForOtherZones(t *testing.T) {
	event := testEvent()
	event.Timezone = "Europe/Berlin"

	payload, err := newTestExporter().Run(event)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(payload, "BEGIN:VTIMEZONE") {
		t.Error("Expected no VTIMEZONE block for non-Los Angeles zones")
	}
	if !strings.Contains(unfold(payload), "DTSTART;TZID=Europe/Berlin:20251031T090000") {
		t.Errorf("Expected Berlin TZID on DTSTART, payload:\n%s", payload)
	}
}

func TestRunDescriptionSections(t *testing.T) {
	payload, err := newTestExporter().Run(testEvent())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	flat := unfold(payload)

	want := `DESCRIPTION:Friday\nWelcome and the year in review.\nHeadquarters\nMap: https://maps.example.com/hq\nMaker Conf 2025`
	if !strings.Contains(flat, want) {
		t.Errorf("Expected description sections '%s'\npayload:\n%s", want, payload)
	}
}

func TestRunUsesCRLFLineBreaks(t *testing.T) {
	payload, err := newTestExporter().Run(testEvent())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(payload, "\r\n") {
		t.Fatal("Expected CRLF line breaks in payload")
	}
	if strings.Contains(strings.ReplaceAll(payload, "\r\n", ""), "\n") {
		t.Error("Expected no bare LF line breaks in payload")
	}
}

func TestRunRejectsMissingStart(t *testing.T) {
	event := testEvent()
	event.StartISO = ""
	if _, err := newTestExporter().Run(event); err == nil {
		t.Error("Expected error for event without start")
	}
}

func TestRunFallsBackToDefaultDuration(t *testing.T) {
	event := testEvent()
	event.DurationMinutes = 0

	payload, err := newTestExporter().Run(event)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(unfold(payload), "DTEND;TZID=America/Los_Angeles:20251031T100000") {
		t.Errorf("Expected one hour default duration, payload:\n%s", payload)
	}
}

func TestSuggestFilename(t *testing.T) {
	got := SuggestFilename("Opening Keynote!", "2025-10-31T09:00:00-07:00")
	if got != "opening-keynote-202510310900000700.ics" {
		t.Errorf("Expected 'opening-keynote-202510310900000700.ics', got '%s'", got)
	}
}
