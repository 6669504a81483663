package timeutil

import (
	"testing"
	"time"
)

func TestNormalizeClock(t *testing.T) {
	if got := NormalizeClock("9:05 AM"); got != "09:05" {
		t.Errorf("Expected '09:05', got '%s'", got)
	}
	if got := NormalizeClock("17:30:00"); got != "17:30" {
		t.Errorf("Expected '17:30', got '%s'", got)
	}
	if got := NormalizeClock("25:00"); got != "" {
		t.Errorf("Expected empty for hour 25, got '%s'", got)
	}
	if got := NormalizeClock("lunch"); got != "" {
		t.Errorf("Expected empty for non-time, got '%s'", got)
	}
}

func TestDiffMinutesWrapsMidnight(t *testing.T) {
	if got := DiffMinutes("09:00", "09:45"); got != 45 {
		t.Errorf("Expected 45, got %d", got)
	}
	if got := DiffMinutes("23:30", "01:00"); got != 90 {
		t.Errorf("Expected 90 for overnight range, got %d", got)
	}
	if got := DiffMinutes("bad", "10:00"); got != 0 {
		t.Errorf("Expected 0 for unparseable start, got %d", got)
	}
}

func TestAddClockMinutes(t *testing.T) {
	if got := AddClockMinutes("23:30", 45); got != "00:15" {
		t.Errorf("Expected '00:15', got '%s'", got)
	}
	if got := AddClockMinutes("10:00", -75); got != "08:45" {
		t.Errorf("Expected '08:45', got '%s'", got)
	}
}

func TestParseISOInstant(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("Expected tzdata to resolve LA, got: %v", err)
	}

	instant, ok := ParseISOInstant("2025-10-31T09:00:00-07:00", loc)
	if !ok {
		t.Fatal("Expected parse to succeed")
	}
	if got := FormatUTC(instant); got != "2025-10-31T16:00:00Z" {
		t.Errorf("Expected offset to be ignored in favor of the zone, got '%s'", got)
	}

	if _, ok := ParseISOInstant("2025-10-31", loc); ok {
		t.Error("Expected date-only value to fail")
	}
}

func TestAddMinutesLocalAcrossDST(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")

	// DST ends 2025-11-02 at 02:00 PDT in Los Angeles.
	date, clock, ok := AddMinutesLocal("2025-11-01", "23:30", 180, loc)
	if !ok {
		t.Fatal("Expected add to succeed")
	}
	if date != "2025-11-02" || clock != "01:30" {
		t.Errorf("Expected 2025-11-02 01:30 after the fall-back hour, got %s %s", date, clock)
	}
}

func TestResolverAliases(t *testing.T) {
	resolver := NewResolver("")

	if got := resolver.Resolve("Pacific Time").String(); got != "America/Los_Angeles" {
		t.Errorf("Expected alias to resolve to America/Los_Angeles, got '%s'", got)
	}
	if got := resolver.Resolve("america/los angeles").String(); got != "America/Los_Angeles" {
		t.Errorf("Expected spaced name to resolve, got '%s'", got)
	}
	if got := resolver.Resolve("europe/berlin").String(); got != "Europe/Berlin" {
		t.Errorf("Expected case normalization to resolve Berlin, got '%s'", got)
	}
	if got := resolver.Resolve("Atlantis/Nowhere").String(); got != "America/Los_Angeles" {
		t.Errorf("Expected unresolvable zone to use fallback, got '%s'", got)
	}
}

func TestResolverFallbackDegrades(t *testing.T) {
	resolver := NewResolver("Not/AZone")
	if got := resolver.Fallback(); got != DefaultTimezone {
		t.Errorf("Expected invalid fallback to degrade to default, got '%s'", got)
	}
}
