package program

import (
	"testing"

	"github.com/makerconf/agenda-comb/app/manifest"
)

func TestParseSessionsNormalization(t *testing.T) {
	order := manifest.FlexInt(7)
	pm := &manifest.ProgramManifest{
		Sessions: []manifest.RawSession{
			{
				ID:        "talk-1",
				Title:     "  Opening Keynote  ",
				Category:  "Talks",
				Format:    "Keynote",
				IsKeynote: true,
				Date:      "2025-10-31T00:00:00",
				StartTime: "9:00",
				EndTime:   "9:45",
				Order:     &order,
				Speakers:  []manifest.RawSpeaker{{Name: "Ada   Lovelace"}},
			},
			{
				Title:           "Badge Hacking",
				Category:        "workshop",
				Time:            "14:00",
				DurationMinutes: 90,
			},
		},
	}

	sessions := ParseSessions(pm)
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}

	first := sessions[0]
	if first.Title != "Opening Keynote" {
		t.Errorf("Expected trimmed title, got '%s'", first.Title)
	}
	if first.Category != "talks" || first.RawCategory != "talks" {
		t.Errorf("Expected category 'talks', got '%s'/'%s'", first.Category, first.RawCategory)
	}
	if first.Date != "2025-10-31" {
		t.Errorf("Expected date truncated to '2025-10-31', got '%s'", first.Date)
	}
	if first.StartTime != "09:00" {
		t.Errorf("Expected start '09:00', got '%s'", first.StartTime)
	}
	if first.DurationMinutes != 45 {
		t.Errorf("Expected duration 45 from end minus start, got %d", first.DurationMinutes)
	}
	if first.StartISO != "2025-10-31T09:00" {
		t.Errorf("Expected startIso '2025-10-31T09:00', got '%s'", first.StartISO)
	}
	if first.Order != 7 {
		t.Errorf("Expected explicit order 7, got %d", first.Order)
	}
	if first.Speakers[0].DisplayName != "Ada Lovelace" {
		t.Errorf("Expected collapsed display name, got '%s'", first.Speakers[0].DisplayName)
	}

	second := sessions[1]
	if second.ID != "session-2" {
		t.Errorf("Expected synthesized id 'session-2', got '%s'", second.ID)
	}
	if second.SourceID != "" {
		t.Errorf("Expected empty source id, got '%s'", second.SourceID)
	}
	if second.Category != "workshops" {
		t.Errorf("Expected category 'workshops', got '%s'", second.Category)
	}
	if second.EndTime != "15:30" {
		t.Errorf("Expected end computed as '15:30', got '%s'", second.EndTime)
	}
	if second.Order != 1 {
		t.Errorf("Expected positional order 1, got %d", second.Order)
	}
}

func TestProgramSessionsFilter(t *testing.T) {
	sessions := []Session{
		{Title: "Keynote", Category: "talks", Speakers: []Speaker{{Name: "A"}}},
		{Title: "Lunch", Category: "talks"},
		{Title: "", Category: "workshops", Speakers: []Speaker{{Name: "B"}}},
		{Title: "Workshop", Category: "workshops", Speakers: []Speaker{{Name: "C"}}},
	}

	filtered := ProgramSessions(sessions)
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 sessions after filtering, got %d", len(filtered))
	}
	if filtered[0].Title != "Keynote" || filtered[1].Title != "Workshop" {
		t.Errorf("Expected Keynote and Workshop, got %+v", filtered)
	}
}

func TestSanitizeBio(t *testing.T) {
	if got := SanitizeBio("  builds\n\nrobots\t for fun  "); got != "builds robots for fun" {
		t.Errorf("Expected collapsed bio, got '%s'", got)
	}
	if got := SanitizeBio(""); got != "" {
		t.Errorf("Expected empty bio to stay empty, got '%s'", got)
	}
}
