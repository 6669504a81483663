package schedule

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

func testScheduleManifest() *manifest.ScheduleManifest {
	return &manifest.ScheduleManifest{
		Version:                "2025.4",
		Timezone:               "Pacific Time",
		DefaultDurationMinutes: 45,
		Venues: manifest.RawVenueSet{
			{ID: "hq", Name: "Headquarters", Location: "123 Main St"},
		},
		Days: manifest.RawDaySet{
			{ID: "day-1", Date: "2025-10-31", Label: "Friday"},
		},
		Entries: []manifest.RawEntry{
			{
				DayID:     "day-1",
				VenueID:   "hq",
				StartTime: "9:00",
				SessionID: "talk-1",
				Category:  "talks",
			},
		},
	}
}

func testProgramManifest() *manifest.ProgramManifest {
	return &manifest.ProgramManifest{
		Sessions: []manifest.RawSession{
			{
				ID:          "talk-1",
				Title:       "Opening Keynote",
				Description: "Welcome and the year in review.",
				Category:    "talks",
				Date:        "2025-10-31",
				StartTime:   "09:00",
				Speakers:    []manifest.RawSpeaker{{Name: "Ada Lovelace"}},
			},
			{
				ID:        "lunch-1",
				Title:     "Lunch",
				Category:  "lunch",
				Date:      "2025-10-31",
				StartTime: "12:00",
				EndTime:   "13:00",
				Venue:     "hq",
			},
			{
				ID:        "talk-2",
				Title:     "Unscheduled Talk",
				Category:  "talks",
				Date:      "2025-10-31",
				StartTime: "15:00",
			},
		},
	}
}

func newTestReconciler() *Reconciler {
	return NewReconciler(timeutil.NewResolver(""))
}

func TestRunResolvesEntryAgainstSession(t *testing.T) {
	result := newTestReconciler().Run(testScheduleManifest(), testProgramManifest())

	if result.Timezone != "America/Los_Angeles" {
		t.Errorf("Expected resolved timezone 'America/Los_Angeles', got '%s'", result.Timezone)
	}

	entry, ok := result.Entry("day-1-hq-09:00")
	if !ok {
		t.Fatalf("Expected keynote entry, entries: %+v", result.Entries)
	}
	if entry.Title != "Opening Keynote" {
		t.Errorf("Expected title from session, got '%s'", entry.Title)
	}
	if entry.EndTime != "09:45" {
		t.Errorf("Expected end '09:45' from default duration, got '%s'", entry.EndTime)
	}
	if entry.DurationMinutes != 45 {
		t.Errorf("Expected manifest default duration 45, got %d", entry.DurationMinutes)
	}
	if entry.StartISO != "2025-10-31T09:00:00-07:00" {
		t.Errorf("Expected PDT offset on startIso, got '%s'", entry.StartISO)
	}
	if entry.StartUTC != "2025-10-31T16:00:00Z" {
		t.Errorf("Expected startUtc '2025-10-31T16:00:00Z', got '%s'", entry.StartUTC)
	}
	if entry.DataType != "talk" {
		t.Errorf("Expected dataType 'talk', got '%s'", entry.DataType)
	}
	if len(entry.Speakers) != 1 || entry.Speakers[0] != "Ada Lovelace" {
		t.Errorf("Expected speaker lineup from session, got %v", entry.Speakers)
	}
	if entry.Description != "Welcome and the year in review." {
		t.Errorf("Expected description from session, got '%s'", entry.Description)
	}
	if entry.VenueLocation != "123 Main St" {
		t.Errorf("Expected venue location, got '%s'", entry.VenueLocation)
	}
}

func TestRunAutoIncludesWhitelistedCategoriesOnly(t *testing.T) {
	result := newTestReconciler().Run(testScheduleManifest(), testProgramManifest())

	if len(result.Entries) != 2 {
		t.Fatalf("Expected 2 entries (keynote + lunch), got %d: %+v", len(result.Entries), result.Entries)
	}
	lunch, ok := result.Entry("session-entry-lunch-1")
	if !ok {
		t.Fatalf("Expected auto-included lunch entry")
	}
	if lunch.Category != "lunch" || lunch.DataType != "logistics" {
		t.Errorf("Expected lunch/logistics, got %s/%s", lunch.Category, lunch.DataType)
	}
	if lunch.DurationMinutes != 60 {
		t.Errorf("Expected lunch duration 60 from end minus start, got %d", lunch.DurationMinutes)
	}
	if _, ok := result.Entry("session-entry-talk-2"); ok {
		t.Error("Expected non-whitelisted talk to stay out of the agenda")
	}
}

func TestRunDropsDuplicateDerivedSlot(t *testing.T) {
	sm := testScheduleManifest()
	// Explicit entry occupies the same slot the lunch session would fill.
	sm.Entries = append(sm.Entries, manifest.RawEntry{
		DayID:     "day-1",
		VenueID:   "hq",
		StartTime: "12:00",
		Title:     "Catered Lunch",
		Category:  "lunch",
	})
	pm := testProgramManifest()
	pm.Sessions[1].ID = ""

	result := newTestReconciler().Run(sm, pm)

	var lunchEntries []Entry
	for _, entry := range result.Entries {
		if entry.StartTime == "12:00" {
			lunchEntries = append(lunchEntries, entry)
		}
	}
	if len(lunchEntries) != 1 {
		t.Fatalf("Expected single 12:00 entry, got %d", len(lunchEntries))
	}
	if lunchEntries[0].Title != "Catered Lunch" {
		t.Errorf("Expected explicit entry to win the slot, got '%s'", lunchEntries[0].Title)
	}
}

func TestRunWithoutExplicitEntriesUsesDerivedOnly(t *testing.T) {
	sm := testScheduleManifest()
	sm.Entries = nil

	result := newTestReconciler().Run(sm, testProgramManifest())

	// With no explicit entries every dated session derives an entry,
	// whitelist or not.
	if len(result.Entries) != 3 {
		t.Fatalf("Expected 3 derived entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Title != "Opening Keynote" {
		t.Errorf("Expected chronological order with keynote first, got '%s'", result.Entries[0].Title)
	}
}

func TestRunSortsAcrossDaysAndVenues(t *testing.T) {
	sm := testScheduleManifest()
	sm.Venues = append(sm.Venues, manifest.RawVenue{ID: "annex", Name: "Annex"})
	sm.Days = append(sm.Days, manifest.RawDay{ID: "day-2", Date: "2025-11-01", Label: "Saturday"})
	sm.Entries = []manifest.RawEntry{
		{DayID: "day-2", VenueID: "hq", StartTime: "10:00", Title: "Later Day"},
		{DayID: "day-1", VenueID: "hq", StartTime: "10:00", Title: "B Venue Order"},
		{DayID: "day-1", VenueID: "annex", StartTime: "10:00", Title: "A Venue Order"},
		{DayID: "day-1", VenueID: "hq", StartTime: "09:00", Title: "Earliest"},
	}

	result := newTestReconciler().Run(sm, nil)
	if len(result.Entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(result.Entries))
	}

	titles := []string{"Earliest", "A Venue Order", "B Venue Order", "Later Day"}
	for i, want := range titles {
		if result.Entries[i].Title != want {
			t.Errorf("Expected entry %d to be '%s', got '%s'", i, want, result.Entries[i].Title)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	r := newTestReconciler()
	first := r.Run(testScheduleManifest(), testProgramManifest())
	second := r.Run(testScheduleManifest(), testProgramManifest())

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Expected no error marshaling schedule, got: %v", err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Expected no error marshaling schedule, got: %v", err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Errorf("Expected byte-identical output across runs:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestRunDropsEntriesWithUnknownRefs(t *testing.T) {
	sm := testScheduleManifest()
	sm.Entries = append(sm.Entries,
		manifest.RawEntry{DayID: "day-9", VenueID: "hq", StartTime: "10:00", Title: "Ghost Day"},
		manifest.RawEntry{DayID: "day-1", VenueID: "nowhere", StartTime: "10:00", Title: "Ghost Venue"},
		manifest.RawEntry{DayID: "day-1", VenueID: "hq", Title: "No Start"},
	)

	result := newTestReconciler().Run(sm, testProgramManifest())
	for _, entry := range result.Entries {
		if entry.Title == "Ghost Day" || entry.Title == "Ghost Venue" || entry.Title == "No Start" {
			t.Errorf("Expected unresolvable entry '%s' to be dropped", entry.Title)
		}
	}
}

func TestRunStandardTimeOffset(t *testing.T) {
	sm := testScheduleManifest()
	sm.Days = manifest.RawDaySet{{ID: "day-1", Date: "2025-11-02", Label: "Sunday"}}

	result := newTestReconciler().Run(sm, nil)
	entry := result.Entries[0]
	if entry.StartISO != "2025-11-02T09:00:00-08:00" {
		t.Errorf("Expected PST offset after the DST change, got '%s'", entry.StartISO)
	}
	if entry.StartUTC != "2025-11-02T17:00:00Z" {
		t.Errorf("Expected startUtc '2025-11-02T17:00:00Z', got '%s'", entry.StartUTC)
	}
}
