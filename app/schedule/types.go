// Package schedule reconciles the schedule and program manifests into a
// single time-ordered agenda. The schedule manifest's explicit entries
// are authoritative; program sessions fill the gaps they are allowed to
// fill and contribute titles, descriptions and speaker lineups to the
// entries that reference them.
package schedule

// Venue is a normalized venue after merging both manifests' records.
type Venue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Location string `json:"location,omitempty"`
	MapURL   string `json:"mapUrl,omitempty"`
	Order    int    `json:"order"`
}

// Day is a normalized event day after merging both manifests' records.
type Day struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Subtitle string `json:"subtitle,omitempty"`
	Date     string `json:"date,omitempty"`
	Order    int    `json:"order"`
}

// Entry is one resolved agenda slot.
type Entry struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Subtitle          string   `json:"subtitle,omitempty"`
	Description       string   `json:"description,omitempty"`
	DetailDescription string   `json:"detailDescription,omitempty"`
	Category          string   `json:"category"`
	DataType          string   `json:"dataType"`
	DayID             string   `json:"dayId"`
	DayLabel          string   `json:"dayLabel"`
	Date              string   `json:"date,omitempty"`
	StartTime         string   `json:"startTime"`
	EndTime           string   `json:"endTime"`
	DurationMinutes   int      `json:"durationMinutes"`
	StartISO          string   `json:"startIso,omitempty"`
	StartUTC          string   `json:"startUtc,omitempty"`
	VenueID           string   `json:"venueId"`
	VenueName         string   `json:"venueName"`
	VenueLabel        string   `json:"venueLabel"`
	VenueLocation     string   `json:"venueLocation,omitempty"`
	VenueMapURL       string   `json:"venueMapUrl,omitempty"`
	SessionID         string   `json:"sessionId,omitempty"`
	Speakers          []string `json:"speakers,omitempty"`
}

// Schedule is the reconciled agenda.
type Schedule struct {
	Timezone               string  `json:"timezone"`
	TimeFormat             string  `json:"timeFormat"`
	DefaultDurationMinutes int     `json:"defaultDurationMinutes"`
	Location               string  `json:"location,omitempty"`
	EventStartDate         string  `json:"eventStartDate,omitempty"`
	EventEndDate           string  `json:"eventEndDate,omitempty"`
	DateRangeLabel         string  `json:"dateRangeLabel"`
	LastUpdated            string  `json:"lastUpdated,omitempty"`
	Version                string  `json:"version,omitempty"`
	UpdatedLabel           string  `json:"updatedLabel,omitempty"`
	Note                   string  `json:"note,omitempty"`
	Venues                 []Venue `json:"venues"`
	Days                   []Day   `json:"days"`
	Entries                []Entry `json:"entries"`
}

// Day returns the day record with the given id.
func (s *Schedule) Day(id string) (Day, bool) {
	for _, day := range s.Days {
		if day.ID == id {
			return day, true
		}
	}
	return Day{}, false
}

// DayEntries returns the entries scheduled on the given day, in agenda
// order.
func (s *Schedule) DayEntries(dayID string) []Entry {
	var out []Entry
	for _, entry := range s.Entries {
		if entry.DayID == dayID {
			out = append(out, entry)
		}
	}
	return out
}

// Entry returns the agenda entry with the given id.
func (s *Schedule) Entry(id string) (Entry, bool) {
	for _, entry := range s.Entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}
