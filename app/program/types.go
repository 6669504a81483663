// Package program normalizes the program manifest's sessions and
// speakers into the canonical records the agenda, the program view and
// the speaker index are built from.
package program

// Speaker is a normalized speaker record.
type Speaker struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	Bio           string `json:"bio,omitempty"`
	Headshot      string `json:"headshot,omitempty"`
	LocalHeadshot string `json:"localHeadshot,omitempty"`
}

// Session is a normalized program session. SourceID is the identifier
// the feed supplied, empty when it supplied none; ID always carries a
// usable value, synthesized from the session's position when needed.
type Session struct {
	ID              string    `json:"id"`
	SourceID        string    `json:"-"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	RawType         string    `json:"rawType,omitempty"`
	RawCategory     string    `json:"-"`
	Category        string    `json:"category"`
	Order           int       `json:"order"`
	IsKeynote       bool      `json:"isKeynote,omitempty"`
	Date            string    `json:"date,omitempty"`
	DayLabel        string    `json:"dayLabel,omitempty"`
	StartTime       string    `json:"startTime,omitempty"`
	EndTime         string    `json:"endTime,omitempty"`
	StartISO        string    `json:"startIso,omitempty"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Venue           string    `json:"venue,omitempty"`
	Speakers        []Speaker `json:"speakers"`
}
