// Package manifest defines the two upstream documents the agenda is
// built from and the loader that fetches them. Raw record types absorb
// the field-name and shape variance of the independently authored feeds
// once, at the decoding boundary; everything downstream works with the
// accessor methods.
package manifest

import (
	"cmp"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ScheduleManifest is the venue/day schedule document.
type ScheduleManifest struct {
	Version                string      `json:"version"`
	LastUpdated            string      `json:"lastUpdated"`
	Location               string      `json:"location"`
	Timezone               string      `json:"timezone"`
	TimeFormat             string      `json:"timeFormat"`
	DefaultDurationMinutes FlexInt     `json:"defaultDurationMinutes"`
	EventStartDate         string      `json:"eventStartDate"`
	EventEndDate           string      `json:"eventEndDate"`
	Note                   string      `json:"note"`
	Venues                 RawVenueSet `json:"venues"`
	Days                   RawDaySet   `json:"days"`
	Entries                []RawEntry  `json:"entries"`
}

// ProgramManifest is the session/speaker program document.
type ProgramManifest struct {
	Sessions []RawSession    `json:"sessions"`
	Metadata ProgramMetadata `json:"metadata"`
}

// ProgramMetadata is the program feed's secondary source of venue and
// day records.
type ProgramMetadata struct {
	Venues []RawVenue `json:"venues"`
	Days   []RawDay   `json:"days"`
}

// RawVenue is a venue record as either feed spells it.
type RawVenue struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Code     string   `json:"code"`
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Location string   `json:"location"`
	Address  string   `json:"address"`
	MapURL   string   `json:"mapUrl"`
	Map      string   `json:"map"`
	Order    *FlexInt `json:"order"`
}

// Identity returns the venue's identity key, lower-cased. Empty when the
// record carries no usable identifier.
func (v RawVenue) Identity() string {
	return strings.ToLower(strings.TrimSpace(cmp.Or(v.ID, v.Key, v.Code, v.Slug)))
}

// LocationRef returns the first non-empty of the location field aliases.
func (v RawVenue) LocationRef() string { return cmp.Or(v.Location, v.Address) }

// MapURLRef returns the first non-empty of the map URL field aliases.
func (v RawVenue) MapURLRef() string { return cmp.Or(v.MapURL, v.Map) }

// RawDay is a day record as either feed spells it.
type RawDay struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Date     string   `json:"date"`
	Label    string   `json:"label"`
	Subtitle string   `json:"subtitle"`
	Order    *FlexInt `json:"order"`
}

// Identity returns the day's identity key, lower-cased, falling back to
// the calendar date.
func (d RawDay) Identity() string {
	return strings.ToLower(strings.TrimSpace(cmp.Or(d.ID, d.Key, d.Date)))
}

// RawEntry is an explicit schedule entry. The doubled fields cover both
// spellings the feed has used; the Ref accessors pick the canonical value.
type RawEntry struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"sessionId"`
	Session         string  `json:"session"`
	DayID           string  `json:"dayId"`
	Day             string  `json:"day"`
	VenueID         string  `json:"venueId"`
	Venue           string  `json:"venue"`
	StartTime       string  `json:"startTime"`
	Time            string  `json:"time"`
	EndTime         string  `json:"endTime"`
	End             string  `json:"end"`
	Category        string  `json:"category"`
	Title           string  `json:"title"`
	Subtitle        string  `json:"subtitle"`
	Display         string  `json:"display"`
	Description     string  `json:"description"`
	Notes           string  `json:"notes"`
	DurationMinutes FlexInt `json:"durationMinutes"`
}

func (e RawEntry) SessionRef() string { return strings.TrimSpace(cmp.Or(e.SessionID, e.Session)) }
func (e RawEntry) DayRef() string     { return strings.TrimSpace(cmp.Or(e.DayID, e.Day)) }
func (e RawEntry) VenueRef() string   { return strings.TrimSpace(cmp.Or(e.VenueID, e.Venue)) }
func (e RawEntry) StartRef() string   { return cmp.Or(e.StartTime, e.Time) }
func (e RawEntry) EndRef() string     { return cmp.Or(e.EndTime, e.End) }

// RawSession is a program session record.
type RawSession struct {
	ID                      string       `json:"id"`
	SessionID               string       `json:"sessionId"`
	Title                   string       `json:"title"`
	Description             string       `json:"description"`
	Category                string       `json:"category"`
	Format                  string       `json:"format"`
	RawType                 string       `json:"rawType"`
	Order                   *FlexInt     `json:"order"`
	IsKeynote               bool         `json:"isKeynote"`
	Date                    string       `json:"date"`
	Day                     string       `json:"day"`
	DayLabel                string       `json:"dayLabel"`
	StartTime               string       `json:"startTime"`
	Time                    string       `json:"time"`
	EndTime                 string       `json:"endTime"`
	FinishTime              string       `json:"finishTime"`
	DurationMinutes         FlexInt      `json:"durationMinutes"`
	ExpectedDurationMinutes FlexInt      `json:"expectedDurationMinutes"`
	Venue                   string       `json:"venue"`
	VenueID                 string       `json:"venueId"`
	Speakers                []RawSpeaker `json:"speakers"`
}

func (s RawSession) IDRef() string       { return strings.TrimSpace(cmp.Or(s.ID, s.SessionID)) }
func (s RawSession) TypeRef() string     { return cmp.Or(s.Format, s.RawType) }
func (s RawSession) StartRef() string    { return cmp.Or(s.StartTime, s.Time) }
func (s RawSession) EndRef() string      { return cmp.Or(s.EndTime, s.FinishTime) }
func (s RawSession) VenueRef() string    { return strings.TrimSpace(cmp.Or(s.Venue, s.VenueID)) }
func (s RawSession) DayLabelRef() string { return strings.TrimSpace(cmp.Or(s.Day, s.DayLabel)) }

// DurationRef returns the first positive of the duration field aliases,
// or 0.
func (s RawSession) DurationRef() int {
	if d := s.DurationMinutes.Positive(); d > 0 {
		return d
	}
	return s.ExpectedDurationMinutes.Positive()
}

// RawSpeaker is a speaker record inside a session.
type RawSpeaker struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	Bio           string `json:"bio"`
	Headshot      string `json:"headshot"`
	LocalHeadshot string `json:"localHeadshot"`
}

// FlexInt decodes a JSON number or numeric string, rounding fractional
// values. Anything unparseable decodes to 0 rather than failing the
// document.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(math.Round(v))
	return nil
}

// Positive returns the value when it is greater than zero, else 0.
func (f FlexInt) Positive() int {
	if f > 0 {
		return int(f)
	}
	return 0
}

// RawVenueSet decodes venues given either as a sequence or as a keyed
// mapping. Mapping form is flattened to its values in key order so the
// result is deterministic.
type RawVenueSet []RawVenue

func (s *RawVenueSet) UnmarshalJSON(data []byte) error {
	var list []RawVenue
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var keyed map[string]RawVenue
	if err := json.Unmarshal(data, &keyed); err != nil {
		*s = nil
		return nil
	}
	*s = make([]RawVenue, 0, len(keyed))
	for _, key := range sortedKeys(keyed) {
		*s = append(*s, keyed[key])
	}
	return nil
}

// RawDaySet decodes days given either as a sequence or as a keyed mapping.
type RawDaySet []RawDay

func (s *RawDaySet) UnmarshalJSON(data []byte) error {
	var list []RawDay
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var keyed map[string]RawDay
	if err := json.Unmarshal(data, &keyed); err != nil {
		*s = nil
		return nil
	}
	*s = make([]RawDay, 0, len(keyed))
	for _, key := range sortedKeys(keyed) {
		*s = append(*s, keyed[key])
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
