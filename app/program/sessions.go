package program

import (
	"fmt"
	"strings"

	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

// ParseSessions normalizes every session in the program manifest,
// preserving feed order. No filtering happens here; the schedule
// reconciler needs the full set, including logistics and social
// sessions the program view hides.
func ParseSessions(pm *manifest.ProgramManifest) []Session {
	if pm == nil {
		return nil
	}
	sessions := make([]Session, 0, len(pm.Sessions))
	for i, raw := range pm.Sessions {
		sessions = append(sessions, normalizeSession(raw, i))
	}
	return sessions
}

// ProgramSessions filters to the sessions the program view presents:
// titled talks and workshops with at least one speaker.
func ProgramSessions(sessions []Session) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Title == "" || len(s.Speakers) == 0 {
			continue
		}
		if s.Category != "talks" && s.Category != "workshops" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func normalizeSession(raw manifest.RawSession, index int) Session {
	rawCategory := strings.ToLower(strings.TrimSpace(raw.Category))
	category := rawCategory
	if category == "workshop" {
		category = "workshops"
	}
	if category != "workshops" {
		category = "talks"
	}

	sourceID := raw.IDRef()
	id := sourceID
	if id == "" {
		id = fmt.Sprintf("session-%d", index+1)
	}

	date := strings.TrimSpace(raw.Date)
	if len(date) > 10 {
		date = date[:10]
	}

	startTime := timeutil.NormalizeClock(raw.StartRef())
	rawEndTime := timeutil.NormalizeClock(raw.EndRef())

	durationMinutes := 0
	if startTime != "" && rawEndTime != "" {
		durationMinutes = timeutil.DiffMinutes(startTime, rawEndTime)
	}
	if durationMinutes <= 0 {
		durationMinutes = raw.DurationRef()
	}

	endTime := rawEndTime
	if endTime == "" && startTime != "" && durationMinutes > 0 {
		endTime = timeutil.AddClockMinutes(startTime, durationMinutes)
	}

	startISO := ""
	if date != "" && startTime != "" {
		startISO = date + "T" + startTime
	}

	order := index
	if raw.Order != nil {
		order = int(*raw.Order)
	}

	speakers := make([]Speaker, 0, len(raw.Speakers))
	for _, sp := range raw.Speakers {
		speakers = append(speakers, normalizeSpeaker(sp))
	}

	return Session{
		ID:              id,
		SourceID:        sourceID,
		Title:           strings.TrimSpace(raw.Title),
		Description:     raw.Description,
		RawType:         raw.TypeRef(),
		RawCategory:     rawCategory,
		Category:        category,
		Order:           order,
		IsKeynote:       raw.IsKeynote,
		Date:            date,
		DayLabel:        raw.DayLabelRef(),
		StartTime:       startTime,
		EndTime:         endTime,
		StartISO:        startISO,
		DurationMinutes: durationMinutes,
		Venue:           strings.TrimSpace(raw.VenueRef()),
		Speakers:        speakers,
	}
}

func normalizeSpeaker(raw manifest.RawSpeaker) Speaker {
	name := raw.Name
	display := raw.DisplayName
	if display == "" {
		display = collapseWhitespace(name)
	}
	return Speaker{
		ID:            raw.ID,
		Name:          name,
		DisplayName:   display,
		Bio:           raw.Bio,
		Headshot:      raw.Headshot,
		LocalHeadshot: raw.LocalHeadshot,
	}
}

// SanitizeBio collapses a bio to single-spaced text for display.
func SanitizeBio(bio string) string {
	return collapseWhitespace(bio)
}

func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
