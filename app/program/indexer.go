package program

import (
	"cmp"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/slug"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

// VenueInfo is the display information for a venue, keyed by its
// lower-cased identity.
type VenueInfo struct {
	ID       string
	Label    string
	Name     string
	Location string
	MapURL   string
}

// Context carries the schedule manifest's presentation settings so
// speaker index entries can be rendered without the manifest in hand.
type Context struct {
	Location        *time.Location
	TimezoneName    string
	TimeFormat      string
	Venues          map[string]VenueInfo
	DayLabelsByDate map[string]string
	DayLabelsByID   map[string]string
}

// NewContext derives the rendering context from a schedule manifest.
func NewContext(sm *manifest.ScheduleManifest, resolver *timeutil.Resolver) *Context {
	ctx := &Context{
		Location:        resolver.Resolve(""),
		TimeFormat:      timeutil.DefaultTimeFormat,
		Venues:          make(map[string]VenueInfo),
		DayLabelsByDate: make(map[string]string),
		DayLabelsByID:   make(map[string]string),
	}
	ctx.TimezoneName = ctx.Location.String()
	if sm == nil {
		return ctx
	}

	ctx.Location = resolver.Resolve(sm.Timezone)
	ctx.TimezoneName = ctx.Location.String()
	ctx.TimeFormat = timeutil.NormalizeTimeFormat(sm.TimeFormat)

	for _, venue := range sm.Venues {
		id := venue.Identity()
		if id == "" {
			id = strings.ToLower(strings.TrimSpace(cmp.Or(venue.Name, venue.Label)))
		}
		if id == "" {
			continue
		}
		ctx.Venues[id] = VenueInfo{
			ID:       id,
			Label:    cmp.Or(venue.Label, venue.Name, venue.ID, strings.ToUpper(id)),
			Name:     cmp.Or(venue.Name, venue.Label, venue.ID, strings.ToUpper(id)),
			Location: venue.LocationRef(),
			MapURL:   venue.MapURLRef(),
		}
	}

	for _, day := range sm.Days {
		label := strings.TrimSpace(cmp.Or(day.Label, day.Subtitle, day.Date))
		id := strings.TrimSpace(cmp.Or(day.ID, day.Date))
		if day.Date != "" {
			ctx.DayLabelsByDate[day.Date] = cmp.Or(label, id, day.Date)
		}
		if id != "" {
			ctx.DayLabelsByID[id] = cmp.Or(label, id)
		}
	}

	return ctx
}

// SpeakerSession is one session as shown on a speaker's card: the
// session's schedule facts plus the co-speaker lineup from this
// speaker's point of view.
type SpeakerSession struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category"`
	RawType         string   `json:"rawType,omitempty"`
	TypeLabel       string   `json:"typeLabel"`
	DayLabel        string   `json:"dayLabel,omitempty"`
	Date            string   `json:"date,omitempty"`
	TimeLabel       string   `json:"timeLabel,omitempty"`
	StartTime       string   `json:"startTime,omitempty"`
	EndTime         string   `json:"endTime,omitempty"`
	StartISO        string   `json:"startIso,omitempty"`
	StartUTC        string   `json:"startUtc,omitempty"`
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	DurationLabel   string   `json:"durationLabel,omitempty"`
	Timezone        string   `json:"timezone"`
	VenueID         string   `json:"venueId,omitempty"`
	VenueLabel      string   `json:"venueLabel,omitempty"`
	VenueLocation   string   `json:"venueLocation,omitempty"`
	VenueMapURL     string   `json:"venueMapUrl,omitempty"`
	Order           int      `json:"order"`
	SpeakerName     string   `json:"speakerName"`
	CoSpeakers      []string `json:"coSpeakers,omitempty"`
}

// BuildSpeakerIndex maps every speaker key to that speaker's sessions,
// each list sorted chronologically. Sessions are indexed before
// multipart merging so a speaker's card shows every sitting.
func BuildSpeakerIndex(sessions []Session, ctx *Context) map[string][]SpeakerSession {
	index := make(map[string][]SpeakerSession)

	for _, session := range sessions {
		if len(session.Speakers) == 0 {
			continue
		}
		base := buildBase(session, ctx)
		for i, speaker := range session.Speakers {
			key := SpeakerKey(speaker)
			if key == "" {
				continue
			}

			entry := base
			entry.SpeakerName = cmp.Or(speaker.DisplayName, speaker.Name)
			for j, other := range session.Speakers {
				if j == i {
					continue
				}
				if name := cmp.Or(other.DisplayName, other.Name); name != "" {
					entry.CoSpeakers = append(entry.CoSpeakers, name)
				}
			}

			if containsSession(index[key], entry.ID) {
				continue
			}
			index[key] = append(index[key], entry)
		}
	}

	for key := range index {
		list := index[key]
		sort.SliceStable(list, func(i, j int) bool {
			return compareSpeakerSessions(list[i], list[j]) < 0
		})
	}

	return index
}

func containsSession(list []SpeakerSession, id string) bool {
	for _, existing := range list {
		if existing.ID == id {
			return true
		}
	}
	return false
}

func buildBase(session Session, ctx *Context) SpeakerSession {
	startISO := session.StartISO
	startUTC := ""
	endTime := session.EndTime
	if startISO != "" {
		if instant, ok := timeutil.ParseISOInstant(startISO, ctx.Location); ok {
			startISO = timeutil.FormatLocalOffset(instant, ctx.Location)
			startUTC = timeutil.FormatUTC(instant)
			if endTime == "" && session.DurationMinutes > 0 {
				end := instant.Add(time.Duration(session.DurationMinutes) * time.Minute)
				endTime = timeutil.FormatClock(end, ctx.Location)
			}
		}
	}
	if endTime == "" && session.StartTime != "" && session.DurationMinutes > 0 {
		endTime = timeutil.AddClockMinutes(session.StartTime, session.DurationMinutes)
	}

	dayLabel := session.DayLabel
	if dayLabel == "" {
		dayLabel = ctx.DayLabelsByDate[session.Date]
	}
	if dayLabel == "" {
		dayLabel = timeutil.FormatDateDisplay(session.Date)
	}

	typeLabel := session.RawType
	if typeLabel == "" {
		if session.Category == "workshops" {
			typeLabel = "Workshop"
		} else {
			typeLabel = "Talk"
		}
	}

	venueID := strings.ToLower(session.Venue)
	info, known := ctx.Venues[venueID]
	venueLabel := strings.ToUpper(session.Venue)
	venueLocation := venueLabel
	venueMapURL := ""
	if known {
		venueLabel = cmp.Or(info.Label, info.Name)
		venueLocation = cmp.Or(info.Location, info.Name, venueLabel)
		venueMapURL = info.MapURL
	}

	return SpeakerSession{
		ID:              session.ID,
		Title:           session.Title,
		Description:     session.Description,
		Category:        session.Category,
		RawType:         session.RawType,
		TypeLabel:       typeLabel,
		DayLabel:        dayLabel,
		Date:            session.Date,
		TimeLabel:       timeutil.FormatTimeRange(session.StartTime, endTime, ctx.TimeFormat),
		StartTime:       session.StartTime,
		EndTime:         endTime,
		StartISO:        startISO,
		StartUTC:        startUTC,
		DurationMinutes: session.DurationMinutes,
		DurationLabel:   timeutil.FormatDuration(session.DurationMinutes),
		Timezone:        ctx.TimezoneName,
		VenueID:         venueID,
		VenueLabel:      venueLabel,
		VenueLocation:   venueLocation,
		VenueMapURL:     venueMapURL,
		Order:           session.Order,
	}
}

func compareSpeakerSessions(a, b SpeakerSession) int {
	if a.StartISO != "" && b.StartISO != "" && a.StartISO != b.StartISO {
		return strings.Compare(a.StartISO, b.StartISO)
	}
	if a.Order != b.Order {
		return a.Order - b.Order
	}
	return strings.Compare(a.Title, b.Title)
}

var idSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SpeakerKey derives a stable identity for a speaker: the name slug
// when usable, else a slug of the first 64 characters of the bio, else
// the raw id. Empty means the speaker cannot be indexed.
func SpeakerKey(speaker Speaker) string {
	display := collapseWhitespace(cmp.Or(speaker.DisplayName, speaker.Name))
	if display != "" {
		if s := slug.Make(display); s != slug.Fallback {
			return "name:" + s
		}
	}

	bio := []rune(speaker.Bio)
	if len(bio) > 64 {
		bio = bio[:64]
	}
	if snippet := collapseWhitespace(string(bio)); snippet != "" {
		if s := slug.Make(snippet); s != slug.Fallback {
			return "bio:" + s
		}
	}

	rawID := strings.ToLower(strings.TrimSpace(speaker.ID))
	if rawID != "" {
		idSlug := strings.Trim(idSlugPattern.ReplaceAllString(rawID, "-"), "-")
		if idSlug != "" {
			return "id:" + idSlug
		}
	}
	return ""
}
