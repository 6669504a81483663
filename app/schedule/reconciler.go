package schedule

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/program"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

// FallbackDurationMinutes applies when neither the entry nor the
// manifest names a duration.
const FallbackDurationMinutes = 60

// Program sessions in these categories may fill empty agenda slots on
// their own. Everything else appears only when an explicit schedule
// entry references it.
var autoIncludeCategories = map[string]bool{
	"lunch":  true,
	"dinner": true,
	"party":  true,
	"other":  true,
}

var categoryDataTypes = map[string]string{
	"talks":     "talk",
	"talk":      "talk",
	"workshops": "workshop",
	"workshop":  "workshop",
	"panels":    "panel",
	"panel":     "panel",
	"lunch":     "logistics",
	"dinner":    "logistics",
	"party":     "social",
	"social":    "social",
	"other":     "logistics",
}

// candidate is an entry before day, venue and session resolution, in
// the shape both manifests' records reduce to.
type candidate struct {
	id              string
	sessionID       string
	day             string
	venue           string
	start           string
	end             string
	category        string
	title           string
	subtitle        string
	display         string
	description     string
	notes           string
	durationMinutes int
}

type Reconciler struct {
	resolver *timeutil.Resolver
}

func NewReconciler(resolver *timeutil.Resolver) *Reconciler {
	return &Reconciler{resolver: resolver}
}

// Run reconciles the two manifests into an agenda. Either manifest may
// be nil; the result is always a usable (possibly empty) schedule.
func (r *Reconciler) Run(sm *manifest.ScheduleManifest, pm *manifest.ProgramManifest) *Schedule {
	if sm == nil {
		sm = &manifest.ScheduleManifest{}
	}

	loc := r.resolver.Resolve(sm.Timezone)
	timezone := loc.String()
	defaultDuration := sm.DefaultDurationMinutes.Positive()
	if defaultDuration == 0 {
		defaultDuration = FallbackDurationMinutes
	}
	timeFormat := timeutil.NormalizeTimeFormat(sm.TimeFormat)

	var metaVenues []manifest.RawVenue
	var metaDays []manifest.RawDay
	if pm != nil {
		metaVenues = pm.Metadata.Venues
		metaDays = pm.Metadata.Days
	}
	venues := NormalizeVenues(sm.Venues, metaVenues)
	days := NormalizeDays(sm.Days, metaDays)

	sessions := program.ParseSessions(pm)
	sessionsByID := make(map[string]program.Session, len(sessions))
	for _, s := range sessions {
		if s.SourceID != "" {
			sessionsByID[s.SourceID] = s
		}
	}

	derived := deriveEntries(sessions, days, venues)

	primary := make([]candidate, 0, len(sm.Entries))
	for _, raw := range sm.Entries {
		primary = append(primary, candidate{
			id:              raw.ID,
			sessionID:       raw.SessionRef(),
			day:             raw.DayRef(),
			venue:           raw.VenueRef(),
			start:           raw.StartRef(),
			end:             raw.EndRef(),
			category:        raw.Category,
			title:           raw.Title,
			subtitle:        raw.Subtitle,
			display:         raw.Display,
			description:     raw.Description,
			notes:           raw.Notes,
			durationMinutes: raw.DurationMinutes.Positive(),
		})
	}

	source := derived
	if len(primary) > 0 {
		source = mergeEntries(primary, derived)
	}

	entries := resolveEntries(source, days, venues, sessionsByID, loc, defaultDuration)

	eventStartDate := sm.EventStartDate
	if eventStartDate == "" && len(days) > 0 {
		eventStartDate = days[0].Date
	}
	eventEndDate := sm.EventEndDate
	if eventEndDate == "" {
		if len(days) > 0 {
			eventEndDate = days[len(days)-1].Date
		}
		if eventEndDate == "" {
			eventEndDate = eventStartDate
		}
	}

	return &Schedule{
		Timezone:               timezone,
		TimeFormat:             timeFormat,
		DefaultDurationMinutes: defaultDuration,
		Location:               sm.Location,
		EventStartDate:         eventStartDate,
		EventEndDate:           eventEndDate,
		DateRangeLabel:         timeutil.FormatDateRange(eventStartDate, eventEndDate),
		LastUpdated:            sm.LastUpdated,
		Version:                sm.Version,
		UpdatedLabel:           timeutil.FormatLastUpdated(sm.LastUpdated, sm.Version, loc),
		Note:                   sm.Note,
		Venues:                 venues,
		Days:                   days,
		Entries:                entries,
	}
}

// deriveEntries proposes one agenda entry per dated, timed program
// session. Sessions naming an unknown venue land in the first venue
// rather than vanishing.
func deriveEntries(sessions []program.Session, days []Day, venues []Venue) []candidate {
	if len(sessions) == 0 || len(days) == 0 || len(venues) == 0 {
		return nil
	}

	dayIDByDate := make(map[string]string, len(days))
	for _, day := range days {
		if day.Date != "" {
			dayIDByDate[day.Date] = day.ID
		}
	}

	venueLookup := make(map[string]string, len(venues)*3)
	for _, venue := range venues {
		for _, value := range []string{venue.ID, venue.Name, venue.Label} {
			if value != "" {
				venueLookup[strings.ToLower(value)] = venue.ID
			}
		}
	}
	fallbackVenueID := venues[0].ID

	var out []candidate
	for i, session := range sessions {
		if session.Date == "" || session.StartTime == "" {
			continue
		}

		dayID := dayIDByDate[session.Date]
		if dayID == "" {
			dayID = session.Date
		}
		venueID := venueLookup[strings.ToLower(session.Venue)]
		if venueID == "" {
			venueID = fallbackVenueID
		}

		id := fmt.Sprintf("session-entry-%d", i)
		if session.SourceID != "" {
			id = "session-entry-" + session.SourceID
		}

		out = append(out, candidate{
			id:              id,
			sessionID:       session.SourceID,
			day:             dayID,
			venue:           venueID,
			start:           session.StartTime,
			end:             session.EndTime,
			category:        cmp.Or(session.RawCategory, "talks"),
			durationMinutes: session.DurationMinutes,
		})
	}
	return out
}

// mergeEntries combines explicit entries with derived ones. Explicit
// entries always win; derived entries join only when their category is
// auto-includable and their slot or session is not already taken.
func mergeEntries(primary, derived []candidate) []candidate {
	merged := make([]candidate, len(primary))
	copy(merged, primary)

	seen := make(map[string]bool, len(merged))
	for _, entry := range merged {
		if key := entryKey(entry); key != "" {
			seen[key] = true
		}
	}

	for _, entry := range derived {
		if !autoIncludeCategories[strings.ToLower(entry.category)] {
			continue
		}
		key := entryKey(entry)
		if key != "" && seen[key] {
			continue
		}
		merged = append(merged, entry)
		if key != "" {
			seen[key] = true
		}
	}
	return merged
}

// entryKey identifies an entry for deduplication: the session it
// realizes, or failing that its (day, start, venue) slot.
func entryKey(entry candidate) string {
	if entry.sessionID != "" {
		return "session:" + entry.sessionID
	}
	day := strings.ToLower(strings.TrimSpace(entry.day))
	start := timeutil.NormalizeClock(entry.start)
	venue := strings.ToLower(strings.TrimSpace(entry.venue))
	if day == "" || start == "" || venue == "" {
		return ""
	}
	return "slot:" + day + "|" + start + "|" + venue
}

// resolveEntries resolves candidates against the normalized days and
// venues, fills times and durations, joins session detail, and sorts
// the result into agenda order. Candidates naming an unknown day or
// venue, or carrying no usable start time, are dropped.
func resolveEntries(cands []candidate, days []Day, venues []Venue, sessionsByID map[string]program.Session, loc *time.Location, defaultDuration int) []Entry {
	if len(cands) == 0 || len(days) == 0 || len(venues) == 0 {
		return nil
	}

	dayMap := make(map[string]Day, len(days))
	for _, day := range days {
		dayMap[strings.ToLower(day.ID)] = day
	}
	venueMap := make(map[string]Venue, len(venues))
	for _, venue := range venues {
		venueMap[strings.ToLower(venue.ID)] = venue
	}

	result := make([]Entry, 0, len(cands))
	for _, c := range cands {
		day, ok := dayMap[strings.ToLower(strings.TrimSpace(c.day))]
		if !ok {
			continue
		}
		venue, ok := venueMap[strings.ToLower(strings.TrimSpace(c.venue))]
		if !ok {
			continue
		}
		startTime := timeutil.NormalizeClock(c.start)
		if startTime == "" {
			continue
		}

		endTime := timeutil.NormalizeClock(c.end)
		durationMinutes := 0
		if endTime != "" {
			if diff := timeutil.DiffMinutes(startTime, endTime); diff > 0 {
				durationMinutes = diff
			}
		}
		if durationMinutes == 0 {
			durationMinutes = c.durationMinutes
		}
		if durationMinutes <= 0 {
			durationMinutes = defaultDuration
		}

		session, hasSession := sessionsByID[c.sessionID]
		var speakers []string
		if hasSession {
			for _, sp := range session.Speakers {
				if name := cmp.Or(sp.DisplayName, sp.Name); name != "" {
					speakers = append(speakers, name)
				}
			}
		}

		categoryKey := strings.ToLower(strings.TrimSpace(c.category))
		if _, known := categoryDataTypes[categoryKey]; !known {
			categoryKey = "other"
		}

		title := cmp.Or(c.title, session.Title, "Untitled Entry")
		subtitle := cmp.Or(c.subtitle, c.display, c.description, strings.Join(speakers, ", "))
		detailDescription := cmp.Or(c.description, c.notes, session.Description)
		description := strings.TrimSpace(cmp.Or(detailDescription, subtitle))

		startISO := ""
		startUTC := ""
		var startInstant time.Time
		haveInstant := false
		if day.Date != "" {
			if instant, ok := timeutil.ParseISOInstant(day.Date+"T"+startTime, loc); ok {
				startInstant = instant
				haveInstant = true
				startISO = timeutil.FormatLocalOffset(instant, loc)
				startUTC = timeutil.FormatUTC(instant)
			}
		}

		if endTime == "" {
			if haveInstant {
				end := startInstant.Add(time.Duration(durationMinutes) * time.Minute)
				endTime = timeutil.FormatClock(end, loc)
			} else {
				endTime = timeutil.AddClockMinutes(startTime, durationMinutes)
			}
		}

		id := c.id
		if id == "" {
			id = day.ID + "-" + venue.ID + "-" + startTime
		}

		result = append(result, Entry{
			ID:                id,
			Title:             title,
			Subtitle:          subtitle,
			Description:       description,
			DetailDescription: detailDescription,
			Category:          categoryKey,
			DataType:          categoryDataTypes[categoryKey],
			DayID:             day.ID,
			DayLabel:          day.Label,
			Date:              day.Date,
			StartTime:         startTime,
			EndTime:           endTime,
			DurationMinutes:   durationMinutes,
			StartISO:          startISO,
			StartUTC:          startUTC,
			VenueID:           venue.ID,
			VenueName:         cmp.Or(venue.Name, venue.Label),
			VenueLabel:        cmp.Or(venue.Label, venue.Name, strings.ToUpper(venue.ID)),
			VenueLocation:     cmp.Or(venue.Location, venue.Name, venue.Label),
			VenueMapURL:       venue.MapURL,
			SessionID:         c.sessionID,
			Speakers:          speakers,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DayID != result[j].DayID {
			return result[i].DayID < result[j].DayID
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].VenueID < result[j].VenueID
	})

	return result
}
