// Package timeutil implements the wall-clock and timezone arithmetic the
// agenda is built on. All conversions go through a named IANA zone; the
// host's local timezone is never consulted. tzdata is embedded so zone
// resolution does not depend on the host system.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone governs the dataset when a manifest names no usable zone.
const DefaultTimezone = "America/Los_Angeles"

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})`)

var isoLocalPattern = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?(?:[+-]\d{2}:?\d{2}|Z)?$`)

// NormalizeClock reduces a loosely formatted time-of-day value to
// zero-padded 24-hour "HH:MM". Values with an hour above 23 or a minute
// above 59 yield "".
func NormalizeClock(raw string) string {
	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ParseClock splits a normalized "HH:MM" value.
func ParseClock(clock string) (hour, minute int, ok bool) {
	normalized := NormalizeClock(clock)
	if normalized == "" {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(normalized[:2])
	minute, _ = strconv.Atoi(normalized[3:])
	return hour, minute, true
}

// DiffMinutes returns the minutes between two clock values. An end before
// the start is treated as crossing midnight (overnight sessions), not as
// an error. Unparseable input yields 0.
func DiffMinutes(start, end string) int {
	sh, sm, ok := ParseClock(start)
	if !ok {
		return 0
	}
	eh, em, ok := ParseClock(end)
	if !ok {
		return 0
	}
	diff := (eh*60 + em) - (sh*60 + sm)
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff
}

// AddClockMinutes adds minutes to a clock value without timezone
// awareness, wrapping at midnight. Used when no calendar date is known.
func AddClockMinutes(clock string, minutes int) string {
	hour, minute, ok := ParseClock(clock)
	if !ok {
		return clock
	}
	total := (hour*60 + minute + minutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ToInstant resolves a civil (date, clock) pair to the absolute instant
// that shows that wall-clock time in the given zone. Nonexistent local
// times at a spring-forward edge normalize to the next valid instant.
func ToInstant(date, clock string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		return time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false
	}
	hour, minute, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), true
}

// ParseISOInstant resolves a local ISO date-time string against the given
// zone. A trailing offset or "Z" is ignored: the value is read as the
// wall-clock time it displays, matching how entry startIso values are
// produced in the first place.
func ParseISOInstant(iso string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		return time.Time{}, false
	}
	m := isoLocalPattern.FindStringSubmatch(strings.TrimSpace(iso))
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}
	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}

// AddMinutesLocal adds elapsed minutes to a civil (date, clock) pair as
// observed in the given zone. The offset is recomputed at the new
// instant, so an add across a DST transition advances wall-clock time by
// the elapsed duration under the new offset rather than naively.
func AddMinutesLocal(date, clock string, minutes int, loc *time.Location) (string, string, bool) {
	instant, ok := ToInstant(date, clock, loc)
	if !ok {
		return "", "", false
	}
	shifted := instant.Add(time.Duration(minutes) * time.Minute).In(loc)
	return shifted.Format("2006-01-02"), shifted.Format("15:04"), true
}

// FormatLocalOffset renders an instant as its local representation in the
// given zone, qualified with the signed UTC offset at that instant.
func FormatLocalOffset(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02T15:04:05-07:00")
}

// FormatUTC renders an instant in RFC 3339 UTC form.
func FormatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// FormatICSLocal renders an instant in the calendar basic local form
// (no separators), as used with a TZID parameter.
func FormatICSLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("20060102T150405")
}

// FormatClock renders an instant's wall-clock time in the given zone.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

var timezoneAliases = map[string]string{
	"america/los angeles":   "America/Los_Angeles",
	"america los angeles":   "America/Los_Angeles",
	"los angeles":           "America/Los_Angeles",
	"pasadena":              "America/Los_Angeles",
	"pacific standard time": "America/Los_Angeles",
	"pacific daylight time": "America/Los_Angeles",
	"pacific time":          "America/Los_Angeles",
	"pst":                   "America/Los_Angeles",
	"pdt":                   "America/Los_Angeles",
}

// Resolver resolves loosely written timezone names (city names, "Pacific
// Time", PST/PDT) to IANA locations, caching loaded locations. Unresolvable
// names fall back to the configured default zone. The cache is the explicit
// owner of what would otherwise be ambient formatter state.
type Resolver struct {
	fallback string

	mu    sync.RWMutex
	cache map[string]*time.Location
}

// NewResolver creates a resolver with the given fallback zone name. An
// empty or invalid fallback degrades to DefaultTimezone.
func NewResolver(fallback string) *Resolver {
	r := &Resolver{
		fallback: DefaultTimezone,
		cache:    make(map[string]*time.Location),
	}
	if fallback != "" {
		if _, err := time.LoadLocation(fallback); err == nil {
			r.fallback = fallback
		}
	}
	return r
}

// Resolve maps a raw timezone name to a usable location. It never returns
// nil: alias lookup, then the name with spaces as underscores, then a
// title-cased variant, then the fallback zone.
func (r *Resolver) Resolve(raw string) *time.Location {
	name := strings.TrimSpace(raw)
	if name == "" {
		return r.fallbackLocation()
	}

	aliasKey := strings.Join(strings.FieldsFunc(strings.ToLower(name), func(c rune) bool {
		return c == '-' || c == '_' || c == ' ' || c == '\t'
	}), " ")
	if canonical, ok := timezoneAliases[aliasKey]; ok {
		name = canonical
	} else {
		name = strings.Join(strings.Fields(name), "_")
	}

	if loc := r.load(name); loc != nil {
		return loc
	}
	if candidate := titleCaseZone(name); candidate != name {
		if loc := r.load(candidate); loc != nil {
			return loc
		}
	}
	return r.fallbackLocation()
}

// Fallback reports the resolver's fallback zone name.
func (r *Resolver) Fallback() string {
	return r.fallback
}

func (r *Resolver) fallbackLocation() *time.Location {
	if loc := r.load(r.fallback); loc != nil {
		return loc
	}
	return time.UTC
}

func (r *Resolver) load(name string) *time.Location {
	r.mu.RLock()
	loc, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = nil
	}
	r.mu.Lock()
	r.cache[name] = loc
	r.mu.Unlock()
	return loc
}

// titleCaseZone normalizes casing segment by segment: "america/los_angeles"
// becomes "America/Los_Angeles".
func titleCaseZone(name string) string {
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		parts := strings.Split(segment, "_")
		for j, part := range parts {
			if part == "" {
				continue
			}
			parts[j] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
		segments[i] = strings.Join(parts, "_")
	}
	return strings.Join(segments, "/")
}
