package schedule

import (
	"cmp"
	"sort"
	"strings"

	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

// NormalizeVenues merges venue records from the schedule manifest and
// the program metadata into one ordered list. Records sharing an
// identity merge field by field; a later record overrides the fields it
// sets and keeps the earlier value for the ones it leaves blank.
func NormalizeVenues(scheduleVenues, metadataVenues []manifest.RawVenue) []Venue {
	venueMap := make(map[string]Venue)
	order := make([]string, 0, len(scheduleVenues)+len(metadataVenues))

	add := func(raw manifest.RawVenue) {
		id := raw.Identity()
		if id == "" {
			return
		}
		existing, known := venueMap[id]
		if !known {
			order = append(order, id)
			existing.Order = len(venueMap)
		}
		venue := Venue{
			ID:       id,
			Name:     cmp.Or(raw.Name, existing.Name, raw.Label, strings.ToUpper(id)),
			Label:    cmp.Or(raw.Label, existing.Label, raw.Name, strings.ToUpper(id)),
			Location: cmp.Or(raw.LocationRef(), existing.Location),
			MapURL:   cmp.Or(raw.MapURLRef(), existing.MapURL),
			Order:    existing.Order,
		}
		if raw.Order != nil {
			venue.Order = int(*raw.Order)
		}
		venueMap[id] = venue
	}

	for _, raw := range scheduleVenues {
		add(raw)
	}
	for _, raw := range metadataVenues {
		add(raw)
	}

	venues := make([]Venue, 0, len(venueMap))
	for _, id := range order {
		venues = append(venues, venueMap[id])
	}
	sort.SliceStable(venues, func(i, j int) bool {
		if venues[i].Order != venues[j].Order {
			return venues[i].Order < venues[j].Order
		}
		return venues[i].Label < venues[j].Label
	})
	return venues
}

// NormalizeDays merges day records from the schedule manifest and the
// program metadata. Days without an authored label get one synthesized
// from their date.
func NormalizeDays(scheduleDays, metadataDays []manifest.RawDay) []Day {
	dayMap := make(map[string]Day)
	order := make([]string, 0, len(scheduleDays)+len(metadataDays))

	add := func(raw manifest.RawDay) {
		id := raw.Identity()
		if id == "" {
			return
		}
		existing, known := dayMap[id]
		if !known {
			order = append(order, id)
			existing.Order = len(dayMap)
		}
		date := cmp.Or(raw.Date, existing.Date)
		day := Day{
			ID:       id,
			Label:    cmp.Or(raw.Label, existing.Label, timeutil.FormatDayLabel(date), id),
			Subtitle: cmp.Or(raw.Subtitle, existing.Subtitle),
			Date:     date,
			Order:    existing.Order,
		}
		if raw.Order != nil {
			day.Order = int(*raw.Order)
		}
		dayMap[id] = day
	}

	for _, raw := range scheduleDays {
		add(raw)
	}
	for _, raw := range metadataDays {
		add(raw)
	}

	days := make([]Day, 0, len(dayMap))
	for _, id := range order {
		days = append(days, dayMap[id])
	}
	sort.SliceStable(days, func(i, j int) bool {
		if days[i].Order != days[j].Order {
			return days[i].Order < days[j].Order
		}
		if days[i].Date != "" && days[j].Date != "" && days[i].Date != days[j].Date {
			return days[i].Date < days[j].Date
		}
		return days[i].Label < days[j].Label
	})
	return days
}
