// Package ics reads holiday calendars and writes the planner's own feed.
package ics

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

const maxHolidayOccurrences = 5000

// Holiday is one calendar day named by a feed.
type Holiday struct {
	Date   string `json:"date"`
	Name   string `json:"name"`
	FeedID string `json:"feedId"`
}

// ParseHolidays returns the days within [from, to] covered by the events of
// body, one entry per day. Timed events count for the day they start on;
// multi-day all-day events cover every day up to their exclusive DTEND.
// Recurring events are expanded with their EXDATEs. Events without a
// readable DTSTART are skipped.
func ParseHolidays(feed Feed, body []byte, from, to time.Time) ([]Holiday, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty body")
	}
	if to.Before(from) {
		return nil, errors.New("ics: range end before start")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []Holiday
	add := func(date, name string) {
		if _, ok := seen[date]; ok {
			return
		}
		seen[date] = struct{}{}
		out = append(out, Holiday{Date: date, Name: name, FeedID: feed.ID})
	}

	for _, ev := range cal.Events() {
		start, ok := propDate(ev, ical.ComponentPropertyDtStart)
		if !ok {
			appLog.Debug("ics: event without DTSTART", "feed", feed.ID)
			continue
		}
		days := 1
		if end, ok := propDate(ev, ical.ComponentPropertyDtEnd); ok && end.After(start) {
			if n := int(end.Sub(start).Hours() / 24); n > 1 {
				days = n
			}
		}
		name := ""
		if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
			name = p.Value
		}

		starts := []time.Time{start}
		if p := ev.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
			starts = expandRule(feed, p.Value, start, exdates(ev), from, to)
		}
		for _, s := range starts {
			for i := 0; i < days; i++ {
				d := s.AddDate(0, 0, i)
				if d.Before(from) || d.After(to) {
					continue
				}
				add(model.FormatDate(d), name)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func expandRule(feed Feed, raw string, start time.Time, ex []time.Time, from, to time.Time) []time.Time {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		appLog.Warn("ics: unreadable RRULE", "feed", feed.ID, "rrule", raw)
		return nil
	}
	opt.Dtstart = start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		appLog.Warn("ics: invalid RRULE", "feed", feed.ID, "rrule", raw)
		return nil
	}
	var set rrule.Set
	set.RRule(r)
	for _, t := range ex {
		set.ExDate(t)
	}
	// Widen by a day so multi-day spans starting just before from survive.
	times := set.Between(from.AddDate(0, 0, -1), to, true)
	if len(times) > maxHolidayOccurrences {
		times = times[:maxHolidayOccurrences]
	}
	return times
}

func exdates(ev *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ev.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, ok := parseDate(part); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

func propDate(ev *ical.VEvent, name ical.ComponentProperty) (time.Time, bool) {
	p := ev.GetProperty(name)
	if p == nil {
		return time.Time{}, false
	}
	return parseDate(p.Value)
}

// parseDate reads the calendar day of a DATE or DATE-TIME value as midnight
// UTC. Holidays are whole days, so the time part and zone are dropped.
func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if len(v) < 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", v[:8])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
