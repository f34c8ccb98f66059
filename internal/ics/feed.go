package ics

import (
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"

	"dayplan/internal/geometry"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
	"dayplan/internal/recur"
)

const productID = "-//dayplan//timeline//EN"

const (
	layoutUTC   = "20060102T150405Z"
	layoutLocal = "20060102T150405"
	layoutDate  = "20060102"
)

// ExportOptions controls what WriteFeed publishes.
type ExportOptions struct {
	// Location is the zone slot times are wall-clock in. Nil means UTC.
	Location *time.Location
	// Actual includes the actual column next to the plan.
	Actual bool
	// Now stamps DTSTAMP; zero means time.Now.
	Now time.Time
}

// WriteFeed renders st as an iCalendar document: every routine is one
// recurring event whose EXDATEs drop the occurrences missing from the plan
// column (tombstoned, or hidden by a plan slot at the same start), every
// persisted slot is a single event, and holiday or vacation days are
// all-day events.
func WriteFeed(st model.State, opt ExportOptions) string {
	loc := opt.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	tomb := recur.NewTombstones(st.DeletedRoutineInstances)
	for _, r := range st.Routines {
		addRoutine(cal, r, st, tomb, loc, now)
	}

	for _, s := range st.Slots {
		if s.Kind == model.KindActual && !opt.Actual {
			continue
		}
		start, ok1 := wallTime(s.Date, s.Start, loc)
		end, ok2 := wallTime(s.Date, s.End, loc)
		if !ok1 || !ok2 || !end.After(start) {
			continue
		}
		ev := cal.AddEvent(s.ID)
		ev.SetDtStampTime(now)
		ev.SetSummary(s.Content)
		setTime(ev, ical.ComponentPropertyDtStart, start, loc)
		setTime(ev, ical.ComponentPropertyDtEnd, end, loc)
		ev.SetProperty(ical.ComponentPropertyCategories, string(s.Category)+","+string(s.Kind))
		if s.Importance.Featured() {
			ev.SetProperty(ical.ComponentPropertyPriority, "1")
		}
	}

	dates := make([]string, 0, len(st.Meta))
	for d := range st.Meta {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		m := st.Meta[d]
		if m.Type != model.DayHoliday && m.Type != model.DayVacation {
			continue
		}
		day, err := model.ParseDate(d)
		if err != nil {
			continue
		}
		ev := cal.AddEvent("day-" + d)
		ev.SetDtStampTime(now)
		ev.SetSummary(string(m.Type))
		ev.SetProperty(ical.ComponentPropertyDtStart, day.Format(layoutDate), &ical.KeyValues{Key: "VALUE", Value: []string{"DATE"}})
		ev.SetProperty(ical.ComponentPropertyDtEnd, day.AddDate(0, 0, 1).Format(layoutDate), &ical.KeyValues{Key: "VALUE", Value: []string{"DATE"}})
	}

	return cal.Serialize()
}

func addRoutine(cal *ical.Calendar, r model.Routine, st model.State, tomb recur.Tombstones, loc *time.Location, now time.Time) {
	rule, ok, err := recur.Rule(r)
	if err != nil || !ok {
		appLog.Debug("ics: routine not exported", "routine", r.ID)
		return
	}
	// DTSTART is the first instance, which need not be the start date
	// itself (a weekday routine starting on a Saturday).
	anchor, _ := model.ParseDate(r.StartDate)
	first := rule.After(anchor, true)
	if first.IsZero() {
		appLog.Debug("ics: routine never occurs", "routine", r.ID)
		return
	}
	firstDate := model.FormatDate(first)
	start, ok1 := wallTime(firstDate, r.Start, loc)
	end, ok2 := wallTime(firstDate, r.End, loc)
	if !ok1 || !ok2 || !end.After(start) {
		return
	}
	opt, _, _ := recur.Options(r)
	opt.Dtstart = start
	if r.EndDate != "" {
		// UNTIL is inclusive, so the last day's occurrence must fall before it.
		until, ok := wallTime(r.EndDate, "23:59", loc)
		if !ok {
			return
		}
		opt.Until = until.UTC()
	}

	ev := cal.AddEvent("routine-" + r.ID)
	ev.SetDtStampTime(now)
	ev.SetSummary(r.Title)
	setTime(ev, ical.ComponentPropertyDtStart, start, loc)
	setTime(ev, ical.ComponentPropertyDtEnd, end, loc)
	ev.SetProperty(ical.ComponentPropertyCategories, string(r.Category))
	ev.AddProperty(ical.ComponentPropertyRrule, opt.RRuleString())

	for _, date := range planExdates(r, st, tomb) {
		if t, ok := wallTime(date, r.Start, loc); ok {
			setTime(ev, ical.ComponentPropertyExdate, t, loc)
		}
	}
}

// planExdates lists, sorted, the dates on which r's occurrence is not part of
// the plan column: tombstoned dates, and dates where a persisted plan slot
// takes the routine's start time, as timeline.MergePlan does.
func planExdates(r model.Routine, st model.State, tomb recur.Tombstones) []string {
	set := make(map[string]struct{})
	for _, key := range tomb.Keys() {
		if id, date, ok := model.SplitTombstone(key); ok && id == r.ID {
			set[date] = struct{}{}
		}
	}
	one := []model.Routine{r}
	for _, s := range st.Slots {
		if s.Kind != model.KindPlan || s.Start != r.Start {
			continue
		}
		if _, ok := set[s.Date]; ok {
			continue
		}
		if len(recur.Expand(s.Date, one, tomb)) > 0 {
			set[s.Date] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// setTime adds a DATE-TIME property, in UTC form when loc is UTC and with a
// TZID otherwise. EXDATE may repeat; the other properties are replaced.
func setTime(ev *ical.VEvent, prop ical.ComponentProperty, t time.Time, loc *time.Location) {
	set := ev.SetProperty
	if prop == ical.ComponentPropertyExdate {
		set = ev.AddProperty
	}
	if loc == time.UTC {
		set(prop, t.UTC().Format(layoutUTC))
		return
	}
	set(prop, t.In(loc).Format(layoutLocal), &ical.KeyValues{Key: "TZID", Value: []string{loc.String()}})
}

func wallTime(date, clock string, loc *time.Location) (time.Time, bool) {
	d, err := model.ParseDate(date)
	if err != nil {
		return time.Time{}, false
	}
	mins, err := geometry.ParseClock(clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, loc), true
}
