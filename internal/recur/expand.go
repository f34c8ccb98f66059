package recur

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

const (
	defaultMaxOccurrencesPerRoutine = 5000
)

// weekdays maps 0=Sunday..6=Saturday onto rrule weekdays.
var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// ExpandConfig controls a range expansion.
type ExpandConfig struct {
	// RangeStart / RangeEnd are inclusive YYYY-MM-DD dates.
	RangeStart string
	RangeEnd   string

	// MaxOccurrencesPerRoutine caps the output of a single routine. If zero,
	// defaultMaxOccurrencesPerRoutine is used.
	MaxOccurrencesPerRoutine int
}

// ExpandResult holds the occurrences of every routine, grouped by date.
// Within a date, occurrences follow routine order.
type ExpandResult struct {
	ByDate map[string][]model.Slot

	// Truncated records routine ids that hit the cap.
	Truncated []string
	// Skipped records routine ids whose dates or cycle could not be read.
	Skipped []string
}

// Expand returns the occurrences active on date, in routine order.
func Expand(date string, routines []model.Routine, tomb Tombstones) []model.Slot {
	res, err := ExpandRange(routines, tomb, ExpandConfig{RangeStart: date, RangeEnd: date})
	if err != nil {
		appLog.Debug("expand: bad date", "date", date, "err", err)
		return []model.Slot{}
	}
	out := res.ByDate[date]
	if out == nil {
		out = []model.Slot{}
	}
	return out
}

// ExpandRange expands every routine over [RangeStart, RangeEnd]. For each
// routine it:
//
//   - intersects the window with [startDate, endDate]
//   - compiles the cycle into an RRULE anchored at startDate
//   - removes tombstoned dates as EXDATEs
//
// A routine with unreadable dates is skipped rather than failing the batch.
func ExpandRange(routines []model.Routine, tomb Tombstones, cfg ExpandConfig) (ExpandResult, error) {
	result := ExpandResult{ByDate: make(map[string][]model.Slot)}

	from, err := model.ParseDate(cfg.RangeStart)
	if err != nil {
		return result, err
	}
	to, err := model.ParseDate(cfg.RangeEnd)
	if err != nil {
		return result, err
	}
	if to.Before(from) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.MaxOccurrencesPerRoutine <= 0 {
		cfg.MaxOccurrencesPerRoutine = defaultMaxOccurrencesPerRoutine
	}

	exdates := tomb.byRoutine()

	for _, r := range routines {
		dates, hitCap, err := expandRoutine(r, exdates[r.ID], from, to, cfg.MaxOccurrencesPerRoutine)
		if err != nil {
			result.Skipped = append(result.Skipped, r.ID)
			appLog.Debug("expand: skipping routine", "routine", r.ID, "err", err)
			continue
		}
		if hitCap {
			result.Truncated = append(result.Truncated, r.ID)
			appLog.Error("expand: truncated occurrences for routine due to cap",
				errors.New("max occurrences reached"),
				"routine", r.ID,
				"cap", cfg.MaxOccurrencesPerRoutine,
			)
		}
		for _, d := range dates {
			result.ByDate[d] = append(result.ByDate[d], Occurrence(r, d))
		}
	}

	return result, nil
}

func expandRoutine(r model.Routine, exdates []time.Time, from, to time.Time, limit int) ([]string, bool, error) {
	rule, ok, err := Rule(r)
	if err != nil || !ok {
		return nil, false, err
	}

	start, _ := model.ParseDate(r.StartDate)
	if from.Before(start) {
		from = start
	}
	if r.EndDate != "" {
		end, _ := model.ParseDate(r.EndDate)
		if end.Before(to) {
			to = end
		}
	}
	if to.Before(from) {
		return nil, false, nil
	}

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range exdates {
		set.ExDate(ex)
	}

	times := set.Between(from, to, true)
	hitCap := false
	if len(times) > limit {
		times = times[:limit]
		hitCap = true
	}

	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, model.FormatDate(t))
	}
	return out, hitCap, nil
}

// Rule compiles a routine's cycle into an RRULE anchored at midnight UTC of
// its start date. ok is false when the routine can never occur (a custom
// cycle with no days).
func Rule(r model.Routine) (*rrule.RRule, bool, error) {
	opt, ok, err := Options(r)
	if err != nil || !ok {
		return nil, ok, err
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, false, err
	}
	return rule, true, nil
}

// Options is the rrule form of a routine's cycle and date range.
func Options(r model.Routine) (rrule.ROption, bool, error) {
	start, err := model.ParseDate(r.StartDate)
	if err != nil {
		return rrule.ROption{}, false, err
	}
	opt := rrule.ROption{Dtstart: start}
	if r.EndDate != "" {
		end, err := model.ParseDate(r.EndDate)
		if err != nil {
			return rrule.ROption{}, false, err
		}
		opt.Until = end
	}

	switch r.Cycle {
	case model.CycleDaily:
		opt.Freq = rrule.DAILY
	case model.CycleWeekday:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	case model.CycleWeekend:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.SA, rrule.SU}
	case model.CycleCustom:
		opt.Freq = rrule.WEEKLY
		seen := [7]bool{}
		for _, d := range r.Days {
			if d < 0 || d > 6 || seen[d] {
				continue
			}
			seen[d] = true
			opt.Byweekday = append(opt.Byweekday, weekdays[d])
		}
		// An empty BYDAY would fall back to DTSTART's weekday.
		if len(opt.Byweekday) == 0 {
			return rrule.ROption{}, false, nil
		}
	default:
		return rrule.ROption{}, false, errors.New("expand: unknown cycle " + string(r.Cycle))
	}
	return opt, true, nil
}

// Occurrence is the plan-column projection of routine r on date.
func Occurrence(r model.Routine, date string) model.Slot {
	return model.Slot{
		ID:         model.OccurrenceID(r.ID, date),
		Date:       date,
		Kind:       model.KindPlan,
		Start:      r.Start,
		End:        r.End,
		Content:    r.Title,
		Category:   r.Category,
		Importance: model.ImportanceMedium,
		GoalID:     r.GoalID,
		IsRoutine:  true,
		RoutineID:  r.ID,
	}
}
