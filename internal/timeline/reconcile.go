package timeline

import (
	"dayplan/internal/model"
)

// MergePlan returns the plan column of date: the persisted plan slots in
// stored order, followed by every occurrence whose start time is not already
// taken by a persisted plan slot of that date.
//
// The start time is the only collision key, so a materialized override hides
// its routine occurrence as long as it keeps the routine's start.
func MergePlan(slots []model.Slot, occurrences []model.Slot, date string) []model.Slot {
	out := make([]model.Slot, 0, len(slots)+len(occurrences))
	taken := make(map[string]struct{})
	for _, s := range slots {
		if s.Date != date || s.Kind != model.KindPlan {
			continue
		}
		out = append(out, s)
		taken[s.Start] = struct{}{}
	}
	for _, occ := range occurrences {
		if occ.Date != date {
			continue
		}
		if _, ok := taken[occ.Start]; ok {
			continue
		}
		out = append(out, occ)
	}
	return out
}

// ActualSlots returns the persisted actual slots of date. Routines never
// project into this column.
func ActualSlots(slots []model.Slot, date string) []model.Slot {
	out := make([]model.Slot, 0)
	for _, s := range slots {
		if s.Date == date && s.Kind == model.KindActual {
			out = append(out, s)
		}
	}
	return out
}
