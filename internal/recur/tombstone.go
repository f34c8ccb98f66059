package recur

import (
	"sort"
	"time"

	"dayplan/internal/model"
)

// Tombstones is the set of suppressed (routine, date) occurrences, keyed by
// model.TombstoneKey.
type Tombstones map[string]struct{}

func NewTombstones(keys []string) Tombstones {
	t := make(Tombstones, len(keys))
	for _, k := range keys {
		t[k] = struct{}{}
	}
	return t
}

func (t Tombstones) Has(routineID, date string) bool {
	_, ok := t[model.TombstoneKey(routineID, date)]
	return ok
}

func (t Tombstones) Add(routineID, date string) {
	t[model.TombstoneKey(routineID, date)] = struct{}{}
}

// Keys returns the keys in sorted order.
func (t Tombstones) Keys() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t Tombstones) byRoutine() map[string][]time.Time {
	out := make(map[string][]time.Time)
	for k := range t {
		id, date, ok := model.SplitTombstone(k)
		if !ok {
			continue
		}
		d, _ := model.ParseDate(date)
		out[id] = append(out[id], d)
	}
	return out
}

// Compact drops tombstones that can no longer suppress anything: malformed
// keys, keys whose routine is gone, and dates outside the routine's range.
// The expansion of every date is unchanged by compaction.
func Compact(keys []string, routines []model.Routine) []string {
	byID := make(map[string]model.Routine, len(routines))
	for _, r := range routines {
		byID[r.ID] = r
	}

	kept := make(Tombstones)
	for _, k := range keys {
		id, date, ok := model.SplitTombstone(k)
		if !ok {
			continue
		}
		r, ok := byID[id]
		if !ok {
			continue
		}
		if date < r.StartDate || (r.EndDate != "" && date > r.EndDate) {
			continue
		}
		kept[k] = struct{}{}
	}
	return kept.Keys()
}
