// Package stats derives day-level and aggregate figures from slots, meta and
// goals: off-days, effective work hours, work minutes, calendar cell
// summaries and dashboard totals.
package stats

import (
	"sort"

	"dayplan/internal/geometry"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

// DefaultMaxFeatured is how many items a calendar cell shows.
const DefaultMaxFeatured = 3

var moodGlyphs = map[int]string{1: "😡", 2: "😟", 3: "😐", 4: "😊", 5: "🥰"}

// MoodGlyph returns the glyph for a 1-5 mood, or "" outside the scale.
func MoodGlyph(mood int) string {
	return moodGlyphs[mood]
}

// IsOff reports whether date is an off-day: a holiday or vacation, an
// explicit no-work day, or a Saturday/Sunday.
func IsOff(date string, meta map[string]model.DayMeta) bool {
	if m, ok := meta[date]; ok {
		switch m.Type {
		case model.DayHoliday, model.DayVacation:
			return true
		case model.DayNormal:
		}
		if m.NoWork {
			return true
		}
	}
	wd, err := model.Weekday(date)
	if err != nil {
		return false
	}
	return wd == 0 || wd == 6
}

// WorkHours returns the effective working band of date: the custom hours
// from meta when present, the settings defaults otherwise.
func WorkHours(date string, meta map[string]model.DayMeta, settings model.Settings) (start, end string) {
	start, end = settings.DefaultWorkStart, settings.DefaultWorkEnd
	if m, ok := meta[date]; ok {
		if m.CustomWorkStart != "" {
			start = m.CustomWorkStart
		}
		if m.CustomWorkEnd != "" {
			end = m.CustomWorkEnd
		}
	}
	return start, end
}

// SlotMinutes is the duration of a slot. Malformed times and slots whose end
// is not after their start count as zero so they never reduce a total.
func SlotMinutes(s model.Slot) int {
	d, err := geometry.Duration(s.Start, s.End)
	if err != nil {
		appLog.Debug("stats: unreadable slot times", "id", s.ID, "start", s.Start, "end", s.End)
		return 0
	}
	if d <= 0 {
		appLog.Debug("stats: non-positive slot duration clamped", "id", s.ID, "start", s.Start, "end", s.End)
		return 0
	}
	return d
}

// WorkMinutes sums the actual Work-category minutes recorded on date.
func WorkMinutes(slots []model.Slot, date string) int {
	total := 0
	for _, s := range slots {
		if s.Date != date || s.Kind != model.KindActual || s.Category != model.CategoryWork {
			continue
		}
		total += SlotMinutes(s)
	}
	return total
}

// Cell is the calendar-grid summary of one date.
type Cell struct {
	Date              string          `json:"date"`
	Day               int             `json:"day"`
	Off               bool            `json:"off"`
	DayType           model.DayType   `json:"dayType"`
	WorkStart         string          `json:"workStart,omitempty"`
	WorkEnd           string          `json:"workEnd,omitempty"`
	HasHighImportance bool            `json:"hasHighImportance"`
	Mood              string          `json:"mood,omitempty"`
	WorkMinutes       int             `json:"workMinutes"`
	Featured          []model.Slot    `json:"featured"`
	Log               *model.DailyLog `json:"log,omitempty"`
}

// Summarize builds the cell for date. maxFeatured <= 0 means
// DefaultMaxFeatured. The work band is only filled on working days.
func Summarize(st model.State, date string, maxFeatured int) Cell {
	if maxFeatured <= 0 {
		maxFeatured = DefaultMaxFeatured
	}
	slots := st.SlotsOn(date)

	cell := Cell{
		Date:        date,
		Off:         IsOff(date, st.Meta),
		DayType:     model.DayNormal,
		WorkMinutes: WorkMinutes(slots, date),
		Featured:    []model.Slot{},
	}
	if t, err := model.ParseDate(date); err == nil {
		cell.Day = t.Day()
	}
	if m, ok := st.Meta[date]; ok && m.Type.Valid() {
		cell.DayType = m.Type
	}
	if !cell.Off {
		cell.WorkStart, cell.WorkEnd = WorkHours(date, st.Meta, st.Settings)
	}
	if log, ok := st.Diary[date]; ok {
		l := log
		cell.Log = &l
		cell.Mood = MoodGlyph(log.Mood)
	}

	for _, s := range slots {
		if s.Importance == model.ImportanceHigh {
			cell.HasHighImportance = true
		}
		if s.Importance.Featured() {
			cell.Featured = append(cell.Featured, s)
		}
	}
	sort.SliceStable(cell.Featured, func(i, j int) bool {
		return cell.Featured[i].Start < cell.Featured[j].Start
	})
	if len(cell.Featured) > maxFeatured {
		cell.Featured = cell.Featured[:maxFeatured]
	}
	return cell
}
