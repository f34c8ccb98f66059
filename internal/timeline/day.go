// Package timeline assembles the dual-column view of one day: the plan
// column (persisted plan slots reconciled with routine occurrences) and the
// actual column, laid out on the drag surface.
package timeline

import (
	"time"

	"dayplan/internal/geometry"
	"dayplan/internal/model"
	"dayplan/internal/recur"
	"dayplan/internal/stats"
)

// MinBlockHeight keeps short slots tall enough to grab.
const MinBlockHeight = 40

// Block is a slot placed on the drag surface.
type Block struct {
	Slot      model.Slot `json:"slot"`
	Top       float64    `json:"top"`
	Height    float64    `json:"height"`
	Resizable bool       `json:"resizable"`
	GoalTitle string     `json:"goalTitle,omitempty"`
}

// Band is the highlighted working-hours region of a column.
type Band struct {
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// DayView is everything a renderer needs for one date. It holds no
// interaction state.
type DayView struct {
	Date   string  `json:"date"`
	Off    bool    `json:"off"`
	Work   Band    `json:"work"`
	Plan   []Block `json:"plan"`
	Actual []Block `json:"actual"`

	// NowOffset is the offset of the current time when Date is today, -1
	// otherwise.
	NowOffset float64 `json:"nowOffset"`

	WorkMinutes int `json:"workMinutes"`
}

// Options carries the render-time parameters of BuildDay.
type Options struct {
	Scale geometry.Scale
	// Now is the current instant in the display timezone. A zero Now
	// disables the now line.
	Now time.Time
}

// BuildDay expands routines for date, merges them into the plan column and
// lays both columns out.
func BuildDay(st model.State, date string, opt Options) DayView {
	occ := recur.Expand(date, st.Routines, recur.NewTombstones(st.DeletedRoutineInstances))

	v := DayView{
		Date:        date,
		Off:         stats.IsOff(date, st.Meta),
		Plan:        Layout(st, MergePlan(st.Slots, occ, date), opt.Scale),
		Actual:      Layout(st, ActualSlots(st.Slots, date), opt.Scale),
		NowOffset:   -1,
		WorkMinutes: stats.WorkMinutes(st.Slots, date),
	}

	ws, we := stats.WorkHours(date, st.Meta, st.Settings)
	v.Work = Band{Start: ws, End: we}
	top, err1 := opt.Scale.TimeToOffset(ws)
	bottom, err2 := opt.Scale.TimeToOffset(we)
	if err1 == nil && err2 == nil && bottom > top {
		v.Work.Top = top
		v.Work.Height = bottom - top
	}

	if !opt.Now.IsZero() && model.FormatDate(opt.Now) == date {
		mins := opt.Now.Hour()*60 + opt.Now.Minute()
		v.NowOffset = opt.Scale.MinutesToOffset(mins)
	}
	return v
}

// Layout positions slots on the drag surface. Slots with unreadable times
// are placed at the top with the minimum height.
func Layout(st model.State, slots []model.Slot, scale geometry.Scale) []Block {
	out := make([]Block, 0, len(slots))
	for _, s := range slots {
		b := Block{Slot: s, Height: MinBlockHeight, Resizable: !s.IsRoutine}
		top, err := scale.TimeToOffset(s.Start)
		if err == nil {
			b.Top = top
			if bottom, err := scale.TimeToOffset(s.End); err == nil && bottom-top > MinBlockHeight {
				b.Height = bottom - top
			}
		}
		if title, ok := st.GoalTitle(s.GoalID); ok {
			b.GoalTitle = title
		}
		out = append(out, b)
	}
	return out
}
