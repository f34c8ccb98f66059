package interact

import (
	"dayplan/internal/geometry"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

// Mutation is a committed change to the persisted state. The set of
// mutations is closed; every gesture and editor result maps onto one of the
// types below.
type Mutation interface {
	apply(st *model.State) bool
	// Name identifies the mutation kind in logs and API responses.
	Name() string
}

// CreateSlot adds a slot drawn on an empty area of a column.
type CreateSlot struct {
	Slot model.Slot `json:"slot"`
}

// ResizeSlot moves the end of a persisted slot.
type ResizeSlot struct {
	ID  string `json:"id"`
	End string `json:"end"`
}

// MoveSlot relocates a persisted slot in place, possibly to another column.
type MoveSlot struct {
	ID    string     `json:"id"`
	Date  string     `json:"date"`
	Kind  model.Kind `json:"kind"`
	Start string     `json:"start"`
	End   string     `json:"end"`
}

// CopySlot adds the actual-column copy of a plan slot. The source is untouched.
type CopySlot struct {
	SourceID string     `json:"sourceId"`
	Slot     model.Slot `json:"slot"`
}

// MaterializeOccurrence turns a routine occurrence into a persisted slot.
// The routine keeps generating its occurrence on that date.
type MaterializeOccurrence struct {
	RoutineID string     `json:"routineId"`
	Slot      model.Slot `json:"slot"`
}

// ReplaceSlot stores an edited slot over the one with the same id.
type ReplaceSlot struct {
	Slot model.Slot `json:"slot"`
}

// DeleteSlot removes a persisted slot.
type DeleteSlot struct {
	ID string `json:"id"`
}

// SuppressOccurrence records a tombstone for one routine occurrence.
type SuppressOccurrence struct {
	RoutineID string `json:"routineId"`
	Date      string `json:"date"`
}

func (CreateSlot) Name() string            { return "create" }
func (ResizeSlot) Name() string            { return "resize" }
func (MoveSlot) Name() string              { return "move" }
func (CopySlot) Name() string              { return "copy" }
func (MaterializeOccurrence) Name() string { return "materialize" }
func (ReplaceSlot) Name() string           { return "replace" }
func (DeleteSlot) Name() string            { return "delete" }
func (SuppressOccurrence) Name() string    { return "suppress" }

// Apply returns st with mut applied, leaving st itself untouched. A mutation
// that would break an invariant (end not after start, duplicate or unknown
// id) is dropped and applied=false.
func Apply(st model.State, mut Mutation) (next model.State, applied bool) {
	if mut == nil {
		return st, false
	}
	next = st.Clone()
	if !mut.apply(&next) {
		appLog.Debug("interact: mutation rejected", "mutation", mut.Name())
		return st, false
	}
	return next, true
}

func validSpan(start, end string) bool {
	return geometry.Before(start, end)
}

func addSlot(st *model.State, s model.Slot) bool {
	if s.ID == "" || st.FindSlot(s.ID) >= 0 {
		return false
	}
	if !s.Kind.Valid() || !validSpan(s.Start, s.End) {
		return false
	}
	if _, err := model.ParseDate(s.Date); err != nil {
		return false
	}
	s.IsRoutine = false
	s.RoutineID = ""
	st.Slots = append(st.Slots, s)
	return true
}

func (m CreateSlot) apply(st *model.State) bool { return addSlot(st, m.Slot) }

func (m CopySlot) apply(st *model.State) bool {
	if m.Slot.Kind != model.KindActual {
		return false
	}
	return addSlot(st, m.Slot)
}

// validContent checks the editor-supplied fields of s against the closed
// enums and the date layout.
func validContent(s model.Slot) bool {
	if !s.Category.Valid() || !s.Importance.Valid() {
		return false
	}
	_, err := model.ParseDate(s.Date)
	return err == nil
}

func (m MaterializeOccurrence) apply(st *model.State) bool {
	return validContent(m.Slot) && addSlot(st, m.Slot)
}

func (m ResizeSlot) apply(st *model.State) bool {
	i := st.FindSlot(m.ID)
	if i < 0 || !validSpan(st.Slots[i].Start, m.End) {
		return false
	}
	st.Slots[i].End = m.End
	return true
}

func (m MoveSlot) apply(st *model.State) bool {
	i := st.FindSlot(m.ID)
	if i < 0 || !m.Kind.Valid() || !validSpan(m.Start, m.End) {
		return false
	}
	if _, err := model.ParseDate(m.Date); err != nil {
		return false
	}
	s := &st.Slots[i]
	s.Date, s.Kind, s.Start, s.End = m.Date, m.Kind, m.Start, m.End
	return true
}

func (m ReplaceSlot) apply(st *model.State) bool {
	i := st.FindSlot(m.Slot.ID)
	if i < 0 || !m.Slot.Kind.Valid() || !validSpan(m.Slot.Start, m.Slot.End) || !validContent(m.Slot) {
		return false
	}
	s := m.Slot
	s.IsRoutine = false
	s.RoutineID = ""
	st.Slots[i] = s
	return true
}

func (m DeleteSlot) apply(st *model.State) bool {
	i := st.FindSlot(m.ID)
	if i < 0 {
		return false
	}
	st.Slots = append(st.Slots[:i], st.Slots[i+1:]...)
	return true
}

func (m SuppressOccurrence) apply(st *model.State) bool {
	if m.RoutineID == "" {
		return false
	}
	if _, err := model.ParseDate(m.Date); err != nil {
		return false
	}
	key := model.TombstoneKey(m.RoutineID, m.Date)
	for _, k := range st.DeletedRoutineInstances {
		if k == key {
			return true
		}
	}
	st.DeletedRoutineInstances = append(st.DeletedRoutineInstances, key)
	return true
}
