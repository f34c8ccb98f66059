// Package interact turns pointer gestures on the timeline into state
// mutations.
//
// A Machine tracks at most one gesture at a time:
//
//	idle -> pendingCreate -> idle   drag on empty space to draw a slot
//	idle -> resizing      -> idle   drag a slot's bottom edge
//	idle -> dragging      -> idle   drag a slot or occurrence onto a column
//
// Pointer coordinates live only inside the Machine and are discarded when a
// gesture ends or is cancelled; only the returned Mutation reaches the
// persisted state.
package interact

import (
	"errors"

	"github.com/google/uuid"

	"dayplan/internal/geometry"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

const (
	// DefaultMinCreateSpan is the pixel span a create drag must exceed.
	DefaultMinCreateSpan = 10

	// DefaultContent labels a freshly drawn slot until it is edited.
	DefaultContent = "New event"
)

var (
	ErrBusy         = errors.New("interact: a gesture is already in progress")
	ErrNoGesture    = errors.New("interact: no gesture in progress")
	ErrNotResizable = errors.New("interact: routine occurrences cannot be resized")
	ErrBadColumn    = errors.New("interact: unknown column")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePendingCreate
	PhaseResizing
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePendingCreate:
		return "pendingCreate"
	case PhaseResizing:
		return "resizing"
	case PhaseDragging:
		return "dragging"
	}
	return "unknown"
}

// IDFunc issues fresh slot ids.
type IDFunc func() string

// Config holds the fixed parameters of a Machine.
type Config struct {
	Scale geometry.Scale
	// MinCreateSpan is in pixels; zero means DefaultMinCreateSpan.
	MinCreateSpan float64
	// NewID defaults to random UUIDs.
	NewID IDFunc
}

type createGesture struct {
	date          string
	column        model.Kind
	startOffset   float64
	currentOffset float64
}

type resizeGesture struct {
	slot          model.Slot
	pointerOrigin float64
	endOrigin     float64
	lastEnd       string
}

type dragGesture struct {
	item model.Slot
}

// Machine is the transient interaction state of one pointer.
type Machine struct {
	cfg    Config
	phase  Phase
	create createGesture
	resize resizeGesture
	drag   dragGesture
}

func New(cfg Config) *Machine {
	if cfg.MinCreateSpan <= 0 {
		cfg.MinCreateSpan = DefaultMinCreateSpan
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	cfg.Scale = geometry.NewScale(cfg.Scale.PixelsPerHour)
	return &Machine{cfg: cfg}
}

func (m *Machine) Phase() Phase { return m.phase }

// BeginCreate starts drawing a new slot in column at offset.
func (m *Machine) BeginCreate(date string, column model.Kind, offset float64) error {
	if m.phase != PhaseIdle {
		return ErrBusy
	}
	if !column.Valid() {
		return ErrBadColumn
	}
	m.phase = PhasePendingCreate
	m.create = createGesture{date: date, column: column, startOffset: offset, currentOffset: offset}
	return nil
}

// BeginResize grabs the bottom edge of s with the pointer at offset.
func (m *Machine) BeginResize(s model.Slot, offset float64) error {
	if m.phase != PhaseIdle {
		return ErrBusy
	}
	if s.IsRoutine {
		return ErrNotResizable
	}
	end, err := m.cfg.Scale.TimeToOffset(s.End)
	if err != nil {
		return err
	}
	m.phase = PhaseResizing
	m.resize = resizeGesture{slot: s, pointerOrigin: offset, endOrigin: end, lastEnd: s.End}
	return nil
}

// BeginDrag picks up a slot or routine occurrence for a move/copy.
func (m *Machine) BeginDrag(item model.Slot) error {
	if m.phase != PhaseIdle {
		return ErrBusy
	}
	m.phase = PhaseDragging
	m.drag = dragGesture{item: item}
	return nil
}

// Move tracks the pointer. While resizing it yields the live ResizeSlot for
// the new end; candidates at or before the slot's start are rejected and the
// previous end stays in force.
func (m *Machine) Move(offset float64) (Mutation, bool) {
	switch m.phase {
	case PhasePendingCreate:
		m.create.currentOffset = offset
		return nil, false
	case PhaseResizing:
		return m.resizeTo(offset)
	case PhaseIdle, PhaseDragging:
		return nil, false
	}
	return nil, false
}

// Up releases the pointer at offset and ends the gesture.
//
// A create drag commits a CreateSlot only when its span exceeds
// MinCreateSpan. A resize yields its final end if it changed on release. A
// drag released outside any column is dropped.
func (m *Machine) Up(offset float64) (Mutation, bool) {
	defer m.reset()

	switch m.phase {
	case PhasePendingCreate:
		m.create.currentOffset = offset
		return m.commitCreate()
	case PhaseResizing:
		return m.resizeTo(offset)
	case PhaseIdle, PhaseDragging:
		return nil, false
	}
	return nil, false
}

// Drop releases a dragged item on column at offset of date. ok is false
// when the drop cannot yield a valid slot; the gesture ends either way.
func (m *Machine) Drop(date string, column model.Kind, offset float64) (mut Mutation, ok bool, err error) {
	if m.phase != PhaseDragging {
		return nil, false, ErrNoGesture
	}
	defer m.reset()
	if !column.Valid() {
		return nil, false, ErrBadColumn
	}
	mut, ok = DropMutation(m.drag.item, date, column, offset, m.cfg.Scale, m.cfg.NewID)
	return mut, ok, nil
}

// Cancel discards the current gesture, e.g. when the pointer leaves the
// surface.
func (m *Machine) Cancel() {
	if m.phase != PhaseIdle {
		appLog.Debug("interact: gesture cancelled", "phase", m.phase.String())
	}
	m.reset()
}

func (m *Machine) reset() {
	m.phase = PhaseIdle
	m.create = createGesture{}
	m.resize = resizeGesture{}
	m.drag = dragGesture{}
}

func (m *Machine) commitCreate() (Mutation, bool) {
	g := m.create
	lo, hi := g.startOffset, g.currentOffset
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi-lo <= m.cfg.MinCreateSpan {
		appLog.Debug("interact: click ignored", "span", hi-lo)
		return nil, false
	}
	start := m.cfg.Scale.OffsetToTime(lo)
	end := m.cfg.Scale.OffsetToTime(hi)
	if !validSpan(start, end) {
		return nil, false
	}
	return CreateSlot{Slot: model.Slot{
		ID:         m.cfg.NewID(),
		Date:       g.date,
		Kind:       g.column,
		Start:      start,
		End:        end,
		Content:    DefaultContent,
		Category:   model.CategoryGeneral,
		Importance: model.ImportanceMedium,
	}}, true
}

func (m *Machine) resizeTo(offset float64) (Mutation, bool) {
	g := &m.resize
	candidate := g.endOrigin + (offset - g.pointerOrigin)
	end := m.cfg.Scale.OffsetToTime(candidate)
	if !validSpan(g.slot.Start, end) {
		appLog.Debug("interact: resize rejected", "id", g.slot.ID, "start", g.slot.Start, "end", end)
		return nil, false
	}
	if end == g.lastEnd {
		return nil, false
	}
	g.lastEnd = end
	return ResizeSlot{ID: g.slot.ID, End: end}, true
}

// DropMutation applies the move/copy policy to item dropped on column at
// offset of date. The new start comes from the drop offset and the original
// duration is preserved, clamped so the slot ends by 23:59.
//
//	occurrence            -> MaterializeOccurrence (fresh id, column kind)
//	plan slot on actual   -> CopySlot (fresh id, original untouched)
//	any other slot        -> MoveSlot (same id, column kind)
func DropMutation(item model.Slot, date string, column model.Kind, offset float64, scale geometry.Scale, newID IDFunc) (Mutation, bool) {
	dur, err := geometry.Duration(item.Start, item.End)
	if err != nil || dur <= 0 {
		return nil, false
	}
	startMin := scale.OffsetToMinutes(offset)
	endMin := startMin + dur
	if endMin > geometry.MinutesPerDay-1 {
		endMin = geometry.MinutesPerDay - 1
	}
	if endMin <= startMin {
		return nil, false
	}
	start, end := geometry.FormatClock(startMin), geometry.FormatClock(endMin)

	switch {
	case item.IsRoutine:
		s := item
		s.ID = newID()
		s.Date = date
		s.Kind = column
		s.Start, s.End = start, end
		s.IsRoutine = false
		s.RoutineID = ""
		return MaterializeOccurrence{RoutineID: item.RoutineID, Slot: s}, true
	case item.Kind == model.KindPlan && column == model.KindActual:
		s := item
		s.ID = newID()
		s.Date = date
		s.Kind = model.KindActual
		s.Start, s.End = start, end
		return CopySlot{SourceID: item.ID, Slot: s}, true
	default:
		return MoveSlot{ID: item.ID, Date: date, Kind: column, Start: start, End: end}, true
	}
}
