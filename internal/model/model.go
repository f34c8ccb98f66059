package model

import (
	"encoding/json"
	"errors"
	"time"
)

// DateLayout is the persisted calendar-day format.
const DateLayout = "2006-01-02"

var ErrBadDate = errors.New("model: malformed date")

// Slot is a concrete time block in the plan or actual column.
//
// IsRoutine and RoutineID are only ever set on occurrences produced by the
// recurrence expander; persisted slots carry neither.
type Slot struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	Kind       Kind       `json:"type"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
	Content    string     `json:"content"`
	Category   Category   `json:"category"`
	Importance Importance `json:"importance"`
	GoalID     string     `json:"goalId,omitempty"`
	IsRoutine  bool       `json:"isRoutine,omitempty"`
	RoutineID  string     `json:"originalRoutineId,omitempty"`
	IsMeeting  bool       `json:"isMeeting,omitempty"`
	Attendees  []string   `json:"attendees,omitempty"`
}

// Routine is a recurrence rule projected into the plan column.
type Routine struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  Category `json:"category"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Cycle     Cycle    `json:"cycle"`
	Days      []int    `json:"days"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate,omitempty"`
	GoalID    string   `json:"goalId,omitempty"`
}

// DayMeta overrides the default working hours of one date.
type DayMeta struct {
	Type            DayType `json:"type"`
	CustomWorkStart string  `json:"customWorkStart,omitempty"`
	CustomWorkEnd   string  `json:"customWorkEnd,omitempty"`
	NoWork          bool    `json:"noWork,omitempty"`
}

// DailyLog is a journal entry; only Mood is read by the core.
type DailyLog struct {
	Mood   int      `json:"mood"`
	Energy int      `json:"energy"`
	Text   string   `json:"text"`
	Tags   []string `json:"tags"`
}

// Goal is owned by the goal module. The core reads Status for scoring and
// ID/Title for display of weak references.
type Goal struct {
	ID          string     `json:"id"`
	Category    GoalType   `json:"category"`
	Title       string     `json:"title"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	Description string     `json:"description"`
	Status      GoalStatus `json:"status"`
	Priority    string     `json:"priority"`
}

type Settings struct {
	UserName         string `json:"userName"`
	DefaultWorkStart string `json:"defaultWorkStart"`
	DefaultWorkEnd   string `json:"defaultWorkEnd"`
	Theme            string `json:"theme"`
	Language         string `json:"language"`
}

// State is the whole per-user aggregate handed to the store. SubGoals and
// People belong to other modules and are carried through untouched.
type State struct {
	Slots                   []Slot              `json:"slots"`
	Goals                   []Goal              `json:"goals"`
	SubGoals                []json.RawMessage   `json:"subgoals"`
	Routines                []Routine           `json:"routines"`
	People                  []json.RawMessage   `json:"people"`
	DeletedRoutineInstances []string            `json:"deletedRoutineInstances"`
	Diary                   map[string]DailyLog `json:"diary"`
	Meta                    map[string]DayMeta  `json:"meta"`
	Settings                Settings            `json:"settings"`
}

// DefaultSettings mirrors a freshly created account.
func DefaultSettings() Settings {
	return Settings{
		DefaultWorkStart: "09:00",
		DefaultWorkEnd:   "18:00",
		Theme:            "light",
		Language:         "ko",
	}
}

// NewState returns an empty state seeded with the given settings.
func NewState(s Settings) State {
	st := State{Settings: s}
	st.Normalize()
	return st
}

// Normalize replaces absent collections with empty ones and fills missing
// default work hours, so that states written by older versions load cleanly.
func (s *State) Normalize() {
	if s.Slots == nil {
		s.Slots = []Slot{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	if s.SubGoals == nil {
		s.SubGoals = []json.RawMessage{}
	}
	if s.Routines == nil {
		s.Routines = []Routine{}
	}
	if s.People == nil {
		s.People = []json.RawMessage{}
	}
	if s.DeletedRoutineInstances == nil {
		s.DeletedRoutineInstances = []string{}
	}
	if s.Diary == nil {
		s.Diary = map[string]DailyLog{}
	}
	if s.Meta == nil {
		s.Meta = map[string]DayMeta{}
	}
	def := DefaultSettings()
	if s.Settings.DefaultWorkStart == "" {
		s.Settings.DefaultWorkStart = def.DefaultWorkStart
	}
	if s.Settings.DefaultWorkEnd == "" {
		s.Settings.DefaultWorkEnd = def.DefaultWorkEnd
	}
	if s.Settings.Theme == "" {
		s.Settings.Theme = def.Theme
	}
	if s.Settings.Language == "" {
		s.Settings.Language = def.Language
	}
}

// Clone returns a copy whose slices and maps can be mutated without touching s.
func (s State) Clone() State {
	out := s
	out.Slots = append([]Slot(nil), s.Slots...)
	out.Goals = append([]Goal(nil), s.Goals...)
	out.SubGoals = append([]json.RawMessage(nil), s.SubGoals...)
	out.Routines = append([]Routine(nil), s.Routines...)
	out.People = append([]json.RawMessage(nil), s.People...)
	out.DeletedRoutineInstances = append([]string(nil), s.DeletedRoutineInstances...)
	out.Diary = make(map[string]DailyLog, len(s.Diary))
	for k, v := range s.Diary {
		out.Diary[k] = v
	}
	out.Meta = make(map[string]DayMeta, len(s.Meta))
	for k, v := range s.Meta {
		out.Meta[k] = v
	}
	return out
}

// SlotsOn returns the persisted slots of one date in stored order.
func (s State) SlotsOn(date string) []Slot {
	out := make([]Slot, 0)
	for _, sl := range s.Slots {
		if sl.Date == date {
			out = append(out, sl)
		}
	}
	return out
}

// FindSlot returns the index of the slot with the given id, or -1.
func (s State) FindSlot(id string) int {
	for i := range s.Slots {
		if s.Slots[i].ID == id {
			return i
		}
	}
	return -1
}

// FindRoutine returns the index of the routine with the given id, or -1.
func (s State) FindRoutine(id string) int {
	for i := range s.Routines {
		if s.Routines[i].ID == id {
			return i
		}
	}
	return -1
}

// GoalTitle resolves a weak goal reference. A dangling id yields ok=false.
func (s State) GoalTitle(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	for _, g := range s.Goals {
		if g.ID == id {
			return g.Title, true
		}
	}
	return "", false
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// FormatDate renders the calendar day of t, ignoring its clock.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Weekday returns 0=Sunday..6=Saturday for a YYYY-MM-DD date.
func Weekday(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// TombstoneKey is the suppression key of one routine occurrence.
func TombstoneKey(routineID, date string) string {
	return routineID + "-" + date
}

// SplitTombstone reverses TombstoneKey. The date is always the trailing
// ten characters, so routine ids may themselves contain dashes.
func SplitTombstone(key string) (routineID, date string, ok bool) {
	const n = len(DateLayout)
	if len(key) < n+2 || key[len(key)-n-1] != '-' {
		return "", "", false
	}
	date = key[len(key)-n:]
	if _, err := ParseDate(date); err != nil {
		return "", "", false
	}
	return key[:len(key)-n-1], date, true
}

// OccurrenceID is the deterministic id of a routine occurrence.
func OccurrenceID(routineID, date string) string {
	return "routine-" + routineID + "-" + date
}
