package interact

import (
	"encoding/json"
	"fmt"

	"dayplan/internal/model"
)

// EditAction is the button the user left the slot editor with.
type EditAction int

const (
	EditCancel EditAction = iota
	EditSave
	EditDelete
)

func (a EditAction) String() string {
	switch a {
	case EditSave:
		return "save"
	case EditDelete:
		return "delete"
	case EditCancel:
		return "cancel"
	}
	return "unknown"
}

func (a EditAction) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

func (a *EditAction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "save":
		*a = EditSave
	case "delete":
		*a = EditDelete
	case "cancel", "":
		*a = EditCancel
	default:
		return fmt.Errorf("interact: unknown edit action %q", s)
	}
	return nil
}

// EditResult is what the slot editor hands back. Slot carries the edited
// fields and is ignored for delete and cancel.
type EditResult struct {
	Action EditAction `json:"action"`
	Slot   model.Slot `json:"slot"`
}

// EditMutation maps an editor result for original onto a mutation.
//
// Saving a routine occurrence materializes it as a new slot; saving a real
// slot replaces it under its original id. Deleting an occurrence records a
// tombstone for that one date; deleting a real slot removes it.
func EditMutation(original model.Slot, res EditResult, newID IDFunc) (Mutation, bool) {
	switch res.Action {
	case EditSave:
		s := res.Slot
		s.Date = original.Date
		if s.Kind == "" {
			s.Kind = original.Kind
		}
		if s.Category == "" {
			s.Category = original.Category
		}
		if s.Importance == "" {
			s.Importance = original.Importance
		}
		if original.IsRoutine {
			s.ID = newID()
			s.IsRoutine = false
			s.RoutineID = ""
			return MaterializeOccurrence{RoutineID: original.RoutineID, Slot: s}, true
		}
		s.ID = original.ID
		return ReplaceSlot{Slot: s}, true
	case EditDelete:
		if original.IsRoutine {
			return SuppressOccurrence{RoutineID: original.RoutineID, Date: original.Date}, true
		}
		return DeleteSlot{ID: original.ID}, true
	case EditCancel:
		return nil, false
	}
	return nil, false
}
