package interact

import (
	"encoding/json"
	"testing"

	"dayplan/internal/model"
	"dayplan/internal/recur"
)

func TestEditMutation(t *testing.T) {
	t.Parallel()

	r := model.Routine{ID: "gym", Title: "Gym", Category: model.CategoryHealth, Start: "07:00", End: "08:00", Cycle: model.CycleDaily, StartDate: "2024-01-01"}
	occ := recur.Occurrence(r, testDate)
	persisted := slot("s1", model.KindPlan, "09:00", "10:00")

	edited := persisted
	edited.ID = "tampered"
	edited.Content = "Review"
	edited.End = "10:30"

	cases := []struct {
		name     string
		original model.Slot
		res      EditResult
		want     string
	}{
		{"save occurrence", occ, EditResult{Action: EditSave, Slot: occ}, "materialize"},
		{"save slot", persisted, EditResult{Action: EditSave, Slot: edited}, "replace"},
		{"delete occurrence", occ, EditResult{Action: EditDelete}, "suppress"},
		{"delete slot", persisted, EditResult{Action: EditDelete}, "delete"},
		{"cancel", persisted, EditResult{Action: EditCancel, Slot: edited}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mut, ok := EditMutation(tc.original, tc.res, seqIDs())
			if tc.want == "" {
				if ok {
					t.Fatalf("cancel produced %+v", mut)
				}
				return
			}
			if !ok || mut.Name() != tc.want {
				t.Fatalf("got %v (ok=%v), want %s", mut, ok, tc.want)
			}
		})
	}
}

func TestEditRoundTrip(t *testing.T) {
	t.Parallel()

	r := model.Routine{ID: "gym", Title: "Gym", Category: model.CategoryHealth, Start: "07:00", End: "08:00", Cycle: model.CycleDaily, StartDate: "2024-01-01"}
	occ := recur.Occurrence(r, testDate)
	st := stateWith(slot("s1", model.KindPlan, "09:00", "10:00"))
	st.Routines = []model.Routine{r}

	// Saving an occurrence persists an independent slot.
	res := EditResult{Action: EditSave, Slot: occ}
	res.Slot.Content = "Gym with Sam"
	mut, _ := EditMutation(occ, res, seqIDs())
	st, ok := Apply(st, mut)
	if !ok || len(st.Slots) != 2 {
		t.Fatalf("materialize: ok=%v slots=%+v", ok, st.Slots)
	}
	m := st.Slots[1]
	if m.ID != "new-1" || m.IsRoutine || m.RoutineID != "" || m.Content != "Gym with Sam" || m.Start != "07:00" {
		t.Errorf("materialized = %+v", m)
	}

	// Saving a real slot keeps its id even if the editor sent another.
	edited := st.Slots[0]
	edited.ID = "tampered"
	edited.End = "10:30"
	mut, _ = EditMutation(st.Slots[0], EditResult{Action: EditSave, Slot: edited}, seqIDs())
	st, ok = Apply(st, mut)
	if !ok || st.Slots[0].ID != "s1" || st.Slots[0].End != "10:30" {
		t.Errorf("replace: ok=%v slot=%+v", ok, st.Slots[0])
	}

	// An editor save that breaks start < end is refused.
	edited.End = "08:00"
	mut, _ = EditMutation(st.Slots[0], EditResult{Action: EditSave, Slot: edited}, seqIDs())
	if _, ok := Apply(st, mut); ok {
		t.Error("reversed edit applied")
	}

	// Deleting an occurrence tombstones only that date.
	mut, _ = EditMutation(occ, EditResult{Action: EditDelete}, seqIDs())
	st, _ = Apply(st, mut)
	tomb := recur.NewTombstones(st.DeletedRoutineInstances)
	if len(recur.Expand(testDate, st.Routines, tomb)) != 0 {
		t.Error("occurrence still generated on the tombstoned date")
	}
	if len(recur.Expand("2024-06-11", st.Routines, tomb)) != 1 {
		t.Error("tombstone leaked to the next date")
	}
}

func TestEditActionJSON(t *testing.T) {
	t.Parallel()

	var res EditResult
	if err := json.Unmarshal([]byte(`{"action":"delete","slot":{"id":"x"}}`), &res); err != nil {
		t.Fatal(err)
	}
	if res.Action != EditDelete || res.Slot.ID != "x" {
		t.Errorf("decoded %+v", res)
	}
	if err := json.Unmarshal([]byte(`{"action":"archive"}`), &res); err == nil {
		t.Error("unknown action accepted")
	}
	b, _ := json.Marshal(EditResult{Action: EditSave})
	var raw map[string]any
	_ = json.Unmarshal(b, &raw)
	if raw["action"] != "save" {
		t.Errorf("encoded %s", b)
	}
}

func TestEditEnumsChecked(t *testing.T) {
	t.Parallel()

	r := model.Routine{ID: "gym", Title: "Gym", Category: model.CategoryHealth, Start: "07:00", End: "08:00", Cycle: model.CycleDaily, StartDate: "2024-01-01"}
	occ := recur.Occurrence(r, testDate)
	persisted := slot("s1", model.KindPlan, "09:00", "10:00")
	st := stateWith(persisted)
	st.Routines = []model.Routine{r}

	cases := []struct {
		name     string
		original model.Slot
		slot     model.Slot
		applied  bool
	}{
		{"blank enums keep the original", persisted, model.Slot{Content: "Review", Start: "09:00", End: "10:30"}, true},
		{"unknown category", persisted, model.Slot{Content: "Review", Start: "09:00", End: "10:30", Category: "Chores"}, false},
		{"unknown importance", persisted, model.Slot{Content: "Review", Start: "09:00", End: "10:30", Importance: "urgent"}, false},
		{"occurrence with unknown category", occ, model.Slot{Content: "Gym", Start: "07:00", End: "08:00", Category: "Chores"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mut, ok := EditMutation(tc.original, EditResult{Action: EditSave, Slot: tc.slot}, seqIDs())
			if !ok {
				t.Fatal("no mutation")
			}
			next, applied := Apply(st, mut)
			if applied != tc.applied {
				t.Fatalf("applied = %v, want %v (slots %+v)", applied, tc.applied, next.Slots)
			}
			if !applied {
				return
			}
			got := next.Slots[0]
			if got.Category != model.CategoryWork || got.Importance != model.ImportanceHigh || got.End != "10:30" {
				t.Errorf("saved = %+v", got)
			}
		})
	}
}
