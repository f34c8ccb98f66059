package timeline

import (
	"testing"
	"time"

	"dayplan/internal/geometry"
	"dayplan/internal/model"
	"dayplan/internal/recur"
)

func planSlot(id, date, start, end string) model.Slot {
	return model.Slot{
		ID: id, Date: date, Kind: model.KindPlan, Start: start, End: end,
		Content: id, Category: model.CategoryWork, Importance: model.ImportanceMedium,
	}
}

func dailyRoutine(id, start, end string) model.Routine {
	return model.Routine{
		ID: id, Title: id, Category: model.CategoryHealth, Start: start, End: end,
		Cycle: model.CycleDaily, StartDate: "2024-01-01",
	}
}

func TestMergePlanDedupByStart(t *testing.T) {
	t.Parallel()

	date := "2024-06-10"
	slots := []model.Slot{planSlot("persisted", date, "09:00", "09:45")}
	occ := recur.Expand(date, []model.Routine{dailyRoutine("standup", "09:00", "09:15")}, nil)

	merged := MergePlan(slots, occ, date)
	count := 0
	for _, s := range merged {
		if s.Start == "09:00" {
			count++
			if s.ID != "persisted" || s.IsRoutine {
				t.Errorf("09:00 entry should be the persisted slot, got %+v", s)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one 09:00 entry, got %d in %+v", count, merged)
	}
}

func TestMergePlanKeepsDistinctStarts(t *testing.T) {
	t.Parallel()

	date := "2024-06-10"
	slots := []model.Slot{
		planSlot("p1", date, "09:00", "10:00"),
		planSlot("p2", date, "09:00", "09:30"), // two persisted slots share a start
		planSlot("other-day", "2024-06-11", "07:00", "08:00"),
		{ID: "a1", Date: date, Kind: model.KindActual, Start: "07:00", End: "08:00"},
	}
	routines := []model.Routine{
		dailyRoutine("gym", "07:00", "08:00"),
		dailyRoutine("standup", "09:00", "09:15"),
		dailyRoutine("read", "21:00", "21:30"),
	}
	occ := recur.Expand(date, routines, nil)

	merged := MergePlan(slots, occ, date)
	var ids []string
	for _, s := range merged {
		ids = append(ids, s.ID)
	}
	want := []string{"p1", "p2", "routine-gym-2024-06-10", "routine-read-2024-06-10"}
	if len(ids) != len(want) {
		t.Fatalf("merged = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("merged[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	// An actual slot at 07:00 does not hide the 07:00 routine, and routines
	// never reach the actual column.
	actual := ActualSlots(slots, date)
	if len(actual) != 1 || actual[0].ID != "a1" {
		t.Errorf("actual = %+v", actual)
	}
}

func TestBuildDay(t *testing.T) {
	t.Parallel()

	st := model.NewState(model.DefaultSettings())
	st.Goals = []model.Goal{{ID: "g1", Title: "Ship v1"}}
	st.Routines = []model.Routine{dailyRoutine("gym", "07:00", "07:20")}
	st.Slots = []model.Slot{
		planSlot("p1", "2024-06-10", "10:00", "11:30"),
		{ID: "a1", Date: "2024-06-10", Kind: model.KindActual, Start: "10:15", End: "11:00", Category: model.CategoryWork, GoalID: "g1"},
		{ID: "a2", Date: "2024-06-10", Kind: model.KindActual, Start: "13:00", End: "13:30", Category: model.CategoryWork, GoalID: "deleted-goal"},
	}
	st.Meta["2024-06-10"] = model.DayMeta{Type: model.DayNormal, CustomWorkStart: "08:00"}
	st.DeletedRoutineInstances = []string{"gym-2024-06-11"}

	now := time.Date(2024, 6, 10, 12, 30, 0, 0, time.UTC)
	v := BuildDay(st, "2024-06-10", Options{Scale: geometry.NewScale(60), Now: now})

	if v.Off {
		t.Error("Monday should be a working day")
	}
	if v.Work.Start != "08:00" || v.Work.End != "18:00" || v.Work.Top != 480 || v.Work.Height != 600 {
		t.Errorf("work band = %+v", v.Work)
	}
	if len(v.Plan) != 2 || len(v.Actual) != 2 {
		t.Fatalf("plan=%d actual=%d", len(v.Plan), len(v.Actual))
	}
	if v.Plan[0].Top != 600 || v.Plan[0].Height != 90 || !v.Plan[0].Resizable {
		t.Errorf("plan[0] = %+v", v.Plan[0])
	}
	routineBlock := v.Plan[1]
	if !routineBlock.Slot.IsRoutine || routineBlock.Resizable || routineBlock.Height != MinBlockHeight {
		t.Errorf("routine block = %+v", routineBlock)
	}
	if v.Actual[0].GoalTitle != "Ship v1" || v.Actual[1].GoalTitle != "" {
		t.Errorf("goal titles = %q, %q", v.Actual[0].GoalTitle, v.Actual[1].GoalTitle)
	}
	if v.NowOffset != 750 {
		t.Errorf("now offset = %v, want 750", v.NowOffset)
	}
	if v.WorkMinutes != 75 {
		t.Errorf("work minutes = %d, want 75", v.WorkMinutes)
	}

	next := BuildDay(st, "2024-06-11", Options{Scale: geometry.NewScale(60), Now: now})
	if len(next.Plan) != 0 {
		t.Errorf("tombstoned routine still shown on 2024-06-11: %+v", next.Plan)
	}
	if next.NowOffset != -1 {
		t.Errorf("now line shown on a different day: %v", next.NowOffset)
	}
}
