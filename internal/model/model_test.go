package model

import (
	"encoding/json"
	"testing"
)

func TestNormalizeOldState(t *testing.T) {
	t.Parallel()

	// A state saved before people and tombstones existed.
	raw := `{"slots":[{"id":"1","date":"2024-06-10","type":"plan","start":"09:00","end":"10:00","content":"x","category":"Work","importance":"medium"}],"settings":{"userName":"kim"}}`
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	st.Normalize()

	if st.People == nil || st.DeletedRoutineInstances == nil || st.Routines == nil {
		t.Fatalf("expected empty collections, got %+v", st)
	}
	if st.Meta == nil || st.Diary == nil {
		t.Fatal("expected empty maps")
	}
	if st.Settings.DefaultWorkStart != "09:00" || st.Settings.DefaultWorkEnd != "18:00" {
		t.Errorf("unexpected defaults %+v", st.Settings)
	}
	if st.Settings.UserName != "kim" {
		t.Errorf("user name lost: %q", st.Settings.UserName)
	}
	if len(st.Slots) != 1 || st.Slots[0].Kind != KindPlan {
		t.Errorf("slots not decoded: %+v", st.Slots)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	st := NewState(DefaultSettings())
	st.Slots = append(st.Slots, Slot{ID: "a", Start: "09:00"})
	st.Meta["2024-06-10"] = DayMeta{Type: DayHoliday}

	cp := st.Clone()
	cp.Slots[0].Start = "10:00"
	cp.Meta["2024-06-11"] = DayMeta{Type: DayVacation}

	if st.Slots[0].Start != "09:00" {
		t.Error("clone shares slot storage")
	}
	if _, ok := st.Meta["2024-06-11"]; ok {
		t.Error("clone shares meta map")
	}
}

func TestTombstoneKeys(t *testing.T) {
	t.Parallel()

	key := TombstoneKey("r-1", "2024-06-10")
	if key != "r-1-2024-06-10" {
		t.Fatalf("key = %q", key)
	}
	id, date, ok := SplitTombstone(key)
	if !ok || id != "r-1" || date != "2024-06-10" {
		t.Errorf("split = %q %q %v", id, date, ok)
	}
	for _, bad := range []string{"", "2024-06-10", "r1-2024-13-40", "r12024-06-10"} {
		if _, _, ok := SplitTombstone(bad); ok {
			t.Errorf("SplitTombstone(%q) should fail", bad)
		}
	}
}

func TestWeekday(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"2024-06-09": 0, // Sunday
		"2024-06-10": 1,
		"2024-06-15": 6,
	}
	for date, want := range cases {
		got, err := Weekday(date)
		if err != nil || got != want {
			t.Errorf("Weekday(%s) = %d, %v; want %d", date, got, err, want)
		}
	}
	if _, err := Weekday("06/10/2024"); err != ErrBadDate {
		t.Errorf("expected ErrBadDate, got %v", err)
	}
}

func TestGoalTitleDangling(t *testing.T) {
	t.Parallel()

	st := NewState(DefaultSettings())
	st.Goals = []Goal{{ID: "g1", Title: "Run a marathon"}}
	if title, ok := st.GoalTitle("g1"); !ok || title != "Run a marathon" {
		t.Errorf("GoalTitle(g1) = %q %v", title, ok)
	}
	if _, ok := st.GoalTitle("deleted"); ok {
		t.Error("dangling goal should resolve to a miss")
	}
}
