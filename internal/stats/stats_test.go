package stats

import (
	"testing"

	"dayplan/internal/model"
)

func slot(id, date string, kind model.Kind, start, end string, cat model.Category, imp model.Importance) model.Slot {
	return model.Slot{ID: id, Date: date, Kind: kind, Start: start, End: end, Category: cat, Importance: imp}
}

func TestIsOff(t *testing.T) {
	t.Parallel()

	// 2024-06-10 is a Monday.
	meta := map[string]model.DayMeta{
		"2024-06-11": {Type: model.DayNormal, CustomWorkStart: "10:00"},
		"2024-06-12": {Type: model.DayVacation},
		"2024-06-13": {Type: model.DayNormal, NoWork: true},
		"2024-06-14": {Type: model.DayHoliday},
		"2024-06-15": {Type: model.DayNormal},
	}
	cases := map[string]bool{
		"2024-06-10": false, // plain Monday
		"2024-06-11": false, // custom hours only
		"2024-06-12": true,
		"2024-06-13": true,
		"2024-06-14": true,
		"2024-06-15": true, // Saturday stays off even with a normal entry
		"2024-06-16": true, // plain Sunday
		"2024-06-22": true, // plain Saturday, no meta
	}
	for date, want := range cases {
		if got := IsOff(date, meta); got != want {
			t.Errorf("IsOff(%s) = %v, want %v", date, got, want)
		}
	}
	if IsOff("not-a-date", nil) {
		t.Error("malformed date should not be off")
	}
}

func TestWorkHours(t *testing.T) {
	t.Parallel()

	settings := model.DefaultSettings()
	meta := map[string]model.DayMeta{
		"2024-06-11": {Type: model.DayNormal, CustomWorkStart: "10:00", CustomWorkEnd: "16:00"},
		"2024-06-12": {Type: model.DayNormal, CustomWorkEnd: "15:00"},
	}
	check := func(date, ws, we string) {
		t.Helper()
		s, e := WorkHours(date, meta, settings)
		if s != ws || e != we {
			t.Errorf("WorkHours(%s) = %s-%s, want %s-%s", date, s, e, ws, we)
		}
	}
	check("2024-06-10", "09:00", "18:00")
	check("2024-06-11", "10:00", "16:00")
	check("2024-06-12", "09:00", "15:00")
}

func TestWorkMinutes(t *testing.T) {
	t.Parallel()

	slots := []model.Slot{
		slot("1", "2024-06-10", model.KindActual, "09:00", "10:30", model.CategoryWork, model.ImportanceMedium),
		slot("2", "2024-06-10", model.KindActual, "13:00", "13:45", model.CategoryWork, model.ImportanceMedium),
		slot("3", "2024-06-10", model.KindPlan, "14:00", "18:00", model.CategoryWork, model.ImportanceMedium),
		slot("4", "2024-06-10", model.KindActual, "14:00", "15:00", model.CategoryStudy, model.ImportanceMedium),
		slot("5", "2024-06-11", model.KindActual, "09:00", "10:00", model.CategoryWork, model.ImportanceMedium),
	}
	if got := WorkMinutes(slots, "2024-06-10"); got != 135 {
		t.Errorf("WorkMinutes = %d, want 135", got)
	}

	// A reversed slot is clamped, never subtracted.
	reversed := append(slots, slot("6", "2024-06-10", model.KindActual, "17:00", "16:00", model.CategoryWork, model.ImportanceMedium))
	if got := WorkMinutes(reversed, "2024-06-10"); got != 135 {
		t.Errorf("WorkMinutes with reversed slot = %d, want 135", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	st := model.NewState(model.DefaultSettings())
	st.Slots = []model.Slot{
		slot("a", "2024-06-10", model.KindPlan, "15:00", "16:00", model.CategoryMeeting, model.ImportanceAppointment),
		slot("b", "2024-06-10", model.KindActual, "08:00", "09:00", model.CategoryWork, model.ImportanceHigh),
		slot("c", "2024-06-10", model.KindPlan, "11:00", "12:00", model.CategoryGeneral, model.ImportanceLow),
		slot("d", "2024-06-10", model.KindPlan, "10:00", "10:30", model.CategoryFocus, model.ImportanceHigh),
		slot("e", "2024-06-10", model.KindPlan, "07:00", "07:30", model.CategoryHealth, model.ImportanceAppointment),
		slot("f", "2024-06-11", model.KindPlan, "07:00", "07:30", model.CategoryHealth, model.ImportanceHigh),
	}
	st.Diary["2024-06-10"] = model.DailyLog{Mood: 4, Energy: 3}

	cell := Summarize(st, "2024-06-10", 3)
	if !cell.HasHighImportance {
		t.Error("expected high-importance flag")
	}
	if cell.Mood != "😊" {
		t.Errorf("mood = %q", cell.Mood)
	}
	if cell.WorkMinutes != 60 {
		t.Errorf("work minutes = %d", cell.WorkMinutes)
	}
	if cell.Off || cell.WorkStart != "09:00" || cell.WorkEnd != "18:00" {
		t.Errorf("unexpected work band %+v", cell)
	}
	if len(cell.Featured) != 3 {
		t.Fatalf("featured = %d, want 3", len(cell.Featured))
	}
	for i, want := range []string{"e", "b", "d"} {
		if cell.Featured[i].ID != want {
			t.Errorf("featured[%d] = %s, want %s", i, cell.Featured[i].ID, want)
		}
	}

	empty := Summarize(st, "2024-06-15", 0)
	if !empty.Off || empty.WorkStart != "" || empty.Mood != "" || empty.HasHighImportance {
		t.Errorf("unexpected Saturday cell %+v", empty)
	}
}

func TestMoodGlyphRange(t *testing.T) {
	t.Parallel()

	if MoodGlyph(0) != "" || MoodGlyph(6) != "" {
		t.Error("out-of-scale mood should have no glyph")
	}
	if MoodGlyph(1) != "😡" || MoodGlyph(5) != "🥰" {
		t.Error("scale ends map to the wrong glyphs")
	}
}

func TestBuildMonth(t *testing.T) {
	t.Parallel()

	st := model.NewState(model.DefaultSettings())
	m := BuildMonth(st, 2024, 6, 0)
	if m.Leading != 6 { // 2024-06-01 is a Saturday
		t.Errorf("leading = %d, want 6", m.Leading)
	}
	if len(m.Cells) != 30 {
		t.Errorf("cells = %d, want 30", len(m.Cells))
	}
	if m.Cells[0].Date != "2024-06-01" || m.Cells[29].Date != "2024-06-30" || m.Cells[9].Day != 10 {
		t.Errorf("unexpected cell dates %s..%s", m.Cells[0].Date, m.Cells[29].Date)
	}

	feb := BuildMonth(st, 2024, 2, 0)
	if len(feb.Cells) != 29 || feb.Leading != 4 {
		t.Errorf("leap February: %d cells, leading %d", len(feb.Cells), feb.Leading)
	}

	if y, mo, err := ParseMonth("2024-06"); err != nil || y != 2024 || mo != 6 {
		t.Errorf("ParseMonth = %d %d %v", y, mo, err)
	}
	if _, _, err := ParseMonth("June"); err == nil {
		t.Error("expected ParseMonth error")
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	st := model.NewState(model.DefaultSettings())
	st.Slots = []model.Slot{
		slot("1", "2023-01-02", model.KindActual, "09:00", "11:00", model.CategoryWork, model.ImportanceMedium),
		slot("2", "2024-06-10", model.KindActual, "09:00", "09:30", model.CategoryWork, model.ImportanceMedium),
		slot("3", "2024-06-10", model.KindActual, "18:00", "19:00", model.CategoryHealth, model.ImportanceMedium),
		slot("4", "2024-06-10", model.KindPlan, "10:00", "12:00", model.CategoryStudy, model.ImportanceMedium),
		slot("5", "2024-06-11", model.KindActual, "20:00", "20:45", model.CategoryGeneral, model.ImportanceMedium),
	}
	st.Goals = []model.Goal{
		{ID: "g1", Status: model.GoalCompleted},
		{ID: "g2", Status: model.GoalActive},
		{ID: "g3", Status: model.GoalOnHold},
	}

	d := BuildDashboard(st)
	want := []CategoryTotal{
		{model.CategoryWork, 150},
		{model.CategoryHealth, 60},
		{model.CategoryGeneral, 45},
	}
	if len(d.Categories) != len(want) {
		t.Fatalf("categories = %+v", d.Categories)
	}
	for i := range want {
		if d.Categories[i] != want[i] {
			t.Errorf("categories[%d] = %+v, want %+v", i, d.Categories[i], want[i])
		}
	}
	if d.TotalMinutes != 255 || d.MaxMinutes != 150 {
		t.Errorf("total=%d max=%d", d.TotalMinutes, d.MaxMinutes)
	}
	if d.AchievementScore != 33 || d.CompletedGoals != 1 || d.TotalGoals != 3 {
		t.Errorf("score=%d completed=%d total=%d", d.AchievementScore, d.CompletedGoals, d.TotalGoals)
	}

	if AchievementScore(nil) != 0 {
		t.Error("no goals should score 0")
	}
	if AchievementScore([]model.Goal{{Status: model.GoalCompleted}, {Status: model.GoalActive}, {Status: model.GoalCompleted}}) != 67 {
		t.Error("2/3 should round to 67")
	}

	empty := BuildDashboard(model.NewState(model.DefaultSettings()))
	if empty.MaxMinutes != 1 || len(empty.Categories) != 0 {
		t.Errorf("empty dashboard %+v", empty)
	}
}
