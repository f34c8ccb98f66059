package printer

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"dayplan/internal/ics"
	"dayplan/internal/model"
	"dayplan/internal/stats"
	"dayplan/internal/timeline"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestDay(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "sunday").Day(timeline.DayView{
		Date: "2024-06-10",
		Work: timeline.Band{Start: "09:00", End: "18:00"},
		Plan: []timeline.Block{
			{Slot: model.Slot{Start: "07:00", End: "08:00", Content: "Run", Category: model.CategoryHealth, IsRoutine: true}},
			{Slot: model.Slot{Start: "10:00", End: "11:00", Content: "Review", Category: model.CategoryMeeting, Importance: model.ImportanceHigh}, GoalTitle: "Ship"},
		},
		WorkMinutes: 90,
	})
	out := buf.String()
	for _, want := range []string{"Monday 2024-06-10", "work 09:00-18:00, 1h30m recorded", "~", "07:00-08:00", "!", "Review (Ship)", "Actual", "none"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMonthWeekStart(t *testing.T) {
	t.Parallel()

	m := stats.Month{Year: 2024, Month: 6, Leading: 6}
	for d := 1; d <= 30; d++ {
		m.Cells = append(m.Cells, stats.Cell{Day: d})
	}

	cases := []struct {
		weekStart string
		header    string
		firstRow  string
	}{
		{"sunday", "Su Mo Tu We Th Fr Sa", strings.Repeat("   ", 6) + " 1"},
		{"monday", "Mo Tu We Th Fr Sa Su", strings.Repeat("   ", 5) + " 1  2"},
	}
	for _, tc := range cases {
		t.Run(tc.weekStart, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, tc.weekStart).Month(m)
			lines := strings.Split(buf.String(), "\n")
			if lines[0] != "June 2024" {
				t.Errorf("title = %q", lines[0])
			}
			if strings.TrimSpace(lines[1]) != tc.header {
				t.Errorf("header = %q", lines[1])
			}
			if strings.TrimRight(lines[2], " ") != tc.firstRow {
				t.Errorf("first row = %q, want %q", lines[2], tc.firstRow)
			}
		})
	}
}

func TestDashboardAndLists(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf, "")
	p.Dashboard(stats.Dashboard{
		Categories:   []stats.CategoryTotal{{Category: model.CategoryWork, Minutes: 120}, {Category: model.CategoryHealth, Minutes: 60}},
		TotalMinutes: 180, MaxMinutes: 120, CompletedGoals: 1, TotalGoals: 2, AchievementScore: 50,
	})
	p.Routines([]model.Routine{{ID: "r1", Title: "Gym", Start: "18:00", End: "19:00", Cycle: model.CycleCustom, Days: []int{1, 3}, StartDate: "2024-06-01"}})
	p.Holidays([]ics.Holiday{{Date: "2024-09-16", Name: "Chuseok", FeedID: "kr"}})

	out := buf.String()
	for _, want := range []string{strings.Repeat("#", 30), "3h00m", "1/2 completed", "Mo,We", "Chuseok"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCategoryColorsDistinct(t *testing.T) {
	t.Parallel()

	seen := map[string]model.Category{}
	for _, c := range append(model.Categories(), model.Category("Unknown")) {
		cc := CategoryColor(c)
		cc.EnableColor()
		code := cc.Sprint("x")
		if prev, ok := seen[code]; ok {
			t.Errorf("%s and %s share a color", prev, c)
		}
		seen[code] = c
	}
}
