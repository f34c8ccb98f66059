package stats

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dayplan/internal/model"
)

// Month is a calendar page: Leading blank cells (the weekday of the 1st,
// Sunday-first) followed by one cell per day.
type Month struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Leading int    `json:"leading"`
	Cells   []Cell `json:"cells"`
}

// ParseMonth reads a YYYY-MM value.
func ParseMonth(s string) (year, month int, err error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, errors.New("stats: month must be YYYY-MM")
	}
	return t.Year(), int(t.Month()), nil
}

// BuildMonth summarizes every day of the given month.
func BuildMonth(st model.State, year, month, maxFeatured int) Month {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	m := Month{
		Year:    first.Year(),
		Month:   int(first.Month()),
		Leading: int(first.Weekday()),
		Cells:   make([]Cell, 0, days),
	}
	for d := 1; d <= days; d++ {
		date := fmt.Sprintf("%04d-%02d-%02d", m.Year, m.Month, d)
		m.Cells = append(m.Cells, Summarize(st, date, maxFeatured))
	}
	return m
}

// CategoryTotal is the recorded time of one category.
type CategoryTotal struct {
	Category model.Category `json:"category"`
	Minutes  int            `json:"minutes"`
}

// Dashboard aggregates the whole history, not a date range.
type Dashboard struct {
	Categories       []CategoryTotal `json:"categories"`
	TotalMinutes     int             `json:"totalMinutes"`
	MaxMinutes       int             `json:"maxMinutes"`
	CompletedGoals   int             `json:"completedGoals"`
	TotalGoals       int             `json:"totalGoals"`
	AchievementScore int             `json:"achievementScore"`
}

// CategoryTotals sums actual-slot minutes per category, in dashboard order,
// omitting categories with no time. Slots with an unknown category are not
// counted.
func CategoryTotals(slots []model.Slot) []CategoryTotal {
	sums := make(map[model.Category]int)
	for _, s := range slots {
		if s.Kind != model.KindActual {
			continue
		}
		sums[s.Category] += SlotMinutes(s)
	}
	out := make([]CategoryTotal, 0, len(sums))
	for _, c := range model.Categories() {
		if sums[c] > 0 {
			out = append(out, CategoryTotal{Category: c, Minutes: sums[c]})
		}
	}
	return out
}

// AchievementScore is round(completed/total*100), 0 without goals.
func AchievementScore(goals []model.Goal) int {
	if len(goals) == 0 {
		return 0
	}
	done := 0
	for _, g := range goals {
		if g.Status == model.GoalCompleted {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(goals)) * 100))
}

func BuildDashboard(st model.State) Dashboard {
	d := Dashboard{
		Categories:       CategoryTotals(st.Slots),
		MaxMinutes:       1,
		TotalGoals:       len(st.Goals),
		AchievementScore: AchievementScore(st.Goals),
	}
	for _, c := range d.Categories {
		d.TotalMinutes += c.Minutes
		if c.Minutes > d.MaxMinutes {
			d.MaxMinutes = c.Minutes
		}
	}
	for _, g := range st.Goals {
		if g.Status == model.GoalCompleted {
			d.CompletedGoals++
		}
	}
	return d
}
