// Package printer renders planner views for the terminal.
package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"dayplan/internal/ics"
	"dayplan/internal/model"
	"dayplan/internal/stats"
	"dayplan/internal/timeline"
)

type Printer struct {
	w         io.Writer
	weekStart time.Weekday
}

// New writes to w; weekStart is "monday" or "sunday".
func New(w io.Writer, weekStart string) *Printer {
	p := &Printer{w: w, weekStart: time.Sunday}
	if strings.EqualFold(weekStart, "monday") {
		p.weekStart = time.Monday
	}
	return p
}

var (
	titleColor = color.New(color.Bold, color.Underline)
	faint      = color.New(color.Faint)
	empty      = color.New(color.Faint, color.Italic)
	strong     = color.New(color.Bold, color.FgHiWhite)
	holiday    = color.New(color.FgHiRed)
	vacation   = color.New(color.FgHiCyan)
)

// CategoryColor is the display color of a category.
func CategoryColor(c model.Category) *color.Color {
	switch c {
	case model.CategoryWork:
		return color.New(color.FgBlue)
	case model.CategoryMeeting:
		return color.New(color.FgHiBlue)
	case model.CategoryFocus:
		return color.New(color.FgMagenta)
	case model.CategoryStudy:
		return color.New(color.FgHiMagenta)
	case model.CategoryHealth:
		return color.New(color.FgGreen)
	case model.CategoryBreak:
		return color.New(color.FgHiGreen)
	case model.CategoryLogistics:
		return color.New(color.FgYellow)
	case model.CategorySocial:
		return color.New(color.FgHiYellow)
	case model.CategoryPersonal:
		return color.New(color.FgCyan)
	case model.CategoryGrowth:
		return color.New(color.FgRed)
	case model.CategoryGeneral:
		return color.New(color.FgWhite)
	}
	return color.New(color.Reset)
}

func (p *Printer) title(s string) {
	_, _ = titleColor.Fprintln(p.w, s)
}

func (p *Printer) none() {
	_, _ = empty.Fprint(p.w, " none\n\n")
}

// Day prints both columns of a day view.
func (p *Printer) Day(v timeline.DayView) {
	head := v.Date
	if t, err := model.ParseDate(v.Date); err == nil {
		head = t.Format("Monday 2006-01-02")
	}
	p.title(head)
	if v.Off {
		_, _ = faint.Fprintln(p.w, "day off")
	} else {
		_, _ = faint.Fprintf(p.w, "work %s-%s, %s recorded\n", v.Work.Start, v.Work.End, minutes(v.WorkMinutes))
	}
	_, _ = fmt.Fprintln(p.w)

	p.column("Plan", v.Plan)
	p.column("Actual", v.Actual)
}

func (p *Printer) column(name string, blocks []timeline.Block) {
	_, _ = strong.Fprintln(p.w, name)
	if len(blocks) == 0 {
		p.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, b := range blocks {
		s := b.Slot
		mark := " "
		switch {
		case s.IsRoutine:
			mark = "~"
		case s.Importance.Featured():
			mark = "!"
		}
		content := s.Content
		if b.GoalTitle != "" {
			content += faint.Sprintf(" (%s)", b.GoalTitle)
		}
		tbl.AddRow(mark, s.Start+"-"+s.End, CategoryColor(s.Category).Sprint(s.Category), content)
	}
	_, _ = fmt.Fprintln(p.w, tbl)
	_, _ = fmt.Fprintln(p.w)
}

// Month prints the calendar grid. Off days are faint, holidays and
// vacations are colored and days with a featured slot are bold.
func (p *Printer) Month(m stats.Month) {
	first := time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
	p.title(first.Format("January 2006"))

	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(p.weekStart) + i) % 7)
		_, _ = faint.Fprintf(p.w, "%-3s", wd.String()[:2])
	}
	_, _ = fmt.Fprintln(p.w)

	lead := (m.Leading - int(p.weekStart) + 7) % 7
	_, _ = fmt.Fprint(p.w, strings.Repeat("   ", lead))
	col := lead
	for _, c := range m.Cells {
		_, _ = dayColor(c).Fprintf(p.w, "%2d ", c.Day)
		col++
		if col == 7 {
			_, _ = fmt.Fprintln(p.w)
			col = 0
		}
	}
	if col != 0 {
		_, _ = fmt.Fprintln(p.w)
	}
	_, _ = fmt.Fprintln(p.w)

	var featured []model.Slot
	for _, c := range m.Cells {
		featured = append(featured, c.Featured...)
	}
	if len(featured) == 0 {
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, s := range featured {
		tbl.AddRow(s.Date, s.Start, CategoryColor(s.Category).Sprint(s.Category), s.Content)
	}
	_, _ = fmt.Fprintln(p.w, tbl)
}

func dayColor(c stats.Cell) *color.Color {
	switch {
	case c.DayType == model.DayHoliday:
		return holiday
	case c.DayType == model.DayVacation:
		return vacation
	case c.HasHighImportance:
		return strong
	case c.Off:
		return faint
	}
	return color.New()
}

// Dashboard prints recorded time per category with a proportional bar.
func (p *Printer) Dashboard(d stats.Dashboard) {
	p.title("Dashboard")
	if len(d.Categories) == 0 {
		p.none()
	} else {
		const barWidth = 30
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, c := range d.Categories {
			n := 0
			if d.MaxMinutes > 0 {
				n = c.Minutes * barWidth / d.MaxMinutes
			}
			cc := CategoryColor(c.Category)
			tbl.AddRow(cc.Sprint(c.Category), minutes(c.Minutes), cc.Sprint(strings.Repeat("#", n)))
		}
		_, _ = fmt.Fprintln(p.w, tbl)
		_, _ = fmt.Fprintln(p.w)
	}
	_, _ = fmt.Fprintf(p.w, "total     %s\n", minutes(d.TotalMinutes))
	_, _ = fmt.Fprintf(p.w, "goals     %d/%d completed\n", d.CompletedGoals, d.TotalGoals)
	_, _ = fmt.Fprintf(p.w, "score     %d\n", d.AchievementScore)
}

// Routines lists routine rules.
func (p *Printer) Routines(rs []model.Routine) {
	p.title("Routines")
	if len(rs) == 0 {
		p.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "TIME", "CYCLE", "CATEGORY", "TITLE", "FROM", "UNTIL")
	for _, r := range rs {
		until := r.EndDate
		if until == "" {
			until = "-"
		}
		tbl.AddRow(r.ID, r.Start+"-"+r.End, cycle(r), CategoryColor(r.Category).Sprint(r.Category),
			r.Title, r.StartDate, until)
	}
	_, _ = fmt.Fprintln(p.w, tbl)
}

// Holidays lists holidays read from the configured feeds.
func (p *Printer) Holidays(hs []ics.Holiday) {
	p.title("Holidays")
	if len(hs) == 0 {
		p.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, h := range hs {
		tbl.AddRow(h.Date, holiday.Sprint(h.Name), faint.Sprint(h.FeedID))
	}
	_, _ = fmt.Fprintln(p.w, tbl)
}

func cycle(r model.Routine) string {
	if r.Cycle != model.CycleCustom {
		return string(r.Cycle)
	}
	names := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		names = append(names, time.Weekday(d).String()[:2])
	}
	if len(names) == 0 {
		return "custom (never)"
	}
	return strings.Join(names, ",")
}

func minutes(m int) string {
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
