package planner

import (
	"context"
	"fmt"

	"dayplan/internal/geometry"
	"dayplan/internal/interact"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

func (s *Service) Routines(ctx context.Context, user string) ([]model.Routine, error) {
	st, err := s.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	return st.Routines, nil
}

// normalizeRoutine fills the defaults of a new routine and validates it.
func (s *Service) normalizeRoutine(r *model.Routine) error {
	if r.Title == "" {
		return fmt.Errorf("%w: routine title is required", ErrInvalid)
	}
	if r.Category == "" {
		r.Category = model.CategoryGeneral
	}
	if r.Start == "" {
		r.Start = "00:00"
	}
	if r.End == "" {
		r.End = "01:00"
	}
	if r.Cycle == "" {
		r.Cycle = model.CycleDaily
	}
	if r.StartDate == "" {
		r.StartDate = s.Today()
	}

	if !r.Category.Valid() {
		return fmt.Errorf("%w: category %q", ErrInvalid, r.Category)
	}
	if !r.Cycle.Valid() {
		return fmt.Errorf("%w: cycle %q", ErrInvalid, r.Cycle)
	}
	if !geometry.Before(r.Start, r.End) {
		return fmt.Errorf("%w: routine must end after it starts", ErrInvalid)
	}
	if _, err := model.ParseDate(r.StartDate); err != nil {
		return fmt.Errorf("%w: start date %q", ErrInvalid, r.StartDate)
	}
	if r.EndDate != "" {
		if _, err := model.ParseDate(r.EndDate); err != nil {
			return fmt.Errorf("%w: end date %q", ErrInvalid, r.EndDate)
		}
	}
	if r.Cycle != model.CycleCustom {
		r.Days = []int{}
	}
	for _, d := range r.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d", ErrInvalid, d)
		}
	}
	return nil
}

// AddRoutine stores a new routine under a fresh id.
func (s *Service) AddRoutine(ctx context.Context, user string, r model.Routine) (model.Routine, error) {
	if err := s.normalizeRoutine(&r); err != nil {
		return model.Routine{}, err
	}
	r.ID = s.newID()
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		st.Routines = append(st.Routines, r)
		return true, nil
	})
	if err != nil {
		return model.Routine{}, err
	}
	appLog.Info("planner: routine added", "user", s.User(user), "routine", r.ID, "cycle", string(r.Cycle))
	return r, nil
}

// UpdateRoutine replaces the routine with r.ID. Past occurrences are not
// preserved: the new rule applies to every date.
func (s *Service) UpdateRoutine(ctx context.Context, user string, r model.Routine) (model.Routine, error) {
	if err := s.normalizeRoutine(&r); err != nil {
		return model.Routine{}, err
	}
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		i := st.FindRoutine(r.ID)
		if i < 0 {
			return false, fmt.Errorf("%w: routine %q", ErrNotFound, r.ID)
		}
		st.Routines[i] = r
		return true, nil
	})
	if err != nil {
		return model.Routine{}, err
	}
	return r, nil
}

// DeleteRoutine removes the rule. Its tombstones stay until compaction.
func (s *Service) DeleteRoutine(ctx context.Context, user, id string) error {
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		i := st.FindRoutine(id)
		if i < 0 {
			return false, fmt.Errorf("%w: routine %q", ErrNotFound, id)
		}
		st.Routines = append(st.Routines[:i], st.Routines[i+1:]...)
		return true, nil
	})
	if err == nil {
		appLog.Info("planner: routine deleted", "user", s.User(user), "routine", id)
	}
	return err
}

// DeleteOccurrence suppresses the occurrence of routine id on date.
func (s *Service) DeleteOccurrence(ctx context.Context, user, id, date string) error {
	if _, err := model.ParseDate(date); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalid, date)
	}
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		if st.FindRoutine(id) < 0 {
			return false, fmt.Errorf("%w: routine %q", ErrNotFound, id)
		}
		next, ok := interact.Apply(*st, interact.SuppressOccurrence{RoutineID: id, Date: date})
		*st = next
		return ok, nil
	})
	return err
}

// MetaPatch is a partial DayMeta update; nil fields are left unchanged and
// empty custom hours clear the override.
type MetaPatch struct {
	Type            *model.DayType `json:"type,omitempty"`
	CustomWorkStart *string        `json:"customWorkStart,omitempty"`
	CustomWorkEnd   *string        `json:"customWorkEnd,omitempty"`
	NoWork          *bool          `json:"noWork,omitempty"`
}

// SetDayMeta merges p into the meta of date.
func (s *Service) SetDayMeta(ctx context.Context, user, date string, p MetaPatch) (model.DayMeta, error) {
	if _, err := model.ParseDate(date); err != nil {
		return model.DayMeta{}, fmt.Errorf("%w: date %q", ErrInvalid, date)
	}
	if p.Type != nil && !p.Type.Valid() {
		return model.DayMeta{}, fmt.Errorf("%w: day type %q", ErrInvalid, *p.Type)
	}
	for _, c := range []*string{p.CustomWorkStart, p.CustomWorkEnd} {
		if c == nil || *c == "" {
			continue
		}
		if _, err := geometry.ParseClock(*c); err != nil {
			return model.DayMeta{}, fmt.Errorf("%w: clock %q", ErrInvalid, *c)
		}
	}

	var out model.DayMeta
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		m, ok := st.Meta[date]
		if !ok {
			m.Type = model.DayNormal
		}
		if p.Type != nil {
			m.Type = *p.Type
		}
		if p.CustomWorkStart != nil {
			m.CustomWorkStart = *p.CustomWorkStart
		}
		if p.CustomWorkEnd != nil {
			m.CustomWorkEnd = *p.CustomWorkEnd
		}
		if p.NoWork != nil {
			m.NoWork = *p.NoWork
		}
		st.Meta[date] = m
		out = m
		return true, nil
	})
	return out, err
}
