package planner

import (
	"context"
	"fmt"

	"dayplan/internal/interact"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

// Result reports the mutation a gesture or edit produced, if any.
type Result struct {
	Mutation string `json:"mutation,omitempty"`
	Applied  bool   `json:"applied"`
}

// withMachine runs fn on the user's gesture session, creating it on first
// use. The session lock keeps one user's pointer events in order.
func (s *Service) withMachine(user string, fn func(m *interact.Machine) error) error {
	user = s.User(user)
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	m, ok := s.sessions[user]
	if !ok {
		m = interact.New(interact.Config{
			Scale:         s.scale,
			MinCreateSpan: s.cfg.Timeline.MinCreateSpan,
			NewID:         s.newID,
		})
		s.sessions[user] = m
	}
	return fn(m)
}

func (s *Service) commit(ctx context.Context, user string, mut interact.Mutation) (Result, error) {
	if mut == nil {
		return Result{}, nil
	}
	res := Result{Mutation: mut.Name()}
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		next, ok := interact.Apply(*st, mut)
		*st = next
		res.Applied = ok
		return ok, nil
	})
	if err != nil {
		return Result{}, err
	}
	if res.Applied {
		appLog.Info("planner: mutation applied", "user", s.User(user), "mutation", res.Mutation)
	}
	return res, nil
}

// BeginCreate starts drawing a slot in column of date at offset.
func (s *Service) BeginCreate(user, date string, column model.Kind, offset float64) error {
	date, err := s.date(date)
	if err != nil {
		return err
	}
	return s.withMachine(user, func(m *interact.Machine) error {
		return m.BeginCreate(date, column, offset)
	})
}

// BeginResize grabs the bottom edge of the item with id.
func (s *Service) BeginResize(ctx context.Context, user, id string, offset float64) error {
	item, err := s.item(ctx, user, id)
	if err != nil {
		return err
	}
	return s.withMachine(user, func(m *interact.Machine) error {
		return m.BeginResize(item, offset)
	})
}

// BeginDrag picks up the slot or occurrence with id.
func (s *Service) BeginDrag(ctx context.Context, user, id string) error {
	item, err := s.item(ctx, user, id)
	if err != nil {
		return err
	}
	return s.withMachine(user, func(m *interact.Machine) error {
		return m.BeginDrag(item)
	})
}

func (s *Service) item(ctx context.Context, user, id string) (model.Slot, error) {
	st, err := s.Load(ctx, user)
	if err != nil {
		return model.Slot{}, err
	}
	item, ok := resolve(st, id)
	if !ok {
		return model.Slot{}, fmt.Errorf("%w: slot %q", ErrNotFound, id)
	}
	return item, nil
}

// Move tracks the pointer; a live resize is saved as it happens.
func (s *Service) Move(ctx context.Context, user string, offset float64) (Result, error) {
	var mut interact.Mutation
	_ = s.withMachine(user, func(m *interact.Machine) error {
		mut, _ = m.Move(offset)
		return nil
	})
	return s.commit(ctx, user, mut)
}

// Up releases the pointer and commits whatever the gesture produced.
func (s *Service) Up(ctx context.Context, user string, offset float64) (Result, error) {
	var mut interact.Mutation
	_ = s.withMachine(user, func(m *interact.Machine) error {
		mut, _ = m.Up(offset)
		return nil
	})
	return s.commit(ctx, user, mut)
}

// Drop releases a dragged item on column of date at offset.
func (s *Service) Drop(ctx context.Context, user, date string, column model.Kind, offset float64) (Result, error) {
	date, err := s.date(date)
	if err != nil {
		return Result{}, err
	}
	var mut interact.Mutation
	err = s.withMachine(user, func(m *interact.Machine) error {
		var derr error
		mut, _, derr = m.Drop(date, column, offset)
		return derr
	})
	if err != nil {
		return Result{}, err
	}
	return s.commit(ctx, user, mut)
}

// Cancel discards the user's gesture.
func (s *Service) Cancel(user string) {
	_ = s.withMachine(user, func(m *interact.Machine) error {
		m.Cancel()
		return nil
	})
}

// Phase reports the user's gesture phase.
func (s *Service) Phase(user string) interact.Phase {
	var p interact.Phase
	_ = s.withMachine(user, func(m *interact.Machine) error {
		p = m.Phase()
		return nil
	})
	return p
}

// ApplyEdit commits the slot editor's result for the item with id.
func (s *Service) ApplyEdit(ctx context.Context, user, id string, res interact.EditResult) (Result, error) {
	item, err := s.item(ctx, user, id)
	if err != nil {
		return Result{}, err
	}
	mut, ok := interact.EditMutation(item, res, s.newID)
	if !ok {
		return Result{}, nil
	}
	out, err := s.commit(ctx, user, mut)
	if err == nil && !out.Applied {
		return out, fmt.Errorf("%w: %s would break a slot invariant", ErrInvalid, out.Mutation)
	}
	return out, err
}
