// Package planner is the application service over the timeline core. Every
// operation loads the user's state, applies a pure transformation and saves
// the result.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dayplan/internal/config"
	"dayplan/internal/geometry"
	"dayplan/internal/ics"
	"dayplan/internal/interact"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
	"dayplan/internal/recur"
	"dayplan/internal/stats"
	"dayplan/internal/store"
	"dayplan/internal/timeline"
)

var (
	ErrNotFound = errors.New("planner: not found")
	ErrInvalid  = errors.New("planner: invalid input")
)

// Options wires a Service. Only Store is required.
type Options struct {
	Store   store.Store
	Config  *config.Config
	Now     func() time.Time
	NewID   interact.IDFunc
	Fetcher *ics.Fetcher
}

type Service struct {
	store   store.Store
	cfg     *config.Config
	loc     *time.Location
	scale   geometry.Scale
	now     func() time.Time
	newID   interact.IDFunc
	fetcher *ics.Fetcher

	// mu serializes load-modify-save cycles.
	mu sync.Mutex

	sessMu   sync.Mutex
	sessions map[string]*interact.Machine
}

func New(opt Options) *Service {
	cfg := opt.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Service{
		store:    opt.Store,
		cfg:      cfg,
		loc:      cfg.Location(),
		scale:    geometry.NewScale(cfg.Timeline.PixelsPerHour),
		now:      opt.Now,
		newID:    opt.NewID,
		fetcher:  opt.Fetcher,
		sessions: make(map[string]*interact.Machine),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.fetcher == nil {
		s.fetcher = ics.NewFetcher(cfg.CacheDir, nil)
	}
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// User resolves an empty user id to the configured default.
func (s *Service) User(id string) string {
	if id == "" {
		return s.cfg.DefaultUser
	}
	return id
}

// Today is the current date in the configured timezone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(model.DateLayout)
}

func (s *Service) seed() model.State {
	set := model.DefaultSettings()
	set.DefaultWorkStart = s.cfg.Defaults.WorkStart
	set.DefaultWorkEnd = s.cfg.Defaults.WorkEnd
	return model.NewState(set)
}

// Load returns the user's state, seeding a new one from the configured
// defaults when none exists.
func (s *Service) Load(ctx context.Context, user string) (model.State, error) {
	st, err := s.store.Load(ctx, s.User(user))
	if errors.Is(err, store.ErrNotFound) {
		return s.seed(), nil
	}
	return st, err
}

// update runs fn on the user's state and saves the result when fn returns
// changed=true.
func (s *Service) update(ctx context.Context, user string, fn func(st *model.State) (changed bool, err error)) (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user = s.User(user)
	st, err := s.Load(ctx, user)
	if err != nil {
		return model.State{}, err
	}
	changed, err := fn(&st)
	if err != nil || !changed {
		return st, err
	}
	if err := s.store.Save(ctx, user, st); err != nil {
		appLog.Error("planner: save failed", err, "user", user)
		return model.State{}, err
	}
	return st, nil
}

func (s *Service) date(date string) (string, error) {
	if date == "" {
		return s.Today(), nil
	}
	if _, err := model.ParseDate(date); err != nil {
		return "", fmt.Errorf("%w: date %q", ErrInvalid, date)
	}
	return date, nil
}

// Day builds the timeline of date; an empty date means today.
func (s *Service) Day(ctx context.Context, user, date string) (timeline.DayView, error) {
	date, err := s.date(date)
	if err != nil {
		return timeline.DayView{}, err
	}
	st, err := s.Load(ctx, user)
	if err != nil {
		return timeline.DayView{}, err
	}
	return timeline.BuildDay(st, date, timeline.Options{Scale: s.scale, Now: s.now().In(s.loc)}), nil
}

// Calendar builds the month grid of a YYYY-MM month; empty means this month.
func (s *Service) Calendar(ctx context.Context, user, month string) (stats.Month, error) {
	if month == "" {
		month = s.Today()[:7]
	}
	y, m, err := stats.ParseMonth(month)
	if err != nil {
		return stats.Month{}, fmt.Errorf("%w: month %q", ErrInvalid, month)
	}
	st, err := s.Load(ctx, user)
	if err != nil {
		return stats.Month{}, err
	}
	return stats.BuildMonth(st, y, m, s.cfg.Timeline.MaxFeatured), nil
}

func (s *Service) Dashboard(ctx context.Context, user string) (stats.Dashboard, error) {
	st, err := s.Load(ctx, user)
	if err != nil {
		return stats.Dashboard{}, err
	}
	return stats.BuildDashboard(st), nil
}

// Feed renders the user's plan as an iCalendar document.
func (s *Service) Feed(ctx context.Context, user string, actual bool) (string, error) {
	st, err := s.Load(ctx, user)
	if err != nil {
		return "", err
	}
	return ics.WriteFeed(st, ics.ExportOptions{Location: s.loc, Actual: actual, Now: s.now()}), nil
}

// resolve finds a persisted slot or a generated occurrence by id.
func resolve(st model.State, id string) (model.Slot, bool) {
	if i := st.FindSlot(id); i >= 0 {
		return st.Slots[i], true
	}
	rest, ok := strings.CutPrefix(id, "routine-")
	if !ok {
		return model.Slot{}, false
	}
	routineID, date, ok := model.SplitTombstone(rest)
	if !ok {
		return model.Slot{}, false
	}
	for _, occ := range recur.Expand(date, st.Routines, recur.NewTombstones(st.DeletedRoutineInstances)) {
		if occ.RoutineID == routineID {
			return occ, true
		}
	}
	return model.Slot{}, false
}
