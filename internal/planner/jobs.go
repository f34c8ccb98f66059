package planner

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"dayplan/internal/ics"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
	"dayplan/internal/recur"
)

// users lists every stored user plus the default one.
func (s *Service) users(ctx context.Context) ([]string, error) {
	ids, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == s.cfg.DefaultUser {
			return ids, nil
		}
	}
	return append(ids, s.cfg.DefaultUser), nil
}

// CompactUser drops the user's tombstones that can no longer hide anything
// and returns how many were removed.
func (s *Service) CompactUser(ctx context.Context, user string) (int, error) {
	removed := 0
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		kept := recur.Compact(st.DeletedRoutineInstances, st.Routines)
		removed = len(st.DeletedRoutineInstances) - len(kept)
		st.DeletedRoutineInstances = kept
		return removed > 0, nil
	})
	return removed, err
}

// Compact runs CompactUser for every user.
func (s *Service) Compact(ctx context.Context) (int, error) {
	ids, err := s.users(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	var errs []error
	for _, id := range ids {
		n, err := s.CompactUser(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += n
	}
	appLog.Info("planner: compaction done", "users", len(ids), "removed", total)
	return total, errors.Join(errs...)
}

// Holidays fetches the configured feeds and returns the holidays within the
// horizon starting today.
func (s *Service) Holidays(ctx context.Context) ([]ics.Holiday, error) {
	if len(s.cfg.Holidays) == 0 {
		return nil, nil
	}
	from, _ := model.ParseDate(s.Today())
	to := from.AddDate(0, 0, s.cfg.HolidayHorizonDays)

	results, errs := s.fetcher.FetchAll(ctx, s.cfg.Holidays)
	var out []ics.Holiday
	for _, res := range results {
		hs, err := ics.ParseHolidays(res.Feed, res.Body, from, to)
		if err != nil {
			appLog.Error("planner: holiday feed unreadable", err, "feed", res.Feed.ID)
			errs = append(errs, err)
			continue
		}
		out = append(out, hs...)
	}
	return out, errors.Join(errs...)
}

// MarkHolidays sets the holiday type on the user's dates that have no meta
// yet. Dates the user configured are left alone.
func (s *Service) MarkHolidays(ctx context.Context, user string, hs []ics.Holiday) (int, error) {
	marked := 0
	_, err := s.update(ctx, user, func(st *model.State) (bool, error) {
		for _, h := range hs {
			if _, ok := st.Meta[h.Date]; ok {
				continue
			}
			st.Meta[h.Date] = model.DayMeta{Type: model.DayHoliday}
			marked++
		}
		return marked > 0, nil
	})
	return marked, err
}

// SyncHolidays fetches the feeds and marks the holidays for every user. A
// failing feed does not stop the others from being applied.
func (s *Service) SyncHolidays(ctx context.Context) (int, error) {
	hs, ferr := s.Holidays(ctx)
	if len(hs) == 0 {
		return 0, ferr
	}
	ids, err := s.users(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	errs := []error{ferr}
	for _, id := range ids {
		n, err := s.MarkHolidays(ctx, id, hs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += n
	}
	appLog.Info("planner: holidays synced", "holidays", len(hs), "marked", total)
	return total, errors.Join(errs...)
}

// Scheduler runs the periodic jobs of a Service.
type Scheduler struct {
	c *cron.Cron
}

// NewScheduler registers compaction and holiday sync on their configured
// specs. An empty spec disables the job; holiday sync is also skipped when
// no feeds are configured.
func NewScheduler(svc *Service) (*Scheduler, error) {
	cfg := svc.cfg
	c := cron.New(cron.WithLocation(svc.loc))

	if cfg.CompactCron != "" {
		if _, err := c.AddFunc(cfg.CompactCron, func() {
			if _, err := svc.Compact(context.Background()); err != nil {
				appLog.Error("planner: scheduled compaction failed", err)
			}
		}); err != nil {
			return nil, err
		}
	}
	if cfg.HolidayCron != "" && len(cfg.Holidays) > 0 {
		if _, err := c.AddFunc(cfg.HolidayCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := svc.SyncHolidays(ctx); err != nil {
				appLog.Error("planner: scheduled holiday sync failed", err)
			}
		}); err != nil {
			return nil, err
		}
	}
	return &Scheduler{c: c}, nil
}

// Jobs is the number of registered jobs.
func (s *Scheduler) Jobs() int { return len(s.c.Entries()) }

func (s *Scheduler) Start() { s.c.Start() }

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
