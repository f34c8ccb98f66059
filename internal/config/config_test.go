package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Driver != "diskv" || cfg.Timeline.PixelsPerHour != 60 || cfg.Timeline.MaxFeatured != 3 {
		t.Errorf("defaults = %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o", perm)
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
listen: ":9000"
week_start: friday
store:
  driver: sqlite
timeline:
  pixels_per_hour: 120
defaults:
  work_start: "8:30"
  work_end: "late"
holidays:
  - id: kr
    name: Korean holidays
    url: https://example.com/kr.ics
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9000" || cfg.WeekStart != "sunday" {
		t.Errorf("listen=%q week_start=%q", cfg.Listen, cfg.WeekStart)
	}
	if cfg.Store.Path != "./var/dayplan.db" {
		t.Errorf("sqlite path = %q", cfg.Store.Path)
	}
	if cfg.Timeline.PixelsPerHour != 120 || cfg.Timeline.MinCreateSpan != 10 {
		t.Errorf("timeline = %+v", cfg.Timeline)
	}
	if cfg.Defaults.WorkStart != "8:30" || cfg.Defaults.WorkEnd != "18:00" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if len(cfg.Holidays) != 1 || cfg.Holidays[0].URL != "https://example.com/kr.ics" {
		t.Errorf("holidays = %+v", cfg.Holidays)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.DefaultUser = "alice"
	cfg.CompactCron = "@daily"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DefaultUser != "alice" || got.CompactCron != "@daily" {
		t.Errorf("got %+v", got)
	}
	if got.Location() == nil {
		t.Error("nil location")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(path, []byte("listen: [unterminated"), 0o600)
	if _, err := Load(path); err == nil {
		t.Error("garbage accepted")
	}
	if _, err := Load(""); err == nil {
		t.Error("empty path accepted")
	}
}
