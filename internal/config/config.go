package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"dayplan/internal/geometry"
	"dayplan/internal/ics"
)

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "diskv" (default), "sqlite" or "memory".
	Driver string `yaml:"driver" json:"driver"`
	// Path is the diskv base directory or the sqlite database file.
	Path string `yaml:"path" json:"path"`
}

// TimelineConfig holds the drag surface geometry.
type TimelineConfig struct {
	PixelsPerHour float64 `yaml:"pixels_per_hour" json:"pixels_per_hour"`
	// MinCreateSpan is the drag distance in pixels below which a press on
	// empty space counts as a click.
	MinCreateSpan float64 `yaml:"min_create_span" json:"min_create_span"`
	// MaxFeatured caps the important slots listed per calendar cell.
	MaxFeatured int `yaml:"max_featured" json:"max_featured"`
}

// DefaultsConfig seeds the settings of users without a saved state.
type DefaultsConfig struct {
	WorkStart string `yaml:"work_start" json:"work_start"`
	WorkEnd   string `yaml:"work_end" json:"work_end"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone "today" and the now line are computed in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is "sunday" (default, matching the calendar grid) or
	// "monday" for printed month views.
	WeekStart string `yaml:"week_start" json:"week_start"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// DefaultUser is used when a request or command names no user.
	DefaultUser string `yaml:"default_user" json:"default_user"`

	Store    StoreConfig    `yaml:"store" json:"store"`
	Timeline TimelineConfig `yaml:"timeline" json:"timeline"`
	Defaults DefaultsConfig `yaml:"defaults" json:"defaults"`

	// CompactCron schedules tombstone compaction; empty disables it.
	CompactCron string `yaml:"compact_cron" json:"compact_cron"`

	// Holidays are ICS feeds whose days are marked as holidays.
	Holidays           []ics.Feed `yaml:"holidays" json:"holidays"`
	HolidayCron        string     `yaml:"holiday_cron" json:"holiday_cron"`
	HolidayHorizonDays int        `yaml:"holiday_horizon_days" json:"holiday_horizon_days"`

	// CacheDir holds fetched holiday feeds.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing or invalid values so that partially filled
// configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Seoul"
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "sunday"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DefaultUser == "" {
		c.DefaultUser = "default"
	}

	switch c.Store.Driver {
	case "diskv", "sqlite", "memory":
	default:
		c.Store.Driver = "diskv"
	}
	if c.Store.Path == "" {
		if c.Store.Driver == "sqlite" {
			c.Store.Path = "./var/dayplan.db"
		} else {
			c.Store.Path = "./var/state"
		}
	}

	if c.Timeline.PixelsPerHour <= 0 {
		c.Timeline.PixelsPerHour = geometry.DefaultPixelsPerHour
	}
	if c.Timeline.MinCreateSpan <= 0 {
		c.Timeline.MinCreateSpan = 10
	}
	if c.Timeline.MaxFeatured <= 0 {
		c.Timeline.MaxFeatured = 3
	}

	if _, err := geometry.ParseClock(c.Defaults.WorkStart); err != nil {
		c.Defaults.WorkStart = "09:00"
	}
	if _, err := geometry.ParseClock(c.Defaults.WorkEnd); err != nil {
		c.Defaults.WorkEnd = "18:00"
	}

	if c.Holidays == nil {
		c.Holidays = []ics.Feed{}
	}
	if c.HolidayCron == "" {
		c.HolidayCron = "0 4 * * *"
	}
	if c.HolidayHorizonDays <= 0 {
		c.HolidayHorizonDays = 365
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/ics-cache"
	}
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			return loc
		}
	}
	return time.Local
}

// Load loads configuration from the given YAML path.
//
// A missing file is created with the defaults (0600) and the defaults are
// returned. An existing file is decoded and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename. The parent
// directory is created 0700 and the file ends up 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".dayplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
