// Package config loads game settings from defaults, an optional YAML file
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Themes lists the accepted theme names.
var Themes = []string{"blocks", "glyph", "runes"}

// Config is the full set of user settings.
type Config struct {
	// TickInterval is the wall-clock length of one simulation tick.
	TickInterval time.Duration `yaml:"tick_interval"`
	// DropFrames is the gravity period at level 1, in ticks.
	DropFrames uint64 `yaml:"drop_frames"`
	// LevelTicks is the length of a level, in ticks.
	LevelTicks uint64 `yaml:"level_ticks"`
	// Seed drives piece selection. Zero picks a time based seed.
	Seed uint64 `yaml:"seed"`

	Theme string `yaml:"theme"`
	Ghost bool   `yaml:"ghost"`

	Player  string `yaml:"player"`
	ScoreDB string `yaml:"score_db"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	player := os.Getenv("USER")
	if player == "" {
		player = "player"
	}
	cfg := Config{
		TickInterval: 10 * time.Millisecond,
		DropFrames:   30,
		LevelTicks:   6000,
		Theme:        "glyph",
		Ghost:        true,
		Player:       player,
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.ScoreDB = filepath.Join(dir, "unictris", "scores.db")
	}
	return cfg
}

// DefaultPath is where Load looks when no file is named.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "unictris", "config.yaml")
}

// Load applies the YAML file at path on top of Default. A missing file is
// not an error; the returned bool reports whether a file was read.
func Load(path string) (Config, bool, error) {
	cfg := Default()
	if path == "" {
		return cfg, false, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, true, nil
}

var (
	ErrTiming = errors.New("timing must be positive")
	ErrTheme  = errors.New("unknown theme")
)

// Validate reports the first setting the game cannot run with.
func (c Config) Validate() error {
	switch {
	case c.TickInterval <= 0:
		return fmt.Errorf("tick_interval %v: %w", c.TickInterval, ErrTiming)
	case c.DropFrames == 0:
		return fmt.Errorf("drop_frames: %w", ErrTiming)
	case c.LevelTicks == 0:
		return fmt.Errorf("level_ticks: %w", ErrTiming)
	}
	if !slices.Contains(Themes, c.Theme) {
		return fmt.Errorf("theme %q: %w", c.Theme, ErrTheme)
	}
	return nil
}
