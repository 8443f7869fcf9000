// Package config holds the persistent settings shared by the floorplan
// tools. Settings live in a TOML file and may be overridden from the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file in the user's home directory.
const FileName = ".floorplan.toml"

// Config holds persistent settings.
type Config struct {
	Server     string `toml:"server"`     // document store base URL
	Collection string `toml:"collection"` // path segment for plans
	LastPlan   string `toml:"last_plan"`  // plan opened on start
	LastDir    string `toml:"last_dir"`   // where exports go

	Editor Editor `toml:"editor"`
	Store  Store  `toml:"store"`
}

// Editor settings.
type Editor struct {
	Autosave     bool    `toml:"autosave"`
	AutosaveWait string  `toml:"autosave_wait"` // duration, e.g. "2s"
	SnapToGrid   bool    `toml:"snap_to_grid"`
	ShowGrid     bool    `toml:"show_grid"`
	GridSize     float64 `toml:"grid_size"`
	UndoLevels   int     `toml:"undo_levels"`
	CanvasWidth  float64 `toml:"canvas_width"`
	CanvasHeight float64 `toml:"canvas_height"`
	CenterAnchor bool    `toml:"center_anchor"` // circular kinds stored by centre
}

// Store settings for the local development store.
type Store struct {
	Listen   string `toml:"listen"`
	Database string `toml:"database"`
}

// Default returns the built-in settings.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		Server:     "http://localhost:8085",
		Collection: "floorplans",
		LastDir:    cwd,
		Editor: Editor{
			Autosave:     true,
			AutosaveWait: "2s",
			ShowGrid:     true,
			GridSize:     20,
			UndoLevels:   50,
			CanvasWidth:  4000,
			CanvasHeight: 3000,
		},
		Store: Store{
			Listen:   ":8085",
			Database: "floorplans.db",
		},
	}
}

// Path returns the settings file location.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return Default().withEnv(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg.withEnv(), nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, "# floorplan configuration"); err != nil {
		return err
	}
	return toml.NewEncoder(f).Encode(cfg)
}

func (cfg Config) withEnv() Config {
	cfg.Server = getEnv("FLOORPLAN_SERVER", cfg.Server)
	cfg.Collection = getEnv("FLOORPLAN_COLLECTION", cfg.Collection)
	cfg.Store.Listen = getEnv("FLOORPLAN_LISTEN", cfg.Store.Listen)
	cfg.Store.Database = getEnv("FLOORPLAN_DB", cfg.Store.Database)
	cfg.Editor.Autosave = getEnvAsBool("FLOORPLAN_AUTOSAVE", cfg.Editor.Autosave)
	return cfg
}

// AutosaveDelay parses AutosaveWait, falling back to two seconds.
func (e Editor) AutosaveDelay() time.Duration {
	d, err := time.ParseDuration(e.AutosaveWait)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
