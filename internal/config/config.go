// Package config loads chordviewer settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "chordviewer.yaml"

// Config holds all chordviewer configuration.
type Config struct {
	Debug bool `yaml:"debug"`

	Database DatabaseConfig `yaml:"database"`
	State    StateConfig    `yaml:"state"`
	Player   PlayerConfig   `yaml:"player"`
	Robot    RobotConfig    `yaml:"robot"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig selects the chord database.
type DatabaseConfig struct {
	Source   string        `yaml:"source"`    // "embedded", file path, or http(s) URL
	Watch    bool          `yaml:"watch"`     // reload a file source on change
	CacheTTL time.Duration `yaml:"cache_ttl"` // for URL sources
	CacheDir string        `yaml:"cache_dir"` // default <state.dir>/httpcache
}

// StateConfig selects where the chord list lives.
type StateConfig struct {
	Backend  string `yaml:"backend"` // file, sqlite, s3, memory
	Dir      string `yaml:"dir"`
	SQLite   string `yaml:"sqlite_path"` // default <dir>/chordviewer.db
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
}

// PlayerConfig configures chord playback.
type PlayerConfig struct {
	Backend   string        `yaml:"backend"` // midi, log
	Port      string        `yaml:"port"`
	Transpose int           `yaml:"transpose"`
	Channel   uint8         `yaml:"channel"`
	Velocity  uint8         `yaml:"velocity"`
	Duration  time.Duration `yaml:"duration"`
	Strum     time.Duration `yaml:"strum"`
}

// RobotConfig configures the serial string actuator.
type RobotConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	dataDir := ".chordviewer"
	if home, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(home, "chordviewer")
	}
	return &Config{
		Database: DatabaseConfig{
			Source:   "embedded",
			CacheTTL: 24 * time.Hour,
		},
		State: StateConfig{
			Backend: "file",
			Dir:     dataDir,
		},
		Player: PlayerConfig{
			Backend:   "log",
			Transpose: 1,
			Velocity:  100,
			Duration:  1500 * time.Millisecond,
		},
		Robot: RobotConfig{
			Device: "/dev/ttyACM0",
			Baud:   500000,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load reads path over the defaults. A missing file at the default location
// is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SQLitePath is the sqlite store file, following Dir unless set explicitly.
func (s StateConfig) SQLitePath() string {
	if s.SQLite != "" {
		return s.SQLite
	}
	return filepath.Join(s.Dir, "chordviewer.db")
}

// HTTPCacheDir is where downloaded chord databases are cached.
func (c *Config) HTTPCacheDir() string {
	if c.Database.CacheDir != "" {
		return c.Database.CacheDir
	}
	return filepath.Join(c.State.Dir, "httpcache")
}

// applyEnvOverrides lets CHORDVIEWER_* variables win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHORDVIEWER_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv("CHORDVIEWER_DB"); v != "" {
		c.Database.Source = v
	}
	if v := os.Getenv("CHORDVIEWER_STATE_BACKEND"); v != "" {
		c.State.Backend = v
	}
	if v := os.Getenv("CHORDVIEWER_STATE_DIR"); v != "" {
		c.State.Dir = v
	}
	if v := os.Getenv("CHORDVIEWER_S3_BUCKET"); v != "" {
		c.State.S3Bucket = v
	}
	if v := os.Getenv("CHORDVIEWER_MIDI_PORT"); v != "" {
		c.Player.Port = v
	}
	if v := os.Getenv("CHORDVIEWER_TRANSPOSE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Player.Transpose = n
		}
	}
	if v := os.Getenv("CHORDVIEWER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.State.Backend {
	case "file", "sqlite", "memory":
	case "s3":
		if c.State.S3Bucket == "" {
			return errors.New("config: state backend s3 needs s3_bucket")
		}
	default:
		return fmt.Errorf("config: unknown state backend %q", c.State.Backend)
	}
	switch c.Player.Backend {
	case "midi", "log":
	default:
		return fmt.Errorf("config: unknown player backend %q", c.Player.Backend)
	}
	if c.Player.Channel > 15 {
		return fmt.Errorf("config: midi channel %d > 15", c.Player.Channel)
	}
	if c.Player.Velocity > 127 {
		return fmt.Errorf("config: velocity %d > 127", c.Player.Velocity)
	}
	return nil
}
