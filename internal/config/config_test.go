package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chordviewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "embedded", cfg.Database.Source)
	assert.Equal(t, "file", cfg.State.Backend)
	assert.Equal(t, 1, cfg.Player.Transpose)
	assert.Equal(t, "log", cfg.Player.Backend)
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
debug: true
database:
  source: ./guitar.json
  watch: true
state:
  backend: sqlite
  sqlite_path: /tmp/cv.db
player:
  backend: midi
  port: FLUID
  transpose: 0
  duration: 2s
server:
  addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "./guitar.json", cfg.Database.Source)
	assert.True(t, cfg.Database.Watch)
	assert.Equal(t, "sqlite", cfg.State.Backend)
	assert.Equal(t, "/tmp/cv.db", cfg.State.SQLite)
	assert.Equal(t, "midi", cfg.Player.Backend)
	assert.Equal(t, 0, cfg.Player.Transpose)
	assert.Equal(t, 2*time.Second, cfg.Player.Duration)
	assert.Equal(t, uint8(100), cfg.Player.Velocity, "unset keys keep defaults")
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "state: [nope"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown state backend", func(c *Config) { c.State.Backend = "redis" }},
		{"s3 without bucket", func(c *Config) { c.State.Backend = "s3" }},
		{"unknown player", func(c *Config) { c.Player.Backend = "speaker" }},
		{"channel", func(c *Config) { c.Player.Channel = 16 }},
		{"velocity", func(c *Config) { c.Player.Velocity = 200 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHORDVIEWER_DEBUG", "true")
	t.Setenv("CHORDVIEWER_DB", "https://example.com/guitar.json")
	t.Setenv("CHORDVIEWER_STATE_BACKEND", "s3")
	t.Setenv("CHORDVIEWER_S3_BUCKET", "chords")
	t.Setenv("CHORDVIEWER_TRANSPOSE", "0")
	t.Setenv("CHORDVIEWER_ADDR", ":7000")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.True(t, cfg.Debug)
	assert.Equal(t, "https://example.com/guitar.json", cfg.Database.Source)
	assert.Equal(t, "s3", cfg.State.Backend)
	assert.Equal(t, "chords", cfg.State.S3Bucket)
	assert.Equal(t, 0, cfg.Player.Transpose)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv("CHORDVIEWER_DEBUG", "maybe")
	t.Setenv("CHORDVIEWER_TRANSPOSE", "one")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.False(t, cfg.Debug)
	assert.Equal(t, 1, cfg.Player.Transpose)
}

func TestDerivedPathsFollowStateDir(t *testing.T) {
	t.Setenv("CHORDVIEWER_STATE_DIR", "/srv/chords")
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, filepath.Join("/srv/chords", "chordviewer.db"), cfg.State.SQLitePath())
	assert.Equal(t, filepath.Join("/srv/chords", "httpcache"), cfg.HTTPCacheDir())

	cfg.State.SQLite = "/tmp/cv.db"
	cfg.Database.CacheDir = "/tmp/cache"
	assert.Equal(t, "/tmp/cv.db", cfg.State.SQLitePath())
	assert.Equal(t, "/tmp/cache", cfg.HTTPCacheDir())
}
