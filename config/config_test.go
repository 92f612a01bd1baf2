package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, c.TickRate)
	assert.Equal(t, 64, c.Map.Width)
	assert.Equal(t, 64, c.Map.Height)
	assert.Equal(t, "quadtree", c.Index.Strategy)
	assert.Equal(t, 2048, c.Units.Max)
	assert.Equal(t, 1, c.Speed.Train)
	assert.Equal(t, 1, c.Speed.Build)
	assert.Equal(t, uint32(1), c.Seed)
	assert.Equal(t, "", c.CatalogPath)
	assert.Equal(t, "/tmp/stratagus.sock", c.SocketPath)
	assert.Equal(t, "balanced", c.AI.Doctrine)
	assert.Equal(t, 30, c.AI.Interval)
	assert.Equal(t, 1, c.AI.Players)
	assert.Equal(t, 2, c.Players)
	assert.Equal(t, "", c.WSAddr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 30, c.StateEvery)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratagus.yaml")
	cfg := `
tickRate: 60
map:
  width: 128
index:
  strategy: tileslots
ai:
  doctrine: rush
logLevel: debug
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60, c.TickRate)
	assert.Equal(t, 128, c.Map.Width)
	assert.Equal(t, 64, c.Map.Height, "unset keys keep their default")
	assert.Equal(t, "tileslots", c.Index.Strategy)
	assert.Equal(t, "rush", c.AI.Doctrine)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratagus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("map:\n  width: 32\nseed: 4\n"), 0o644))
	t.Setenv("STRATAGUS_MAP_WIDTH", "48")
	t.Setenv("STRATAGUS_SEED", "99")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 48, c.Map.Width)
	assert.Equal(t, uint32(99), c.Seed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/stratagus.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tick rate", func(c *Config) { c.TickRate = 0 }},
		{"map width", func(c *Config) { c.Map.Width = -1 }},
		{"unit cap", func(c *Config) { c.Units.Max = 0 }},
		{"train speed", func(c *Config) { c.Speed.Train = 0 }},
		{"ai interval", func(c *Config) { c.AI.Interval = 0 }},
		{"strategy", func(c *Config) { c.Index.Strategy = "octree" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"no players", func(c *Config) { c.Players = 0 }},
		{"too many players", func(c *Config) { c.Players = 16 }},
		{"ai players", func(c *Config) { c.AI.Players = 3 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Load("")
			require.NoError(t, err)
			tc.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}
