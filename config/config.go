// Package config loads the engine settings.
//
// Every key has a default, so an engine runs with no file at all. A YAML
// file overrides the defaults and STRATAGUS_* environment variables
// override the file (map.width is STRATAGUS_MAP_WIDTH).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/Mistranger/stratagus-sub001/spatial"
)

// EnvPrefix prefixes the environment overrides.
const EnvPrefix = "STRATAGUS"

// maxPlayers is the slot count excluding the neutral player.
const maxPlayers = 15

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type MapConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type IndexConfig struct {
	Strategy string `mapstructure:"strategy"`
}

type UnitsConfig struct {
	Max int `mapstructure:"max"`
}

type SpeedConfig struct {
	Train int `mapstructure:"train"`
	Build int `mapstructure:"build"`
}

type AIConfig struct {
	Doctrine string `mapstructure:"doctrine"`
	Interval int    `mapstructure:"interval"` // ticks between rule evaluations
	Players  int    `mapstructure:"players"`  // leading player slots run by the AI
}

// Config is the full engine configuration.
type Config struct {
	TickRate    int         `mapstructure:"tickRate"`
	Map         MapConfig   `mapstructure:"map"`
	Index       IndexConfig `mapstructure:"index"`
	Units       UnitsConfig `mapstructure:"units"`
	Speed       SpeedConfig `mapstructure:"speed"`
	Seed        uint32      `mapstructure:"seed"`
	CatalogPath string      `mapstructure:"catalogPath"`
	SocketPath  string      `mapstructure:"socketPath"`
	WSAddr      string      `mapstructure:"wsAddr"` // "" disables the websocket listener
	Players     int         `mapstructure:"players"`
	AI          AIConfig    `mapstructure:"ai"`
	LogLevel    string      `mapstructure:"logLevel"`
	StateEvery  int         `mapstructure:"stateEvery"` // ticks between state frames
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tickRate", 30)
	v.SetDefault("map.width", 64)
	v.SetDefault("map.height", 64)
	v.SetDefault("index.strategy", spatial.Quadtree)
	v.SetDefault("units.max", 2048)
	v.SetDefault("speed.train", 1)
	v.SetDefault("speed.build", 1)
	v.SetDefault("seed", 1)
	v.SetDefault("catalogPath", "")
	v.SetDefault("socketPath", "/tmp/stratagus.sock")
	v.SetDefault("wsAddr", "")
	v.SetDefault("players", 2)
	v.SetDefault("ai.doctrine", "balanced")
	v.SetDefault("ai.interval", 30)
	v.SetDefault("ai.players", 1)
	v.SetDefault("logLevel", "info")
	v.SetDefault("stateEvery", 30)
}

// Load reads the configuration. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		slog.Debug("config file loaded", "path", path)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects sizes and rates the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tickRate %d", ErrInvalid, c.TickRate)
	case c.Map.Width <= 0 || c.Map.Height <= 0:
		return fmt.Errorf("%w: map size %dx%d", ErrInvalid, c.Map.Width, c.Map.Height)
	case c.Units.Max <= 0:
		return fmt.Errorf("%w: units.max %d", ErrInvalid, c.Units.Max)
	case c.Speed.Train <= 0 || c.Speed.Build <= 0:
		return fmt.Errorf("%w: speed train=%d build=%d", ErrInvalid, c.Speed.Train, c.Speed.Build)
	case c.AI.Interval <= 0:
		return fmt.Errorf("%w: ai.interval %d", ErrInvalid, c.AI.Interval)
	case c.Players <= 0 || c.Players > maxPlayers:
		return fmt.Errorf("%w: players %d", ErrInvalid, c.Players)
	case c.AI.Players < 0 || c.AI.Players > c.Players:
		return fmt.Errorf("%w: ai.players %d of %d", ErrInvalid, c.AI.Players, c.Players)
	case c.StateEvery < 0:
		return fmt.Errorf("%w: stateEvery %d", ErrInvalid, c.StateEvery)
	}
	if !spatial.Known(c.Index.Strategy) {
		return fmt.Errorf("%w: index.strategy %q", ErrInvalid, c.Index.Strategy)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ParseLevel maps a logLevel value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logLevel %q: %w", s, err)
	}
	return l, nil
}
