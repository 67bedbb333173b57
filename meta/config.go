// Package meta holds the run configuration shared by the CLI, the local
// engine and the experiments.
package meta

import (
	"errors"
	"fmt"
	"os"

	"gossip/game"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Players         int     `yaml:"players"`
	Turns           int     `yaml:"turns"`
	Seed            uint64  `yaml:"seed"`
	MemoryCapacity  int     `yaml:"memory_capacity"`
	NeighborRadius  int     `yaml:"neighbor_radius"`
	MoveProbability float64 `yaml:"move_probability"`
	HearingReach    int     `yaml:"hearing_reach"`
	LogLevel        string  `yaml:"log_level"`

	Experiment Experiment `yaml:"experiment"`
}

// Experiment configures policy comparison runs.
type Experiment struct {
	Games     int    `yaml:"games"`
	Workers   int    `yaml:"workers"`
	OutputDir string `yaml:"output_dir"`
	Database  string `yaml:"database"` // Empty disables the SQLite store
}

func Default() Config {
	return Config{
		Players:         game.DefaultPlayers,
		Turns:           300,
		Seed:            1,
		MemoryCapacity:  2,
		NeighborRadius:  1,
		MoveProbability: 0.12,
		HearingReach:    3,
		LogLevel:        "info",
		Experiment: Experiment{
			Games:     30,
			Workers:   8,
			OutputDir: "results",
			Database:  "results/gossip.db",
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the fields it
// changes.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Players <= 0 || c.Players > game.NumCells:
		return fmt.Errorf("%w: players %d outside [1,%d]", ErrInvalidConfig, c.Players, game.NumCells)
	case c.Turns < 0:
		return fmt.Errorf("%w: negative turns", ErrInvalidConfig)
	case c.MemoryCapacity < 0:
		return fmt.Errorf("%w: negative memory capacity", ErrInvalidConfig)
	case c.NeighborRadius < 0 || c.NeighborRadius >= game.SeatsPerTable:
		return fmt.Errorf("%w: neighbor radius %d outside [0,%d)", ErrInvalidConfig, c.NeighborRadius, game.SeatsPerTable)
	case c.MoveProbability < 0 || c.MoveProbability > 1:
		return fmt.Errorf("%w: move probability %v outside [0,1]", ErrInvalidConfig, c.MoveProbability)
	case c.HearingReach < 1:
		return fmt.Errorf("%w: hearing reach must be positive", ErrInvalidConfig)
	case c.Experiment.Games < 0:
		return fmt.Errorf("%w: negative experiment games", ErrInvalidConfig)
	case c.Experiment.Workers < 1:
		return fmt.Errorf("%w: experiment needs at least one worker", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Level is the parsed log level, falling back to info.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// YAML renders the configuration as a config file.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
