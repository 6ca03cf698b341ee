// Package config reads the YAML files of the tilepath command: the run
// configuration and multi-agent scenarios.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/go-astar/terrain"
)

var ErrInvalid = errors.New("config: invalid value")

// Heuristic names accepted by the heuristic setting.
const (
	HeuristicDiagonal  = "diagonal"
	HeuristicManhattan = "manhattan"
	HeuristicEuclidean = "euclidean"
)

// Config is the run configuration. Keys missing from a file keep their
// defaults.
type Config struct {
	LogLevel      string         `yaml:"log_level"`
	BucketWidth   float64        `yaml:"bucket_width"`
	Diagonal      bool           `yaml:"diagonal"`
	Heuristic     string         `yaml:"heuristic"`
	MaxIterations int            `yaml:"max_iterations"`
	Terrain       terrain.Config `yaml:"terrain"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Diagonal:  true,
		Heuristic: HeuristicDiagonal,
		Terrain:   terrain.DefaultConfig(),
	}
}

// Load reads the configuration at path over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a configuration document over the defaults. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decodeStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	switch c.Heuristic {
	case HeuristicDiagonal, HeuristicManhattan, HeuristicEuclidean:
	default:
		return fmt.Errorf("%w: heuristic %q", ErrInvalid, c.Heuristic)
	}
	if c.BucketWidth < 0 {
		return fmt.Errorf("%w: bucket_width %v", ErrInvalid, c.BucketWidth)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations %d", ErrInvalid, c.MaxIterations)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
