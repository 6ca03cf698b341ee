// Package terrain generates weight matrices from simplex noise.
//
// Noise is sampled once per cell. Cells whose noise falls below the wall
// level become walls (-1); the rest get a weight between 1 and MaxWeight
// that grows with the noise, so rough ground forms smooth ridges around
// open valleys.
package terrain

import (
	"errors"
	"fmt"
	"io"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	astar "github.com/pdrpinto/go-astar"
	"github.com/pdrpinto/go-astar/grid"
)

var ErrInvalidConfig = errors.New("terrain: invalid config")

// Config holds the parameters of a generated map.
type Config struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Seed      int64   `yaml:"seed"`
	Scale     float64 `yaml:"scale"`      // noise frequency per cell
	WallLevel float64 `yaml:"wall_level"` // normalized noise below which a cell is a wall
	MaxWeight int     `yaml:"max_weight"` // 1 gives a uniform map
}

// DefaultConfig returns a 64x64 map with few walls and unit weights.
func DefaultConfig() Config {
	return Config{
		Width:     64,
		Height:    64,
		Seed:      1,
		Scale:     0.1,
		WallLevel: 0.3,
		MaxWeight: 1,
	}
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale %v", ErrInvalidConfig, c.Scale)
	case c.WallLevel < 0 || c.WallLevel > 1:
		return fmt.Errorf("%w: wall level %v outside [0,1]", ErrInvalidConfig, c.WallLevel)
	case c.MaxWeight < 1:
		return fmt.Errorf("%w: max weight %d", ErrInvalidConfig, c.MaxWeight)
	}
	return nil
}

// Generate builds the matrix described by cfg. The same config always
// yields the same matrix.
func Generate[C astar.Cost](cfg Config) (grid.VertexMatrix[C], error) {
	if err := cfg.validate(); err != nil {
		return grid.VertexMatrix[C]{}, err
	}

	noise := opensimplex.New(cfg.Seed)
	cells := make([]C, 0, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			v := (noise.Eval2(float64(x)*cfg.Scale, float64(y)*cfg.Scale) + 1) / 2
			cells = append(cells, C(weight(v, cfg)))
		}
	}
	return grid.NewVertexMatrix(cfg.Width, cfg.Height, cells)
}

func weight(v float64, cfg Config) int {
	if v < cfg.WallLevel {
		return -1
	}
	if cfg.MaxWeight == 1 || cfg.WallLevel >= 1 {
		return 1
	}
	t := (v - cfg.WallLevel) / (1 - cfg.WallLevel)
	w := 1 + int(math.Floor(t*float64(cfg.MaxWeight)))
	return min(max(w, 1), cfg.MaxWeight)
}

// Write generates the matrix described by cfg and writes it to w in the
// matrix file format.
func Write(w io.Writer, cfg Config) error {
	vm, err := Generate[int](cfg)
	if err != nil {
		return err
	}
	return grid.WriteMatrix(w, vm)
}
