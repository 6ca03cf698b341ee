package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/go-astar/config"
	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/multiagent"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("heuristic: manhattan\nterrain:\n  width: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, config.HeuristicManhattan, cfg.Heuristic)
	assert.True(t, cfg.Diagonal)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Equal(t, 8, cfg.Terrain.Width)
	assert.Equal(t, 64, cfg.Terrain.Height)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"bad level", "log_level: loud\n", true},
		{"bad heuristic", "heuristic: octile\n", true},
		{"negative bucket width", "bucket_width: -1\n", true},
		{"negative budget", "max_iterations: -5\n", true},
		{"unknown key", "colour: blue\n", false},
		{"not yaml", "diagonal: [\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, config.ErrInvalid))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tilepath.yaml", "log_level: debug\ndiagonal: false\nmax_iterations: 100\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.False(t, cfg.Diagonal)
	assert.Equal(t, 100, cfg.MaxIterations)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

const scenarioDoc = `
matrix: maps/plain.csv
weight: 1.25
agents:
  - id: 0
    start: [0, 0]
    goal: [9, 9]
    speed: 2
  - id: 1
    start: [0, 0]
    goal: [9, 9]
    predecessor: 0
`

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scenario.yaml", scenarioDoc)

	s, err := config.LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "maps", "plain.csv"), s.Matrix)
	assert.Equal(t, 1.25, s.Weight)

	team := s.Team()
	require.Len(t, team, 2)
	assert.Equal(t, multiagent.NewAgent(0, grid.Coord{X: 0, Y: 0}, grid.Coord{X: 9, Y: 9}, 2), team[0])
	assert.Equal(t, 1, team[1].Speed)
	assert.Equal(t, 0, team[1].Predecessor)
	assert.Equal(t, multiagent.NoPredecessor, team[0].Predecessor)
	assert.Len(t, s.Options(), 2)
}

func TestScenarioKeepsAbsoluteMatrix(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "elsewhere.csv")
	path := writeFile(t, dir, "scenario.yaml", "matrix: "+abs+"\nagents:\n  - {id: 0, start: [0, 0], goal: [1, 0]}\n")

	s, err := config.LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, abs, s.Matrix)
	assert.Equal(t, 1.0, s.Weight)
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no matrix", "agents:\n  - {id: 0, start: [0, 0], goal: [1, 0]}\n"},
		{"no agents", "matrix: m.csv\n"},
		{"zero weight", "matrix: m.csv\nweight: 0\nagents:\n  - {id: 0, start: [0, 0], goal: [1, 0]}\n"},
		{"negative speed", "matrix: m.csv\nagents:\n  - {id: 0, start: [0, 0], goal: [1, 0], speed: -1}\n"},
		{"short point", "matrix: m.csv\nagents:\n  - {id: 0, start: [0], goal: [1, 0]}\n"},
		{"unknown key", "matrix: m.csv\nteam: []\n"},
		{"bad heuristic", "matrix: m.csv\nheuristic: octile\nagents:\n  - {id: 0, start: [0, 0], goal: [1, 0]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseScenario([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestScenarioHeuristic(t *testing.T) {
	s, err := config.ParseScenario([]byte("matrix: m.csv\nheuristic: none\nagents:\n  - {id: 0, start: [0, 0], goal: [1, 0]}\n"))
	require.NoError(t, err)
	assert.Equal(t, config.PlanHeuristicNone, s.Heuristic)
	assert.Len(t, s.Options(), 2)
}
