package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/multiagent"
)

// Point is a cell written as a two element sequence, [x, y].
type Point grid.Coord

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xy []int
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("%w: line %d: point needs [x, y], got %d values", ErrInvalid, value.Line, len(xy))
	}
	*p = Point{X: xy[0], Y: xy[1]}
	return nil
}

func (p Point) MarshalYAML() (any, error) { return []int{p.X, p.Y}, nil }

func (p Point) Coord() grid.Coord { return grid.Coord(p) }

// AgentConfig describes one agent of a scenario. Speed defaults to 1 and a
// missing predecessor leaves the agent free.
type AgentConfig struct {
	ID          int   `yaml:"id"`
	Start       Point `yaml:"start"`
	Goal        Point `yaml:"goal"`
	Speed       int   `yaml:"speed,omitempty"`
	Predecessor *int  `yaml:"predecessor,omitempty"`
}

func (s AgentConfig) Agent() multiagent.Agent {
	speed := s.Speed
	if speed == 0 {
		speed = 1
	}
	a := multiagent.NewAgent(s.ID, s.Start.Coord(), s.Goal.Coord(), speed)
	if s.Predecessor != nil {
		a = a.After(*s.Predecessor)
	}
	return a
}

// Scenario is a multi-agent planning problem: a matrix file and a team.
// Heuristic is rra (the default), manhattan or none. Only none is
// guaranteed optimal when an agent has speed above 1.
type Scenario struct {
	// Matrix is the weight matrix file. A relative path is resolved
	// against the directory of the scenario file.
	Matrix        string        `yaml:"matrix"`
	Weight        float64       `yaml:"weight,omitempty"`
	Heuristic     string        `yaml:"heuristic,omitempty"`
	BatchSize     int           `yaml:"batch_size,omitempty"`
	MaxExpansions int           `yaml:"max_expansions,omitempty"`
	Agents        []AgentConfig `yaml:"agents"`
}

// Plan heuristic names accepted by a scenario.
const (
	PlanHeuristicRRA       = "rra"
	PlanHeuristicManhattan = "manhattan"
	PlanHeuristicNone      = "none"
)

var planHeuristics = map[string]multiagent.HeuristicKind{
	"":                     multiagent.RRAHeuristic,
	PlanHeuristicRRA:       multiagent.RRAHeuristic,
	PlanHeuristicManhattan: multiagent.ManhattanHeuristic,
	PlanHeuristicNone:      multiagent.ZeroHeuristic,
}

// LoadScenario reads the scenario at path.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, err
	}
	if s.Matrix != "" && !filepath.IsAbs(s.Matrix) {
		s.Matrix = filepath.Join(filepath.Dir(path), s.Matrix)
	}
	return s, nil
}

// ParseScenario decodes a scenario document. Unknown keys are rejected.
func ParseScenario(data []byte) (Scenario, error) {
	s := Scenario{Weight: 1}
	if err := decodeStrict(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate checks the fields a search cannot check for itself.
func (s Scenario) Validate() error {
	if _, ok := planHeuristics[s.Heuristic]; !ok {
		return fmt.Errorf("%w: heuristic %q", ErrInvalid, s.Heuristic)
	}
	switch {
	case s.Matrix == "":
		return fmt.Errorf("%w: scenario has no matrix", ErrInvalid)
	case len(s.Agents) == 0:
		return fmt.Errorf("%w: scenario has no agents", ErrInvalid)
	case s.Weight <= 0:
		return fmt.Errorf("%w: weight %v", ErrInvalid, s.Weight)
	case s.BatchSize < 0 || s.MaxExpansions < 0:
		return fmt.Errorf("%w: negative batch_size or max_expansions", ErrInvalid)
	}
	for _, a := range s.Agents {
		if a.Speed < 0 {
			return fmt.Errorf("%w: agent %d has speed %d", ErrInvalid, a.ID, a.Speed)
		}
	}
	return nil
}

// Team returns the agents of the scenario.
func (s Scenario) Team() []multiagent.Agent {
	team := make([]multiagent.Agent, len(s.Agents))
	for i, ac := range s.Agents {
		team[i] = ac.Agent()
	}
	return team
}

// Options returns the map options the scenario asks for.
func (s Scenario) Options() []multiagent.Option {
	opts := []multiagent.Option{
		multiagent.WithWeight(s.Weight),
		multiagent.WithHeuristic(planHeuristics[s.Heuristic]),
	}
	if s.BatchSize > 0 {
		opts = append(opts, multiagent.WithBatchSize(s.BatchSize))
	}
	if s.MaxExpansions > 0 {
		opts = append(opts, multiagent.WithMaxExpansions(s.MaxExpansions))
	}
	return opts
}
