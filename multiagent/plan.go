package multiagent

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	astar "github.com/pdrpinto/go-astar"
	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/internal/timing"
)

var (
	ErrInvalidAgent    = errors.New("multiagent: invalid agent")
	ErrUnreachable     = errors.New("multiagent: goal unreachable")
	ErrNoPlan          = errors.New("multiagent: no plan found")
	ErrBudgetExhausted = errors.New("multiagent: expansion budget exhausted")
)

// ctxCheckEvery is the number of expansions between context checks.
const ctxCheckEvery = 1024

// Plan is the outcome of a successful search.
type Plan struct {
	// Turns holds the start node followed by one end-of-turn node per turn,
	// in execution order.
	Turns []*Node
	// Cost is the number of decisions the plan takes.
	Cost  int
	Stats astar.SearchStats
}

// Trajectories returns the cells each agent occupies, turn by turn, keyed by
// agent id. An agent's trajectory ends on the turn it reaches its goal.
func (p Plan) Trajectories() map[int][]grid.Coord {
	out := make(map[int][]grid.Coord)
	if len(p.Turns) == 0 {
		return out
	}
	for _, a := range p.Turns[0].Unplanned {
		out[a.ID] = []grid.Coord{a.Pos}
	}
	for _, turn := range p.Turns[1:] {
		for _, mv := range turn.Committed {
			out[mv.Agent.ID] = append(out[mv.Agent.ID], mv.To)
		}
	}
	return out
}

// Plan searches for a joint plan bringing every agent to its goal. It
// returns ErrInvalidAgent or ErrUnreachable before searching, ErrNoPlan
// when the search space runs out, and ErrBudgetExhausted when the
// expansion budget does. The map is reset first.
func (m *Map) Plan(ctx context.Context, agents ...Agent) (Plan, error) {
	t := timing.Start(ctx, m.log, "multiagent.Plan")
	defer t.End()
	ctx = t.Context()

	if err := m.validate(agents); err != nil {
		return Plan{}, err
	}
	for _, a := range agents {
		if _, ok := m.Distance(a.Goal, a.Start); !ok {
			return Plan{}, fmt.Errorf("%w: agent %d from %v to %v", ErrUnreachable, a.ID, a.Start, a.Goal)
		}
	}

	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}

	m.Reset()
	start, goal := NewStart(agents...), Goal()
	stepper := astar.NewStepper[*Node, int](m, start, goal, m.heuristic(),
		astar.WithMaxIterations(m.opts.maxExpansions))

	var path []*Node
	for {
		snapshot := stepper.Step()
		if snapshot.Exhausted {
			m.log.WithField("expansions", snapshot.StepIndex).Warn("plan budget exhausted")
			return Plan{Stats: m.Stats}, ErrBudgetExhausted
		}
		if snapshot.Done {
			path = snapshot.Path
			break
		}
		if snapshot.StepIndex%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Plan{Stats: m.Stats}, err
			}
		}
	}
	if len(path) == 0 {
		return Plan{Stats: m.Stats}, ErrNoPlan
	}

	plan := Plan{Turns: turns(path), Cost: path[0].G, Stats: m.Stats}
	m.log.WithFields(logrus.Fields{
		"agents": len(agents),
		"turns":  len(plan.Turns) - 1,
		"cost":   plan.Cost,
		"opened": m.Stats.Opened,
	}).Info("plan found")
	return plan, nil
}

// turns keeps the start node and the end-of-turn nodes of a goal-to-start
// path, in execution order.
func turns(path []*Node) []*Node {
	out := []*Node{path[len(path)-1]}
	for i := len(path) - 2; i >= 0; i-- {
		if path[i].EndOfTurn {
			out = append(out, path[i])
		}
	}
	return out
}

func (m *Map) validate(agents []Agent) error {
	if len(agents) == 0 {
		return fmt.Errorf("%w: no agents", ErrInvalidAgent)
	}
	byID := make(map[int]Agent, len(agents))
	for _, a := range agents {
		switch {
		case a.ID < 0:
			return fmt.Errorf("%w: negative id %d", ErrInvalidAgent, a.ID)
		case a.Speed < 1:
			return fmt.Errorf("%w: agent %d has speed %d", ErrInvalidAgent, a.ID, a.Speed)
		case !m.matrix.IsPassable(a.Start):
			return fmt.Errorf("%w: agent %d starts on impassable %v", ErrInvalidAgent, a.ID, a.Start)
		case !m.matrix.IsPassable(a.Goal):
			return fmt.Errorf("%w: agent %d targets impassable %v", ErrInvalidAgent, a.ID, a.Goal)
		case a.Pos != a.Start:
			return fmt.Errorf("%w: agent %d is not at its start", ErrInvalidAgent, a.ID)
		}
		if _, dup := byID[a.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidAgent, a.ID)
		}
		byID[a.ID] = a
	}

	for _, a := range agents {
		seen := map[int]bool{a.ID: true}
		for p := a.Predecessor; p != NoPredecessor; p = byID[p].Predecessor {
			if _, ok := byID[p]; !ok {
				return fmt.Errorf("%w: agent %d waits for unknown agent %d", ErrInvalidAgent, a.ID, p)
			}
			if seen[p] {
				return fmt.Errorf("%w: agent %d is in a predecessor cycle", ErrInvalidAgent, a.ID)
			}
			seen[p] = true
		}
	}
	return nil
}
