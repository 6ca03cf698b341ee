package multiagent_test

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/multiagent"
)

func quiet() multiagent.Option {
	logger, _ := test.NewNullLogger()
	return multiagent.WithLogger(logrus.NewEntry(logger))
}

func at(x, y int) grid.Coord { return grid.Coord{X: x, Y: y} }

func TestEdgesFromStart(t *testing.T) {
	m := multiagent.New(grid.Uniform(2, 2, 1), quiet())
	start := multiagent.NewStart(
		multiagent.NewAgent(0, at(0, 0), at(1, 0), 1),
		multiagent.NewAgent(1, at(0, 0), at(1, 0), 1),
	)
	m.OpenNode(start, 0, m.HeuristicRRA(start, multiagent.Goal()), start)

	edges := m.Edges(start)
	require.Len(t, edges, multiagent.DefaultBatchSize)
	assert.Equal(t, "[A0|(0,0)->(1,0)]<>{B0|(0,0)}", edges[0].To.String())
	assert.Equal(t, "[A0|(0,0)->(0,0)]<>{B0|(0,0)}", edges[1].To.String())
	assert.Equal(t, 1, edges[0].Cost)
	assert.Len(t, start.ExpansionList, 1)
}

func TestEdgesRequeueUntilExhausted(t *testing.T) {
	m := multiagent.New(grid.Uniform(3, 3, 1), quiet(), multiagent.WithBatchSize(1))
	start := multiagent.NewStart(multiagent.NewAgent(0, at(1, 1), at(2, 2), 1))
	m.OpenNode(start, 0, 0, start)

	var children []string
	for m.OpenNodeAvailable() {
		n := m.TakeOutTopNode()
		require.Same(t, start, n)
		for _, e := range m.Edges(n) {
			children = append(children, e.To.Annotation())
		}
	}
	// four steps and standing still, one per expansion
	assert.Len(t, children, 5)
	assert.Equal(t, 5, m.Stats.Closed)
	assert.Equal(t, 1, m.Stats.Opened)
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name      string
		vm        grid.VertexMatrix[int]
		agents    []multiagent.Agent
		wantTurns int
		wantCost  int
	}{
		{
			name: "2x1 two agents one by one",
			vm:   grid.Uniform(2, 1, 1),
			agents: []multiagent.Agent{
				multiagent.NewAgent(0, at(0, 0), at(1, 0), 1),
				multiagent.NewAgent(1, at(0, 0), at(1, 0), 1),
			},
			wantTurns: 3,
			wantCost:  3,
		},
		{
			name: "2x1 chain waits for slower predecessor",
			vm:   grid.Uniform(2, 1, 1),
			agents: []multiagent.Agent{
				multiagent.NewAgent(0, at(0, 0), at(1, 0), 1).After(1),
				multiagent.NewAgent(1, at(0, 0), at(1, 0), 2),
			},
			wantTurns: 4,
			wantCost:  5,
		},
		{
			name: "2x2 two agents same goal",
			vm:   grid.Uniform(2, 2, 1),
			agents: []multiagent.Agent{
				multiagent.NewAgent(0, at(0, 0), at(1, 1), 1),
				multiagent.NewAgent(1, at(0, 0), at(1, 1), 1),
			},
			wantTurns: 4,
			wantCost:  5,
		},
		{
			name: "2x2 three agents crossing",
			vm:   grid.Uniform(2, 2, 1),
			agents: []multiagent.Agent{
				multiagent.NewAgent(0, at(0, 0), at(1, 1), 1),
				multiagent.NewAgent(1, at(0, 0), at(1, 1), 1),
				multiagent.NewAgent(2, at(1, 1), at(0, 0), 1),
			},
			wantTurns: 4,
			wantCost:  7,
		},
		{
			name:      "10x10 single agent",
			vm:        grid.Uniform(10, 10, 1),
			agents:    []multiagent.Agent{multiagent.NewAgent(0, at(0, 0), at(9, 9), 1)},
			wantTurns: 19,
			wantCost:  18,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := multiagent.New(tt.vm, quiet())
			plan, err := m.Plan(context.Background(), tt.agents...)
			require.NoError(t, err)

			assert.Len(t, plan.Turns, tt.wantTurns)
			assert.Equal(t, tt.wantCost, plan.Cost)
			assert.Equal(t, m.Stats, plan.Stats)
			assert.True(t, plan.Turns[len(plan.Turns)-1].Equal(multiagent.Goal()))
			assertSafe(t, m.Nodes())
			assertTrajectories(t, plan, tt.agents)
		})
	}
}

// assertSafe checks every node the search indexed: no two agents end a
// turn in the same cell unless both wait at their own start, no two agents
// swap cells, and parent links lead back to the start.
func assertSafe(t *testing.T, nodes []*multiagent.Node) {
	t.Helper()
	for _, n := range nodes {
		moves := n.Planned
		if n.EndOfTurn {
			moves = n.Committed
		}
		for i, a := range moves {
			for _, b := range moves[i+1:] {
				waiting := a.Stays() && b.Stays() && a.To == a.Agent.Start && b.To == b.Agent.Start
				if a.To == b.To {
					assert.True(t, waiting, "shared cell in %s", n.Annotation())
				}
				if a.To != b.To && a.Agent.Pos == b.To && b.Agent.Pos == a.To {
					t.Errorf("swap in %s", n.Annotation())
				}
			}
		}

		p := n
		for steps := 0; p.Parent != p; steps++ {
			require.LessOrEqual(t, steps, len(nodes), "parent cycle above %s", n)
			p = p.Parent
		}
	}
}

func assertTrajectories(t *testing.T, plan multiagent.Plan, agents []multiagent.Agent) {
	t.Helper()
	trajectories := plan.Trajectories()
	require.Len(t, trajectories, len(agents))
	for _, a := range agents {
		cells := trajectories[a.ID]
		require.NotEmpty(t, cells)
		assert.Equal(t, a.Start, cells[0])
		assert.Equal(t, a.Goal, cells[len(cells)-1])
		for i := 1; i < len(cells); i++ {
			assert.LessOrEqual(t, grid.ManhattanDistance[int](cells[i-1], cells[i]), 1)
		}
	}
}

func TestPlanAroundWalls(t *testing.T) {
	vm, err := grid.ReadMatrix[int](strings.NewReader(`
1,1,1,1
-1,-1,1,-1
1,1,1,1
`))
	require.NoError(t, err)

	m := multiagent.New(vm, quiet())
	agents := []multiagent.Agent{
		multiagent.NewAgent(0, at(0, 0), at(0, 2), 1),
		multiagent.NewAgent(1, at(0, 2), at(0, 0), 1),
	}
	plan, err := m.Plan(context.Background(), agents...)
	require.NoError(t, err)
	assertSafe(t, m.Nodes())
	assertTrajectories(t, plan, agents)
	for _, cells := range plan.Trajectories() {
		for _, c := range cells {
			assert.True(t, vm.IsPassable(c), c)
		}
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	vm, err := grid.ReadMatrix[int](strings.NewReader("1,-1,1\n"))
	require.NoError(t, err)

	slow := multiagent.NewAgent(0, at(0, 0), at(0, 0), 1)
	slow.Speed = 0

	tests := []struct {
		name   string
		agents []multiagent.Agent
		want   error
	}{
		{"no agents", nil, multiagent.ErrInvalidAgent},
		{"zero speed", []multiagent.Agent{slow}, multiagent.ErrInvalidAgent},
		{"start on wall", []multiagent.Agent{multiagent.NewAgent(0, at(1, 0), at(0, 0), 1)}, multiagent.ErrInvalidAgent},
		{"goal off grid", []multiagent.Agent{multiagent.NewAgent(0, at(0, 0), at(5, 0), 1)}, multiagent.ErrInvalidAgent},
		{"duplicate id", []multiagent.Agent{
			multiagent.NewAgent(0, at(0, 0), at(0, 0), 1),
			multiagent.NewAgent(0, at(2, 0), at(2, 0), 1),
		}, multiagent.ErrInvalidAgent},
		{"unknown predecessor", []multiagent.Agent{multiagent.NewAgent(0, at(0, 0), at(0, 0), 1).After(7)}, multiagent.ErrInvalidAgent},
		{"predecessor cycle", []multiagent.Agent{
			multiagent.NewAgent(0, at(0, 0), at(0, 0), 1).After(1),
			multiagent.NewAgent(1, at(2, 0), at(2, 0), 1).After(0),
		}, multiagent.ErrInvalidAgent},
		{"walled off", []multiagent.Agent{multiagent.NewAgent(0, at(0, 0), at(2, 0), 1)}, multiagent.ErrUnreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := multiagent.New(vm, quiet()).Plan(context.Background(), tt.agents...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPlanBudget(t *testing.T) {
	m := multiagent.New(grid.Uniform(2, 2, 1), quiet(), multiagent.WithMaxExpansions(1))
	_, err := m.Plan(context.Background(),
		multiagent.NewAgent(0, at(0, 0), at(1, 1), 1),
		multiagent.NewAgent(1, at(0, 0), at(1, 1), 1),
	)
	assert.ErrorIs(t, err, multiagent.ErrBudgetExhausted)
	assert.Equal(t, 1, m.Stats.Closed)
}

func TestPlanHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := multiagent.New(grid.Uniform(2, 2, 1), quiet())
	_, err := m.Plan(ctx, multiagent.NewAgent(0, at(0, 0), at(1, 1), 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeuristics(t *testing.T) {
	vm, err := grid.ReadMatrix[int](strings.NewReader(`
1,-1,1
1,-1,1
1,1,1
`))
	require.NoError(t, err)
	m := multiagent.New(vm, quiet())
	n := multiagent.NewStart(
		multiagent.NewAgent(0, at(0, 0), at(2, 0), 2),
		multiagent.NewAgent(1, at(2, 2), at(2, 2), 1),
	)

	assert.Equal(t, 12, m.HeuristicRRA(n, nil))
	assert.Equal(t, 4, m.HeuristicManhattan(n, nil))

	weighted := multiagent.New(vm, quiet(), multiagent.WithWeight(1.5))
	assert.Equal(t, 18, weighted.HeuristicRRA(n, nil))
}

func TestPlanIsRepeatable(t *testing.T) {
	m := multiagent.New(grid.Uniform(3, 3, 1), quiet())
	agents := []multiagent.Agent{
		multiagent.NewAgent(0, at(0, 0), at(2, 2), 1),
		multiagent.NewAgent(1, at(2, 2), at(0, 0), 1),
	}
	first, err := m.Plan(context.Background(), agents...)
	require.NoError(t, err)
	second, err := m.Plan(context.Background(), agents...)
	require.NoError(t, err)

	assert.Equal(t, first.Cost, second.Cost)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Len(t, second.Turns, len(first.Turns))
}

func TestPlanIsOptimalAtUnitSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cell := func(w, h int) grid.Coord { return at(rng.Intn(w), rng.Intn(h)) }

	for i := 0; i < 60; i++ {
		w, h := 2+rng.Intn(2), 2+rng.Intn(2)
		agents := make([]multiagent.Agent, 2+rng.Intn(2))
		for id := range agents {
			agents[id] = multiagent.NewAgent(id, cell(w, h), cell(w, h), 1)
		}
		t.Run(fmt.Sprintf("%dx%d_%d", w, h, i), func(t *testing.T) {
			vm := grid.Uniform(w, h, 1)
			got, err := multiagent.New(vm, quiet()).Plan(context.Background(), agents...)
			best, bestErr := multiagent.New(vm, quiet(), multiagent.WithHeuristic(multiagent.ZeroHeuristic)).
				Plan(context.Background(), agents...)

			require.Equal(t, bestErr, err)
			assert.Equal(t, best.Cost, got.Cost)
		})
	}
}

func TestHeuristicOption(t *testing.T) {
	agents := []multiagent.Agent{
		multiagent.NewAgent(0, at(0, 0), at(1, 1), 1),
		multiagent.NewAgent(1, at(0, 0), at(1, 1), 1),
	}
	for _, k := range []multiagent.HeuristicKind{
		multiagent.RRAHeuristic,
		multiagent.ManhattanHeuristic,
		multiagent.ZeroHeuristic,
	} {
		m := multiagent.New(grid.Uniform(2, 2, 1), quiet(), multiagent.WithHeuristic(k))
		plan, err := m.Plan(context.Background(), agents...)
		require.NoError(t, err)
		assert.Equal(t, 5, plan.Cost, k)
	}

	m := multiagent.New(grid.Uniform(2, 2, 1), quiet())
	assert.Zero(t, m.HeuristicZero(multiagent.NewStart(agents...), nil))
}
