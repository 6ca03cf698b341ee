package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	astar "github.com/pdrpinto/go-astar"
	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/terrain"
)

func TestRRASearch(t *testing.T) {
	rra := grid.NewRRA(grid.Uniform(10, 10, 1))
	goal := grid.Coord{X: 0, Y: 0}
	h := grid.ManhattanDistance[int]

	tests := []struct {
		node grid.Coord
		want int
	}{
		{grid.Coord{X: 5, Y: 5}, 10},
		{grid.Coord{X: 9, Y: 9}, 18},
		{grid.Coord{X: 2, Y: 2}, 4},
		{grid.Coord{X: 0, Y: 0}, 0},
	}
	for _, tt := range tests {
		got, ok := rra.Search(goal, tt.node, h)
		require.True(t, ok, tt.node)
		assert.Equal(t, tt.want, got, tt.node)
	}
	assert.Zero(t, rra.Stats(goal).Reopened)
}

func TestRRAAnswersFinalizedNodesWithoutSearching(t *testing.T) {
	rra := grid.NewRRA(grid.Uniform(10, 10, 1))
	goal := grid.Coord{X: 0, Y: 0}
	h := grid.ManhattanDistance[int]

	_, ok := rra.Search(goal, grid.Coord{X: 9, Y: 9}, h)
	require.True(t, ok)
	before := rra.Stats(goal)

	for _, c := range []grid.Coord{{X: 0, Y: 0}, {X: 9, Y: 9}} {
		_, ok := rra.Search(goal, c, h)
		require.True(t, ok)
	}

	assert.Equal(t, before, rra.Stats(goal))
}

func TestRRAKeepsOneSearchPerGoal(t *testing.T) {
	rra := grid.NewRRA(grid.Uniform(6, 6, 1.0), grid.WithRRADiagonal(true))
	h := grid.DiagonalDistance[float64]

	a, ok := rra.Search(grid.Coord{X: 0, Y: 0}, grid.Coord{X: 5, Y: 5}, h)
	require.True(t, ok)
	b, ok := rra.Search(grid.Coord{X: 5, Y: 0}, grid.Coord{X: 0, Y: 5}, h)
	require.True(t, ok)

	assert.InDelta(t, 5*1.4143, a, astar.Epsilon)
	assert.InDelta(t, a, b, astar.Epsilon)
	assert.Positive(t, rra.Stats(grid.Coord{X: 0, Y: 0}).Opened)
	assert.Positive(t, rra.Stats(grid.Coord{X: 5, Y: 0}).Opened)
	assert.Zero(t, rra.Stats(grid.Coord{X: 1, Y: 1}).Opened)
}

func TestRRAUnreachable(t *testing.T) {
	cells := []int{
		1, -1, 1,
		1, -1, 1,
	}
	vm, err := grid.NewVertexMatrix(3, 2, cells)
	require.NoError(t, err)
	rra := grid.NewRRA(vm)
	h := grid.ManhattanDistance[int]

	_, ok := rra.Search(grid.Coord{X: 0, Y: 0}, grid.Coord{X: 2, Y: 0}, h)
	assert.False(t, ok)
	_, ok = rra.Search(grid.Coord{X: 0, Y: 0}, grid.Coord{X: 1, Y: 0}, h)
	assert.False(t, ok)

	d, ok := rra.Search(grid.Coord{X: 0, Y: 0}, grid.Coord{X: 0, Y: 1}, h)
	assert.True(t, ok)
	assert.Equal(t, 1, d)
	_, ok = rra.Search(grid.Coord{X: 0, Y: 0}, grid.Coord{X: 2, Y: 1}, h)
	assert.False(t, ok)
}

func TestRRAMatchesDirectSearch(t *testing.T) {
	cfg := terrain.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Seed, cfg.MaxWeight = 16, 16, 7, 4
	vm, err := terrain.Generate[int](cfg)
	require.NoError(t, err)
	h := grid.ManhattanDistance[int]

	var goal grid.Coord
	for y := 0; y < vm.Height; y++ {
		for x := 0; x < vm.Width; x++ {
			if vm.IsPassable(grid.Coord{X: x, Y: y}) {
				goal = grid.Coord{X: x, Y: y}
			}
		}
	}
	rra := grid.NewRRA(vm)

	for y := vm.Height - 1; y >= 0; y-- {
		for x := 0; x < vm.Width; x++ {
			node := grid.Coord{X: x, Y: y}
			if !vm.IsPassable(node) {
				continue
			}
			got, ok := rra.Search(goal, node, h)

			direct := grid.New(vm, grid.WithDiagonal(false))
			path := direct.FindPath(goal, node, h)

			require.Equal(t, len(path) > 0, ok, node)
			if ok {
				assert.Equal(t, direct.CurrentCost(node), got, node)
			}
		}
	}
	assert.Zero(t, rra.Stats(goal).Reopened)
}

func TestRRACostRunsFromGoal(t *testing.T) {
	vm, err := grid.NewVertexMatrix(2, 1, []int{1, 5})
	require.NoError(t, err)
	h := grid.ManhattanDistance[int]
	goal, node := grid.Coord{X: 0, Y: 0}, grid.Coord{X: 1, Y: 0}

	got, ok := grid.NewRRA(vm).Search(goal, node, h)
	require.True(t, ok)

	fromGoal := grid.New(vm, grid.WithDiagonal(false))
	fromGoal.FindPath(goal, node, h)
	toGoal := grid.New(vm, grid.WithDiagonal(false))
	toGoal.FindPath(node, goal, h)

	assert.Equal(t, 5, got)
	assert.Equal(t, fromGoal.CurrentCost(node), got)
	assert.Equal(t, 1, toGoal.CurrentCost(goal))
}
