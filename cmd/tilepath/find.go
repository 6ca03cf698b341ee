package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	astar "github.com/pdrpinto/go-astar"
	"github.com/pdrpinto/go-astar/config"
	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/internal/timing"
)

var errBudget = errors.New("iteration budget exhausted before the search ended")

// gridSearch is what find and jump need from either grid map.
type gridSearch interface {
	astar.Map[grid.Coord, float64]
	Node(c grid.Coord) *grid.Node[float64]
	String() string
}

type findFlags struct {
	matrix     string
	from, to   string
	heuristic  string
	noDiagonal bool
}

func newFindCmd(a *app, jump bool) *cobra.Command {
	f := &findFlags{}
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find the cheapest path between two cells with A*",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFind(cmd, f, jump)
		},
	}
	if jump {
		cmd.Use = "jump"
		cmd.Short = "Find the cheapest path with jump point search on a uniform cost matrix"
	}

	cmd.Flags().StringVar(&f.matrix, "matrix", "", "Weight matrix file (CSV, negative weights are walls)")
	cmd.Flags().StringVar(&f.from, "from", "", "Start cell as x,y")
	cmd.Flags().StringVar(&f.to, "to", "", "Goal cell as x,y")
	cmd.Flags().StringVar(&f.heuristic, "heuristic", "", "diagonal, manhattan or euclidean (default from config)")
	if !jump {
		cmd.Flags().BoolVar(&f.noDiagonal, "no-diagonal", false, "Only move between edge adjacent cells")
	}
	for _, name := range []string{"matrix", "from", "to"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) runFind(cmd *cobra.Command, f *findFlags, jump bool) error {
	from, err := parseCoord(f.from)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseCoord(f.to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	name := f.heuristic
	if name == "" {
		name = a.cfg.Heuristic
	}
	h, err := heuristic(name)
	if err != nil {
		return err
	}

	log := a.log.WithField("matrix", f.matrix)
	vm := grid.LoadMatrix[float64](f.matrix, log)
	if vm.Empty() {
		return fmt.Errorf("matrix %s is missing, empty or malformed", f.matrix)
	}
	for _, c := range []grid.Coord{from, to} {
		if !vm.IsPassable(c) {
			return fmt.Errorf("cell %v is off the map or a wall", c)
		}
	}

	opts := []grid.Option{
		grid.WithDiagonal(a.cfg.Diagonal && !f.noDiagonal),
		grid.WithLogger(log),
	}
	if a.cfg.BucketWidth > 0 {
		opts = append(opts, grid.WithBucketWidth(a.cfg.BucketWidth))
	}

	var m gridSearch
	op := "grid.Search"
	if jump {
		jm, err := grid.NewJumpPointMap(vm, opts...)
		if err != nil {
			return err
		}
		jm.SetGoal(to)
		m, op = jm, "grid.JumpPointSearch"
	} else {
		m = grid.New(vm, opts...)
	}

	t := timing.Start(cmd.Context(), log, op)
	stepper := astar.NewStepper[grid.Coord, float64](m, from, to, h, astar.WithMaxIterations(a.cfg.MaxIterations))
	path, ok := stepper.Run()
	elapsed := t.End()
	if !ok {
		return errBudget
	}

	log.WithFields(logrus.Fields{
		"from":       from,
		"to":         to,
		"heuristic":  name,
		"expansions": stepper.Steps(),
		"elapsed":    elapsed,
	}).Info("search finished")
	return printPath(cmd.OutOrStdout(), m, path, to)
}

func printPath(w io.Writer, m gridSearch, path []grid.Coord, goal grid.Coord) error {
	if len(path) == 0 {
		fmt.Fprintln(w, "no path")
	} else {
		cells := make([]string, 0, len(path))
		for _, c := range astar.Reverse(path) {
			cells = append(cells, c.String())
		}
		fmt.Fprintf(w, "path: %s\n", strings.Join(cells, " "))
		fmt.Fprintf(w, "cost: %s\n", strconv.FormatFloat(m.Node(goal).G, 'g', 6, 64))
	}
	_, err := fmt.Fprint(w, m.String())
	return err
}

func heuristic(name string) (func(grid.Coord, grid.Coord) float64, error) {
	switch name {
	case config.HeuristicDiagonal:
		return grid.DiagonalDistance[float64], nil
	case config.HeuristicManhattan:
		return grid.ManhattanDistance[float64], nil
	case config.HeuristicEuclidean:
		return grid.EuclideanDistance[float64], nil
	}
	return nil, fmt.Errorf("unknown heuristic %q", name)
}

// parseCoord reads a cell written as "x,y".
func parseCoord(s string) (grid.Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Coord{}, fmt.Errorf("cell %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("cell %q: %w", s, err)
	}
	return grid.Coord{X: x, Y: y}, nil
}
