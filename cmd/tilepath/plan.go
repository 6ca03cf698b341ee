package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/go-astar/config"
	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/multiagent"
)

func newPlanCmd(a *app) *cobra.Command {
	var scenario string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan collision free moves for a team of agents",
		Long: `plan reads a scenario file naming a weight matrix and a team of
agents, and prints the moves of every turn until each agent has reached
its goal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.LoadScenario(scenario)
			if err != nil {
				return err
			}
			log := a.log.WithField("scenario", scenario)

			vm := grid.LoadMatrix[int](s.Matrix, log)
			if vm.Empty() {
				return fmt.Errorf("matrix %s is missing, empty or malformed", s.Matrix)
			}
			opts := append(s.Options(), multiagent.WithLogger(log))
			if a.cfg.BucketWidth > 0 {
				opts = append(opts, multiagent.WithBucketWidth(a.cfg.BucketWidth))
			}
			if a.cfg.MaxIterations > 0 && s.MaxExpansions == 0 {
				opts = append(opts, multiagent.WithMaxExpansions(a.cfg.MaxIterations))
			}

			plan, err := multiagent.New(vm, opts...).Plan(cmd.Context(), s.Team()...)
			if err != nil {
				return err
			}
			return printPlan(cmd.OutOrStdout(), plan)
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario file (YAML)")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func printPlan(w io.Writer, plan multiagent.Plan) error {
	for i, turn := range plan.Turns {
		fmt.Fprintf(w, "turn %d: %s\n", i, turn.Annotation())
	}
	fmt.Fprintf(w, "cost: %d\n", plan.Cost)

	trajectories := plan.Trajectories()
	ids := make([]int, 0, len(trajectories))
	for id := range trajectories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		cells := make([]string, len(trajectories[id]))
		for i, c := range trajectories[id] {
			cells[i] = c.String()
		}
		fmt.Fprintf(w, "agent %c: %s\n", rune('A'+id), strings.Join(cells, " "))
	}
	_, err := fmt.Fprint(w, plan.Stats.String())
	return err
}
