package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdrpinto/go-astar/config"
)

// app carries the state every subcommand shares once the root command has
// loaded the configuration.
type app struct {
	configFile string
	logLevel   string

	cfg config.Config
	log *logrus.Entry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "tilepath",
		Short: "Path finding on tile grids",
		Long: `tilepath runs A* and jump point search on weight matrix files,
plans collision free moves for teams of agents and generates noise
terrain matrices.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides the config file)")

	cmd.AddCommand(
		newFindCmd(a, false),
		newFindCmd(a, true),
		newPlanCmd(a),
		newGenerateCmd(a),
	)
	return cmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return newRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.cfg = config.Default()
	if a.configFile != "" {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(a.cfg.Level())
	a.log = logger.WithFields(logrus.Fields{
		"component": "tilepath",
		"run_id":    uuid.NewString(),
	})
	return nil
}
