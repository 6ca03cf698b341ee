package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/go-astar/terrain"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		cfg terrain.Config
		out string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a noise terrain matrix",
		Long: `generate writes a weight matrix built from simplex noise. Flags not
given fall back to the terrain section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			merged := a.cfg.Terrain
			if flags.Changed("width") {
				merged.Width = cfg.Width
			}
			if flags.Changed("height") {
				merged.Height = cfg.Height
			}
			if flags.Changed("seed") {
				merged.Seed = cfg.Seed
			}
			if flags.Changed("scale") {
				merged.Scale = cfg.Scale
			}
			if flags.Changed("wall-level") {
				merged.WallLevel = cfg.WallLevel
			}
			if flags.Changed("max-weight") {
				merged.MaxWeight = cfg.MaxWeight
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := terrain.Write(w, merged); err != nil {
				return err
			}
			a.log.WithField("terrain", merged).Info("terrain generated")
			return nil
		},
	}

	d := terrain.DefaultConfig()
	cmd.Flags().IntVar(&cfg.Width, "width", d.Width, "Matrix width")
	cmd.Flags().IntVar(&cfg.Height, "height", d.Height, "Matrix height")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", d.Seed, "Noise seed")
	cmd.Flags().Float64Var(&cfg.Scale, "scale", d.Scale, "Noise frequency per cell")
	cmd.Flags().Float64Var(&cfg.WallLevel, "wall-level", d.WallLevel, "Noise level below which a cell is a wall, in [0,1]")
	cmd.Flags().IntVar(&cfg.MaxWeight, "max-weight", d.MaxWeight, "Highest cell weight")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
