package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-synth/internal/config"
	"github.com/cwbudde/algo-synth/internal/dataset"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app, def *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the synthetic mixture dataset",
		Long: `Generate waves.count sets of random sine, square and saw waves, align them to
the clip duration, sum them into sliding-window mixtures, add white and brown
noise variants and write WAV files, feature summaries and a manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd)
		},
	}

	f := cmd.Flags()
	f.Float64("duration", def.Duration, "clip duration in seconds")
	f.StringP("output-dir", "o", def.OutputDir, "dataset root directory")
	f.Uint64("seed", def.Seed, "random seed")
	f.IntP("workers", "j", def.Workers, "parallel wave generators")
	f.IntP("count", "n", def.Waves.Count, "number of wave sets")
	f.Int("save-count", def.Waves.SaveCount, "waves per kind written to disk (-1 for all)")
	f.String("odd-padding", def.Waves.OddPadding, "side that takes an odd padding deficit (back, front)")
	f.Int("mixtures", def.Mixtures.Count, "number of mixtures")
	f.Bool("pcen", def.Features.PCEN.Enabled, "add PCEN summaries to the features")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	b, err := dataset.NewBuilder(a.cfg, dataset.WithLogger(a.log))
	if err != nil {
		return err
	}

	man, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d sets, %d mixtures of %d samples written to %s\n",
		len(man.Sets), len(man.Mixtures), man.Samples, a.cfg.OutputDir)

	return nil
}
