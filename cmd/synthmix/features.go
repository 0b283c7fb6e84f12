package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-synth/internal/config"
	"github.com/cwbudde/algo-synth/internal/dataset"
	"github.com/cwbudde/algo-synth/internal/wavio"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newFeaturesCmd(a *app, def *config.Config) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "features file.wav",
		Short: "Summarize the level, spectral shape and mel bands of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFeatures(cmd, args[0], out)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "", "write YAML to this file instead of stdout")
	f.Int("n-fft", def.Features.NFFT, "FFT size")
	f.Int("hop-length", def.Features.HopLength, "hop between frames (0 for n_fft/2)")
	f.Int("win-length", def.Features.WinLength, "window length (0 for n_fft)")
	f.Int("n-mels", def.Features.NMels, "mel bands")
	f.Float64("power", def.Features.Power, "magnitude exponent (1 amplitude, 2 power)")
	f.Bool("pcen", def.Features.PCEN.Enabled, "add a PCEN summary")

	return cmd
}

func (a *app) runFeatures(cmd *cobra.Command, path, out string) error {
	clip, err := wavio.ReadFile(path)
	if err != nil {
		return err
	}

	an, err := dataset.NewAnalyzer(clip.SampleRate, a.cfg.Features)
	if err != nil {
		return err
	}

	feats, err := an.Analyze(clip.Samples)
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"file":        path,
		"sample_rate": clip.SampleRate,
		"seconds":     clip.Duration(),
		"frames":      feats.Mel.Frames,
	}).Debug("Features computed")

	data, err := yaml.Marshal(feats)
	if err != nil {
		return fmt.Errorf("features: encode: %w", err)
	}

	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
