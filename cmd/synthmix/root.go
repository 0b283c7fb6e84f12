package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-synth/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	configFile string
	cfg        *config.Config
	log        *logrus.Logger
}

// flagKeys maps flag names onto configuration keys.
var flagKeys = map[string]string{
	"verbose":     "verbose",
	"log-level":   "log_level",
	"log-format":  "log_format",
	"sample-rate": "sample_rate",
	"duration":    "duration",
	"output-dir":  "output_dir",
	"seed":        "seed",
	"workers":     "workers",
	"format":      "sample_format",
	"bit-depth":   "bit_depth",
	"dither":      "dither",
	"count":       "waves.count",
	"save-count":  "waves.save_count",
	"odd-padding": "waves.odd_padding",
	"mixtures":    "mixtures.count",
	"n-fft":       "features.n_fft",
	"hop-length":  "features.hop_length",
	"win-length":  "features.win_length",
	"n-mels":      "features.n_mels",
	"power":       "features.power",
	"pcen":        "features.pcen.enabled",
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.StandardLogger()}
	def := config.Default()

	rootCmd := &cobra.Command{
		Use:   "synthmix",
		Short: "Synthetic waveform mixtures and spectral features",
		Long: `synthmix renders random sine, square and sawtooth waves, aligns them to a
fixed clip length, sums them into sliding-window mixtures with white and
brown noise variants, and summarizes log-mel and PCEN features.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initializeConfig(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "",
		"config file (default is ./synthmix.yaml or $HOME/.config/synthmix/synthmix.yaml)")
	pf.BoolP("verbose", "v", def.Verbose, "verbose output")
	pf.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", def.LogFormat, "log format (text, json)")
	pf.Int("sample-rate", def.SampleRate, "sample rate in Hz")
	pf.String("format", def.Format, "WAV sample format (float, pcm)")
	pf.Int("bit-depth", def.BitDepth, "PCM bit depth (16, 24, 32)")
	pf.String("dither", def.Dither, "dither before quantization (none, rectangular, triangular, gaussian)")

	rootCmd.AddCommand(
		newGenerateCmd(a, def),
		newToneCmd(a),
		newWavetableCmd(a),
		newFeaturesCmd(a, def),
		newConfigCmd(a),
	)

	return rootCmd
}

// initializeConfig loads the configuration after flags are parsed
func (a *app) initializeConfig(cmd *cobra.Command) error {
	v, err := config.NewViper(a.configFile, searchPaths()...)
	if err != nil {
		return err
	}

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := setupLogging(a.log, cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	if used := v.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("Using config file")
	}

	return nil
}

// bindFlags binds each known cobra flag to its configuration key
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

func searchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "synthmix"))
	}
	return append(paths, "/etc/synthmix")
}

func setupLogging(log *logrus.Logger, cfg *config.Config, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if cfg.Verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log_format must be text or json: %q", cfg.LogFormat)
	}
	log.SetOutput(out)

	return nil
}
