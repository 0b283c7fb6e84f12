package main

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/pad"
	"github.com/cwbudde/algo-synth/dsp/signal"
	"github.com/cwbudde/algo-synth/internal/config"
	"github.com/cwbudde/algo-synth/internal/wavio"
	timestats "github.com/cwbudde/algo-synth/stats/time"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type toneOptions struct {
	freq     float64
	gainDB   float64
	duration float64
	align    bool
	out      string
}

func newToneCmd(a *app) *cobra.Command {
	var opts toneOptions

	cmd := &cobra.Command{
		Use:   "tone sine|square|saw",
		Short: "Write a single closed-form waveform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTone(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&opts.freq, "freq", "f", 440, "frequency in Hz")
	f.Float64VarP(&opts.gainDB, "gain-db", "g", 0, "gain in dB")
	f.Float64VarP(&opts.duration, "length", "l", 2, "length in seconds")
	f.BoolVar(&opts.align, "align", false, "pad to the configured clip duration")
	f.StringVar(&opts.out, "out", "tone.wav", "output WAV file")

	return cmd
}

func (a *app) runTone(cmd *cobra.Command, name string, opts toneOptions) error {
	kind, err := signal.ParseKind(name)
	if err != nil {
		return err
	}

	gen, err := signal.NewWaveGenerator(opts.duration, float64(a.cfg.SampleRate))
	if err != nil {
		return err
	}

	x, err := gen.Wave(kind, opts.freq, opts.gainDB)
	if err != nil {
		return err
	}

	if opts.align {
		if x, err = alignToClip(a.cfg, x); err != nil {
			return err
		}
	}

	return a.writeRendered(cmd, opts.out, x, logrus.Fields{
		"kind": kind.String(),
		"freq": opts.freq,
	})
}

func alignToClip(cfg *config.Config, x []float64) ([]float64, error) {
	aligner, err := pad.NewAligner(float64(cfg.SampleRate), cfg.Duration)
	if err != nil {
		return nil, err
	}
	side, err := cfg.OddSide()
	if err != nil {
		return nil, err
	}
	return aligner.Align(x, side)
}

// writeRendered writes x in the configured sample format and logs
// its level.
func (a *app) writeRendered(cmd *cobra.Command, path string, x []float64, fields logrus.Fields) error {
	dt, err := a.cfg.DitherType()
	if err != nil {
		return err
	}

	clipped, err := wavio.WriteFile(path, x, a.cfg.SampleRate, wavio.WriteOptions{
		BitDepth: a.cfg.BitDepth,
		Dither:   dt,
		Float:    a.cfg.FloatSamples(),
	})
	if err != nil {
		return err
	}

	st := timestats.Calculate(x)
	fields["file"] = path
	fields["samples"] = st.Length
	fields["peak_db"] = st.PeakdB
	fields["rms_db"] = st.RMSdB
	fields["clipped"] = clipped
	a.log.WithFields(fields).Info("Signal written")

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d samples, peak %.2f dBFS, rms %.2f dBFS\n",
		path, st.Length, st.PeakdB, st.RMSdB)

	return nil
}
