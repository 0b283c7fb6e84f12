package main

import (
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/wavetable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type wavetableOptions struct {
	basis       string
	tableLength int
	freq        float64
	gainDB      float64
	duration    float64
	fade        int
	interp      string
	align       bool
	out         string
}

func newWavetableCmd(a *app) *cobra.Command {
	var opts wavetableOptions

	cmd := &cobra.Command{
		Use:   "wavetable",
		Short: "Render a wavetable oscillator",
		Long: `Sample one period of a basis function into a table and play it back at the
requested frequency with linear or cubic interpolation, fades and gain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWavetable(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.basis, "basis", "b", "sine", "basis function (sine, sawtooth, square, triangle)")
	f.IntVar(&opts.tableLength, "table-length", wavetable.DefaultLength, "table length in samples")
	f.Float64VarP(&opts.freq, "freq", "f", 220, "frequency in Hz")
	f.Float64VarP(&opts.gainDB, "gain-db", "g", 0, "gain in dB")
	f.Float64VarP(&opts.duration, "length", "l", 2, "length in seconds")
	f.IntVar(&opts.fade, "fade", wavetable.DefaultFadeLength, "fade-in and fade-out length in samples")
	f.StringVar(&opts.interp, "interp", interp.ModeLinear.String(), "table interpolation (linear, cubic)")
	f.BoolVar(&opts.align, "align", false, "pad to the configured clip duration")
	f.StringVar(&opts.out, "out", "wavetable.wav", "output WAV file")

	return cmd
}

func (a *app) runWavetable(cmd *cobra.Command, opts wavetableOptions) error {
	fn, err := wavetable.Basis(opts.basis)
	if err != nil {
		return err
	}

	mode, err := interp.ParseMode(opts.interp)
	if err != nil {
		return err
	}

	table, err := wavetable.NewTable(fn, opts.tableLength)
	if err != nil {
		return err
	}

	osc, err := wavetable.NewOscillator(table,
		wavetable.WithFadeLength(opts.fade),
		wavetable.WithGainDB(opts.gainDB),
		wavetable.WithInterpolation(mode),
	)
	if err != nil {
		return err
	}

	x, err := osc.SynthesizeDuration(opts.freq, float64(a.cfg.SampleRate), opts.duration)
	if err != nil {
		return err
	}

	if opts.align {
		if x, err = alignToClip(a.cfg, x); err != nil {
			return err
		}
	}

	return a.writeRendered(cmd, opts.out, x, logrus.Fields{
		"basis":  opts.basis,
		"freq":   opts.freq,
		"interp": mode.String(),
	})
}
