// Package dataset renders the synthetic mixture dataset: random sine, square
// and saw waves aligned to a fixed clip length, sliding-window mixtures of
// them, white and brown noise variants, and per-mixture feature summaries.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/cwbudde/algo-synth/dsp/dither"
	"github.com/cwbudde/algo-synth/dsp/pad"
	"github.com/cwbudde/algo-synth/internal/config"
	"github.com/cwbudde/algo-synth/internal/wavio"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Output directories below the dataset root.
const (
	WavesDir       = "waves"
	MixturesDir    = "mixtures"
	WhiteDir       = "mix_white"
	BrownDir       = "mix_brownian"
	FeaturesDir    = "features"
	featureSuffix  = ".yaml"
	waveFileSuffix = ".wav"
)

// PCG stream selectors. Set RNGs use the set index as stream.
const (
	noiseStream  uint64 = 1 << 40
	ditherSalt   uint64 = 0x9e3779b97f4a7c15
	whiteOffset         = 0
	brownOffset         = 1
	streamsPerMx        = 2
)

// ErrNilConfig is returned by NewBuilder without a configuration.
var ErrNilConfig = errors.New("dataset: nil config")

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets the logger used for progress reports.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Builder) error {
		if l == nil {
			return errors.New("dataset: nil logger")
		}
		b.log = l

		return nil
	}
}

// Builder generates a dataset from a validated configuration.
type Builder struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	aligner  *pad.Aligner
	side     pad.Side
	maxFreq  float64
	dither   dither.DitherType
	analyzer *Analyzer
}

// NewBuilder validates cfg and prepares the aligner and feature analyzer.
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{cfg: cfg, log: logrus.StandardLogger(), maxFreq: cfg.MaxFrequency()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	var err error
	if b.aligner, err = pad.NewAligner(float64(cfg.SampleRate), cfg.Duration); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if b.side, err = cfg.OddSide(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if b.dither, err = cfg.DitherType(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if b.analyzer, err = NewAnalyzer(cfg.SampleRate, cfg.Features); err != nil {
		return nil, err
	}

	return b, nil
}

// ClipLength returns the aligned length of every wave and mixture.
func (b *Builder) ClipLength() int { return b.aligner.TargetLength() }

// Analyzer returns the feature analyzer.
func (b *Builder) Analyzer() *Analyzer { return b.analyzer }

// Build generates every set, writes the requested files and returns the
// manifest, which is also stored as ManifestFile.
//
// Sets are generated in batches of cfg.Workers goroutines and consumed in
// index order, so only one batch and the open mixtures are held in memory
// and the output does not depend on scheduling.
func (b *Builder) Build(ctx context.Context) (*Manifest, error) {
	if err := b.makeDirs(); err != nil {
		return nil, err
	}

	count := b.cfg.Waves.Count
	man := &Manifest{
		Config:   b.cfg,
		Samples:  b.ClipLength(),
		Sets:     make([]SetRecord, 0, count),
		Mixtures: make([]MixtureRecord, 0, b.cfg.Mixtures.Count),
	}
	mixes := newMixer(b.cfg.Mixtures, b.ClipLength())

	workers := b.cfg.Workers
	for start := 0; start < count; start += workers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := b.generateBatch(ctx, start, min(workers, count-start))
		if err != nil {
			return nil, err
		}

		for _, set := range batch {
			rec, err := b.saveSet(set)
			if err != nil {
				return nil, err
			}
			man.Sets = append(man.Sets, rec)

			done, err := mixes.add(set)
			if err != nil {
				return nil, err
			}
			for _, m := range done {
				mr, err := b.finishMixture(ctx, m.index, m.bus.Samples())
				mixes.release(m)
				if err != nil {
					return nil, err
				}
				man.Mixtures = append(man.Mixtures, mr)
			}
		}

		b.log.WithFields(logrus.Fields{
			"generated": start + len(batch),
			"total":     count,
			"mixtures":  len(man.Mixtures),
		}).Info("Waves generated")
	}

	if err := man.WriteFile(filepath.Join(b.cfg.OutputDir, ManifestFile)); err != nil {
		return nil, err
	}

	b.log.WithFields(logrus.Fields{
		"output":   b.cfg.OutputDir,
		"sets":     len(man.Sets),
		"mixtures": len(man.Mixtures),
	}).Info("Dataset complete")

	return man, nil
}

func (b *Builder) generateBatch(ctx context.Context, start, n int) ([]Set, error) {
	batch := make([]Set, n)
	g, gctx := errgroup.WithContext(ctx)
	for j := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := b.GenerateSet(start + j)
			if err != nil {
				return err
			}
			batch[j] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}

func (b *Builder) makeDirs() error {
	dirs := []string{MixturesDir, WhiteDir, BrownDir, FeaturesDir}
	for _, k := range Kinds {
		dirs = append(dirs, path.Join(WavesDir, k.String()))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(b.cfg.OutputDir, filepath.FromSlash(d)), 0o755); err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
	}
	return nil
}

// saveSet writes the waves of the first SavedWaves sets.
func (b *Builder) saveSet(set Set) (SetRecord, error) {
	rec := SetRecord{Index: set.Index, Waves: make([]WaveRecord, len(Kinds))}
	save := set.Index < b.cfg.SavedWaves()

	for i, kind := range Kinds {
		rec.Waves[i].WaveParams = set.Params[i]
		if !save {
			continue
		}

		rel := path.Join(WavesDir, kind.String(), fileName(set.Index, waveFileSuffix))
		clipped, err := b.writeWav(rel, set.Waves[i])
		if err != nil {
			return SetRecord{}, err
		}
		rec.Waves[i].File = rel
		rec.Waves[i].Clipped = clipped

		if clipped > 0 {
			b.log.WithFields(logrus.Fields{
				"kind":    kind.String(),
				"index":   set.Index,
				"clipped": clipped,
			}).Debug("Wave clipped on write")
		}
	}

	return rec, nil
}

// writeWav writes x to the slash-separated path rel below the output
// directory. The dither source is derived from the seed and rel.
func (b *Builder) writeWav(rel string, x []float64) (int, error) {
	h := fnv.New64a()
	h.Write([]byte(rel))

	return wavio.WriteFile(filepath.Join(b.cfg.OutputDir, filepath.FromSlash(rel)), x, b.cfg.SampleRate, wavio.WriteOptions{
		BitDepth: b.cfg.BitDepth,
		Dither:   b.dither,
		RNG:      rand.New(rand.NewPCG(b.cfg.Seed^ditherSalt, h.Sum64())),
		Float:    b.cfg.FloatSamples(),
	})
}

// fileName returns the 1-based file name of item index.
func fileName(index int, suffix string) string {
	return strconv.Itoa(index+1) + suffix
}
