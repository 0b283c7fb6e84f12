package dataset

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path"
	"path/filepath"

	"github.com/cwbudde/algo-synth/dsp/buffer"
	"github.com/cwbudde/algo-synth/dsp/noise"
	"github.com/cwbudde/algo-synth/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Variant names of a rendered mixture.
const (
	VariantClean = "clean"
	VariantWhite = "white"
	VariantBrown = "brown"
)

// MixtureRange returns the sets [first, last] summed into mixture m.
func MixtureRange(mc config.MixturesConfig, m int) (first, last int) {
	first = m * mc.Step
	return first, first + mc.Window - 1
}

// mixturesOf returns the mixtures [lo, hi] that include set i. lo > hi
// when none does.
func mixturesOf(mc config.MixturesConfig, i int) (lo, hi int) {
	if mc.Count == 0 {
		return 0, -1
	}
	lo = 0
	if over := i - mc.Window + 1; over > 0 {
		lo = (over + mc.Step - 1) / mc.Step
	}
	hi = min(mc.Count-1, i/mc.Step)
	return lo, hi
}

type openMixture struct {
	index int
	bus   *buffer.Buffer
}

// mixer accumulates sets into the sliding mixture windows. Sets must be
// added in index order.
type mixer struct {
	cfg  config.MixturesConfig
	n    int
	pool *buffer.Pool
	open map[int]*buffer.Buffer
}

func newMixer(mc config.MixturesConfig, n int) *mixer {
	return &mixer{cfg: mc, n: n, pool: buffer.NewPool(), open: make(map[int]*buffer.Buffer)}
}

// add sums set into every mixture containing it and returns the mixtures
// that set completes. Completed buses go back to the pool via release.
func (mx *mixer) add(set Set) ([]openMixture, error) {
	lo, hi := mixturesOf(mx.cfg, set.Index)

	var done []openMixture
	for m := lo; m <= hi; m++ {
		bus, ok := mx.open[m]
		if !ok {
			bus = mx.pool.Get(mx.n)
			mx.open[m] = bus
		}
		for _, w := range set.Waves {
			if err := bus.Add(w); err != nil {
				return nil, fmt.Errorf("dataset: set %d: %w", set.Index, err)
			}
		}

		if _, last := MixtureRange(mx.cfg, m); last == set.Index {
			done = append(done, openMixture{index: m, bus: bus})
			delete(mx.open, m)
		}
	}
	return done, nil
}

func (mx *mixer) release(m openMixture) {
	mx.pool.Put(m.bus)
}

// MixtureFeatures holds the features of every variant of one mixture.
type MixtureFeatures struct {
	Index int      `yaml:"index"`
	Clean Features `yaml:"clean"`
	White Features `yaml:"white"`
	Brown Features `yaml:"brown"`
}

func (b *Builder) noiseRNG(m, offset int) *rand.Rand {
	return rand.New(rand.NewPCG(b.cfg.Seed, noiseStream+uint64(m*streamsPerMx+offset)))
}

// Variants returns the clean mixture and its white and brown noise
// variants, in that order.
func (b *Builder) Variants(m int, mix []float64) ([3][]float64, error) {
	var out [3][]float64

	white, err := noise.White(mix, b.cfg.Noise.WhiteStd, noise.WithRNG(b.noiseRNG(m, whiteOffset)))
	if err != nil {
		return out, fmt.Errorf("dataset: mixture %d: %w", m, err)
	}

	brown, err := noise.Brown(mix,
		noise.WithPole(b.cfg.Noise.BrownPole),
		noise.WithRNG(b.noiseRNG(m, brownOffset)),
	)
	if err != nil {
		return out, fmt.Errorf("dataset: mixture %d: %w", m, err)
	}

	out[0], out[1], out[2] = mix, white, brown
	return out, nil
}

// finishMixture writes mixture m, its noisy variants and their features.
func (b *Builder) finishMixture(ctx context.Context, m int, mix []float64) (MixtureRecord, error) {
	variants, err := b.Variants(m, mix)
	if err != nil {
		return MixtureRecord{}, err
	}

	names := [3]string{VariantClean, VariantWhite, VariantBrown}
	dirs := [3]string{MixturesDir, WhiteDir, BrownDir}

	var (
		records [3]VariantRecord
		feats   [3]Features
	)

	g, gctx := errgroup.WithContext(ctx)
	for v := range variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rel := path.Join(dirs[v], fileName(m, waveFileSuffix))
			clipped, err := b.writeWav(rel, variants[v])
			if err != nil {
				return err
			}

			f, err := b.analyzer.Analyze(variants[v])
			if err != nil {
				return fmt.Errorf("dataset: mixture %d %s: %w", m, names[v], err)
			}

			feats[v] = f
			records[v] = VariantRecord{
				Variant: names[v],
				File:    rel,
				Clipped: clipped,
				Peak:    f.Level.Peak,
				RMSdB:   f.Level.RMSdB,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MixtureRecord{}, err
	}

	featRel := path.Join(FeaturesDir, fileName(m, featureSuffix))
	mf := MixtureFeatures{Index: m, Clean: feats[0], White: feats[1], Brown: feats[2]}
	if err := writeYAML(filepath.Join(b.cfg.OutputDir, filepath.FromSlash(featRel)), mf); err != nil {
		return MixtureRecord{}, err
	}

	first, last := MixtureRange(b.cfg.Mixtures, m)
	b.log.WithFields(logrus.Fields{
		"mixture": m + 1,
		"sets":    fmt.Sprintf("%d-%d", first, last),
		"peak":    feats[0].Level.Peak,
		"clipped": records[0].Clipped,
	}).Info("Mixture saved")

	return MixtureRecord{
		Index:    m,
		FirstSet: first,
		LastSet:  last,
		Features: featRel,
		Variants: records[:],
	}, nil
}
