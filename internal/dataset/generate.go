package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-synth/dsp/signal"
)

// Kinds lists the waveforms generated for every set, in file and mixing
// order.
var Kinds = [...]signal.Kind{signal.KindSine, signal.KindSquare, signal.KindSaw}

// WaveParams records the random draw behind one aligned wave.
type WaveParams struct {
	Kind      string  `yaml:"kind"`
	Duration  float64 `yaml:"duration"`
	Frequency float64 `yaml:"frequency_hz"`
	GainDB    float64 `yaml:"gain_db"`
	Samples   int     `yaml:"samples"`
	Deficit   int     `yaml:"deficit"`
}

// Set is one sine, square and saw, each aligned to the clip length.
type Set struct {
	Index  int
	Waves  [len(Kinds)][]float64
	Params [len(Kinds)]WaveParams
}

// Sum returns the elementwise sum of the three waves.
func (s Set) Sum() ([]float64, error) {
	return signal.Mix(s.Waves[:]...)
}

// setRNG returns the source for set index. Sets draw from independent
// PCG streams so results do not depend on scheduling.
func (b *Builder) setRNG(index int) *rand.Rand {
	return rand.New(rand.NewPCG(b.cfg.Seed, uint64(index)))
}

// GenerateSet draws and aligns the waves of set index. Each kind gets its
// own duration, frequency and gain.
func (b *Builder) GenerateSet(index int) (Set, error) {
	if index < 0 {
		return Set{}, fmt.Errorf("dataset: set index must be >= 0: %d", index)
	}

	rng := b.setRNG(index)
	w := b.cfg.Waves
	sr := float64(b.cfg.SampleRate)

	set := Set{Index: index}
	for i, kind := range Kinds {
		p := WaveParams{
			Kind:      kind.String(),
			Duration:  uniform(rng, w.MinDuration, w.MaxDuration),
			Frequency: uniform(rng, 0, b.maxFreq),
			GainDB:    uniform(rng, w.MinGainDB, w.MaxGainDB),
		}

		gen, err := signal.NewWaveGenerator(p.Duration, sr)
		if err != nil {
			return Set{}, fmt.Errorf("dataset: set %d %s: %w", index, kind, err)
		}

		raw, err := gen.Wave(kind, p.Frequency, p.GainDB)
		if err != nil {
			return Set{}, fmt.Errorf("dataset: set %d %s: %w", index, kind, err)
		}

		p.Samples = len(raw)
		p.Deficit = b.aligner.Deficit(raw)

		aligned, err := b.aligner.Align(raw, b.side)
		if err != nil {
			return Set{}, fmt.Errorf("dataset: set %d %s: %w", index, kind, err)
		}

		set.Waves[i] = aligned
		set.Params[i] = p
	}

	return set, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
