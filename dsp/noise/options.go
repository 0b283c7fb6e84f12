package noise

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// DefaultPole is the brown-noise integrator pole.
const DefaultPole = 0.99

type config struct {
	rng  *rand.Rand
	pole float64
}

func defaultConfig() config {
	return config{pole: DefaultPole}
}

// Option configures a noise generator.
type Option func(*config) error

// WithRNG sets the random source. Without it each call draws from a freshly
// seeded PCG generator.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		cfg.rng = rng

		return nil
	}
}

// WithSeed seeds a PCG generator for reproducible noise.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.rng = rand.New(rand.NewPCG(seed, 0))

		return nil
	}
}

// WithPole sets the brown-noise filter pole, which must lie in (0, 1).
func WithPole(p float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(p) || p <= 0 {
			return fmt.Errorf("noise: pole must be > 0: %f: %w", p, core.ErrInvalidParameter)
		}
		if p >= 1 {
			return fmt.Errorf("noise: pole must be < 1 for a stable filter: %f: %w", p, core.ErrNumericInstability)
		}

		cfg.pole = p

		return nil
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return cfg, nil
}
