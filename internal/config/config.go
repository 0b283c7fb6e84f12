// Package config loads synthmix settings from defaults, a YAML file and
// SYNTHMIX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/dither"
	"github.com/cwbudde/algo-synth/dsp/pad"
	"github.com/cwbudde/algo-synth/dsp/spectrum"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SYNTHMIX_WAVES_COUNT.
const EnvPrefix = "SYNTHMIX"

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Output settings
	SampleRate int     `mapstructure:"sample_rate" yaml:"sample_rate"`
	Duration   float64 `mapstructure:"duration" yaml:"duration"`
	OutputDir  string  `mapstructure:"output_dir" yaml:"output_dir"`
	Seed       uint64  `mapstructure:"seed" yaml:"seed"`
	Workers    int     `mapstructure:"workers" yaml:"workers"`
	Format     string  `mapstructure:"sample_format" yaml:"sample_format"` // float or pcm
	BitDepth   int     `mapstructure:"bit_depth" yaml:"bit_depth"`
	Dither     string  `mapstructure:"dither" yaml:"dither"`

	Waves    WavesConfig    `mapstructure:"waves" yaml:"waves"`
	Mixtures MixturesConfig `mapstructure:"mixtures" yaml:"mixtures"`
	Noise    NoiseConfig    `mapstructure:"noise" yaml:"noise"`
	Features FeaturesConfig `mapstructure:"features" yaml:"features"`
}

// WavesConfig controls random waveform generation
type WavesConfig struct {
	Count        int     `mapstructure:"count" yaml:"count"`
	SaveCount    int     `mapstructure:"save_count" yaml:"save_count"` // waves written per kind, -1 for all
	MinDuration  float64 `mapstructure:"min_duration" yaml:"min_duration"`
	MaxDuration  float64 `mapstructure:"max_duration" yaml:"max_duration"`
	MinGainDB    float64 `mapstructure:"min_gain_db" yaml:"min_gain_db"`
	MaxGainDB    float64 `mapstructure:"max_gain_db" yaml:"max_gain_db"`
	MaxFrequency float64 `mapstructure:"max_frequency" yaml:"max_frequency"` // 0 means Nyquist
	OddPadding   string  `mapstructure:"odd_padding" yaml:"odd_padding"`
}

// MixturesConfig controls the sliding mixture windows
type MixturesConfig struct {
	Count  int `mapstructure:"count" yaml:"count"`
	Window int `mapstructure:"window" yaml:"window"`
	Step   int `mapstructure:"step" yaml:"step"`
}

// NoiseConfig contains the noisy mixture settings
type NoiseConfig struct {
	WhiteStd  float64 `mapstructure:"white_std" yaml:"white_std"`
	BrownPole float64 `mapstructure:"brown_pole" yaml:"brown_pole"`
}

// FeaturesConfig contains spectral feature settings
type FeaturesConfig struct {
	NFFT      int        `mapstructure:"n_fft" yaml:"n_fft"`
	HopLength int        `mapstructure:"hop_length" yaml:"hop_length"` // 0 means n_fft/2
	WinLength int        `mapstructure:"win_length" yaml:"win_length"` // 0 means n_fft
	Window    string     `mapstructure:"window" yaml:"window"`
	PadMode   string     `mapstructure:"pad_mode" yaml:"pad_mode"`
	NMels     int        `mapstructure:"n_mels" yaml:"n_mels"`
	FMin      float64    `mapstructure:"fmin" yaml:"fmin"`
	FMax      float64    `mapstructure:"fmax" yaml:"fmax"` // 0 means Nyquist
	Power     float64    `mapstructure:"power" yaml:"power"`
	Log       bool       `mapstructure:"log" yaml:"log"`
	PCEN      PCENConfig `mapstructure:"pcen" yaml:"pcen"`
}

// PCENConfig contains per-channel energy normalization settings
type PCENConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	Alpha   float64 `mapstructure:"alpha" yaml:"alpha"`
	Delta   float64 `mapstructure:"delta" yaml:"delta"`
	R       float64 `mapstructure:"r" yaml:"r"`
	S       float64 `mapstructure:"s" yaml:"s"`
	Eps     float64 `mapstructure:"eps" yaml:"eps"`
}

// SetDefaults registers default values for every key
func SetDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Output defaults
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("duration", 10.0)
	v.SetDefault("output_dir", "dataset")
	v.SetDefault("seed", 1)
	v.SetDefault("workers", 4)
	v.SetDefault("sample_format", "float")
	v.SetDefault("bit_depth", 16)
	v.SetDefault("dither", "triangular")

	// Wave defaults
	v.SetDefault("waves.count", 1000)
	v.SetDefault("waves.save_count", 20)
	v.SetDefault("waves.min_duration", 2.0)
	v.SetDefault("waves.max_duration", 8.0)
	v.SetDefault("waves.min_gain_db", -60.0)
	v.SetDefault("waves.max_gain_db", 1.0)
	v.SetDefault("waves.max_frequency", 0.0)
	v.SetDefault("waves.odd_padding", "back")

	// Mixture defaults
	v.SetDefault("mixtures.count", 40)
	v.SetDefault("mixtures.window", 25)
	v.SetDefault("mixtures.step", 5)

	// Noise defaults
	v.SetDefault("noise.white_std", 1.0)
	v.SetDefault("noise.brown_pole", 0.99)

	// Feature defaults
	v.SetDefault("features.n_fft", 1024)
	v.SetDefault("features.hop_length", 512)
	v.SetDefault("features.win_length", 1024)
	v.SetDefault("features.window", "hann")
	v.SetDefault("features.pad_mode", "constant")
	v.SetDefault("features.n_mels", 128)
	v.SetDefault("features.fmin", 0.0)
	v.SetDefault("features.fmax", 0.0)
	v.SetDefault("features.power", 2.0)
	v.SetDefault("features.log", true)
	pcen := spectrum.DefaultPCENParams()
	v.SetDefault("features.pcen.enabled", false)
	v.SetDefault("features.pcen.alpha", pcen.Alpha)
	v.SetDefault("features.pcen.delta", pcen.Delta)
	v.SetDefault("features.pcen.r", pcen.R)
	v.SetDefault("features.pcen.s", pcen.S)
	v.SetDefault("features.pcen.eps", pcen.Eps)
}

// NewViper returns a viper instance with defaults and environment
// overrides configured. configFile, when set, is read explicitly; otherwise
// synthmix.yaml is searched in searchPaths and a missing file is not an error.
func NewViper(configFile string, searchPaths ...string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("synthmix")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return cfg
}

// Validate checks every setting and wraps core.ErrInvalidParameter
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return invalid("sample_rate must be > 0: %d", c.SampleRate)
	case !(c.Duration > 0) || math.IsInf(c.Duration, 0):
		return invalid("duration must be > 0: %g", c.Duration)
	case c.OutputDir == "":
		return invalid("output_dir must not be empty")
	case c.Workers <= 0:
		return invalid("workers must be > 0: %d", c.Workers)
	case c.Format != "float" && c.Format != "pcm":
		return invalid("sample_format must be float or pcm: %q", c.Format)
	case c.BitDepth != 16 && c.BitDepth != 24 && c.BitDepth != 32:
		return invalid("bit_depth must be 16, 24 or 32: %d", c.BitDepth)
	}
	if _, err := c.DitherType(); err != nil {
		return err
	}
	if err := c.Waves.validate(c.Duration, c.SampleRate); err != nil {
		return err
	}
	if err := c.Mixtures.validate(c.Waves.Count); err != nil {
		return err
	}
	if err := c.Noise.validate(); err != nil {
		return err
	}
	return c.Features.validate(c.SampleRate)
}

func (w WavesConfig) validate(target float64, sampleRate int) error {
	switch {
	case w.Count <= 0:
		return invalid("waves.count must be > 0: %d", w.Count)
	case w.SaveCount < -1:
		return invalid("waves.save_count must be >= -1: %d", w.SaveCount)
	case !(w.MinDuration > 0):
		return invalid("waves.min_duration must be > 0: %g", w.MinDuration)
	case w.MaxDuration < w.MinDuration:
		return invalid("waves.max_duration %g below min_duration %g", w.MaxDuration, w.MinDuration)
	case w.MaxDuration > target:
		return invalid("waves.max_duration %g exceeds duration %g", w.MaxDuration, target)
	case w.MaxGainDB < w.MinGainDB:
		return invalid("waves.max_gain_db %g below min_gain_db %g", w.MaxGainDB, w.MinGainDB)
	case w.MaxFrequency < 0 || w.MaxFrequency > float64(sampleRate)/2:
		return invalid("waves.max_frequency must be in [0, %g]: %g", float64(sampleRate)/2, w.MaxFrequency)
	}
	if _, err := pad.ParseSide(w.OddPadding); err != nil {
		return fmt.Errorf("waves.odd_padding: %w", err)
	}
	return nil
}

func (m MixturesConfig) validate(waves int) error {
	switch {
	case m.Count < 0:
		return invalid("mixtures.count must be >= 0: %d", m.Count)
	case m.Count == 0:
		return nil
	case m.Window <= 0:
		return invalid("mixtures.window must be > 0: %d", m.Window)
	case m.Step <= 0:
		return invalid("mixtures.step must be > 0: %d", m.Step)
	}
	if need := (m.Count-1)*m.Step + m.Window; need > waves {
		return invalid("mixtures need %d waves, have %d", need, waves)
	}
	return nil
}

func (n NoiseConfig) validate() error {
	if math.IsNaN(n.WhiteStd) || n.WhiteStd < 0 {
		return invalid("noise.white_std must be >= 0: %g", n.WhiteStd)
	}
	if !(n.BrownPole > 0) {
		return invalid("noise.brown_pole must be > 0: %g", n.BrownPole)
	}
	if n.BrownPole >= 1 {
		return fmt.Errorf("config: noise.brown_pole must be < 1: %g: %w", n.BrownPole, core.ErrNumericInstability)
	}
	return nil
}

func (f FeaturesConfig) validate(sampleRate int) error {
	opts, err := f.ExtractorOptions()
	if err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if _, err := spectrum.NewExtractor(float64(sampleRate), f.NFFT, opts...); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if _, err := spectrum.MelFilterBank(float64(sampleRate), f.NFFT, f.NMels, f.FMin, f.fmax(sampleRate)); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if !(f.Power > 0) {
		return invalid("features.power must be > 0: %g", f.Power)
	}
	if f.PCEN.Enabled {
		if err := f.PCENParams().Validate(); err != nil {
			return fmt.Errorf("features.pcen: %w", err)
		}
	}
	return nil
}

func (f FeaturesConfig) fmax(sampleRate int) float64 {
	if f.FMax == 0 {
		return float64(sampleRate) / 2
	}
	return f.FMax
}

// ExtractorOptions translates the framing settings into spectrum options
func (f FeaturesConfig) ExtractorOptions() ([]spectrum.Option, error) {
	var opts []spectrum.Option
	if f.Window != "" {
		wt, err := window.ParseType(f.Window)
		if err != nil {
			return nil, err
		}
		opts = append(opts, spectrum.WithWindow(wt))
	}
	if f.PadMode != "" {
		pm, err := spectrum.ParsePadMode(f.PadMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, spectrum.WithPadMode(pm))
	}
	if f.HopLength != 0 {
		opts = append(opts, spectrum.WithHopLength(f.HopLength))
	}
	if f.WinLength != 0 {
		opts = append(opts, spectrum.WithWinLength(f.WinLength))
	}
	return opts, nil
}

// MelOptions returns the mel spectrogram settings
func (f FeaturesConfig) MelOptions() spectrum.MelOptions {
	return spectrum.MelOptions{
		NMels: f.NMels,
		Power: f.Power,
		FMin:  f.FMin,
		FMax:  f.FMax,
		Log:   f.Log,
	}
}

// PCENParams returns the PCEN settings
func (f FeaturesConfig) PCENParams() spectrum.PCENParams {
	return spectrum.PCENParams{
		Alpha: f.PCEN.Alpha,
		Delta: f.PCEN.Delta,
		R:     f.PCEN.R,
		S:     f.PCEN.S,
		Eps:   f.PCEN.Eps,
	}
}

// FloatSamples reports whether WAV output is 32-bit IEEE float. Integer
// PCM output is clipped to full scale and dithered.
func (c *Config) FloatSamples() bool { return c.Format == "float" }

// DitherType parses the dither setting
func (c *Config) DitherType() (dither.DitherType, error) {
	dt, err := dither.ParseDitherType(c.Dither)
	if err != nil {
		return 0, fmt.Errorf("dither: %w", err)
	}
	return dt, nil
}

// OddSide parses waves.odd_padding
func (c *Config) OddSide() (pad.Side, error) {
	return pad.ParseSide(c.Waves.OddPadding)
}

// SavedWaves returns how many waves per kind are written to disk
func (c *Config) SavedWaves() int {
	if c.Waves.SaveCount < 0 || c.Waves.SaveCount > c.Waves.Count {
		return c.Waves.Count
	}
	return c.Waves.SaveCount
}

// MaxFrequency returns waves.max_frequency, defaulting to Nyquist
func (c *Config) MaxFrequency() float64 {
	if c.Waves.MaxFrequency == 0 {
		return float64(c.SampleRate) / 2
	}
	return c.Waves.MaxFrequency
}

// YAML renders the configuration as a YAML document
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: "+format+": %w", append(args, core.ErrInvalidParameter)...)
}
