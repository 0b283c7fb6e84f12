package dataset

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/spectrum"
	"github.com/cwbudde/algo-synth/internal/config"
	freqstats "github.com/cwbudde/algo-synth/stats/frequency"
	timestats "github.com/cwbudde/algo-synth/stats/time"
)

// BandSummary condenses a mel (or PCEN) spectrogram.
type BandSummary struct {
	Bands     int       `yaml:"bands"`
	Frames    int       `yaml:"frames"`
	Min       float64   `yaml:"min"`
	Max       float64   `yaml:"max"`
	Mean      float64   `yaml:"mean"`
	PeakBand  int       `yaml:"peak_band"`
	BandMeans []float64 `yaml:"band_means,flow"`
}

// Features describes one rendered signal.
type Features struct {
	Level    timestats.Stats   `yaml:"level"`
	Spectral freqstats.Summary `yaml:"spectral"`
	Mel      BandSummary       `yaml:"mel"`
	MelDB    bool              `yaml:"mel_db"`
	PCEN     *BandSummary      `yaml:"pcen,omitempty"`
}

// Analyzer computes Features with fixed framing. It is safe for concurrent
// use.
type Analyzer struct {
	extractor *spectrum.Extractor
	filters   [][]float64
	power     float64
	log       bool
	pcen      *spectrum.PCENParams
}

// NewAnalyzer builds the STFT extractor and mel filter bank for sampleRate.
func NewAnalyzer(sampleRate int, fc config.FeaturesConfig) (*Analyzer, error) {
	sr := float64(sampleRate)

	opts, err := fc.ExtractorOptions()
	if err != nil {
		return nil, fmt.Errorf("dataset: features: %w", err)
	}

	ext, err := spectrum.NewExtractor(sr, fc.NFFT, opts...)
	if err != nil {
		return nil, fmt.Errorf("dataset: features: %w", err)
	}

	fmax := fc.FMax
	if fmax == 0 {
		fmax = sr / 2
	}

	fb, err := spectrum.MelFilterBank(sr, fc.NFFT, fc.NMels, fc.FMin, fmax)
	if err != nil {
		return nil, fmt.Errorf("dataset: features: %w", err)
	}

	if !(fc.Power > 0) {
		return nil, fmt.Errorf("dataset: features: power must be > 0: %g", fc.Power)
	}

	a := &Analyzer{extractor: ext, filters: fb, power: fc.Power, log: fc.Log}
	if fc.PCEN.Enabled {
		p := fc.PCENParams()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("dataset: features: %w", err)
		}
		a.pcen = &p
	}

	return a, nil
}

// Extractor returns the STFT extractor.
func (a *Analyzer) Extractor() *spectrum.Extractor { return a.extractor }

// Mel returns the mel spectrogram of x, in dB when log output is enabled.
func (a *Analyzer) Mel(x []float64) (spectrum.Spectrogram, error) {
	mag, err := a.extractor.STFTMagnitude(x)
	if err != nil {
		return nil, err
	}
	lin := a.melFromMagnitude(mag)
	if !a.log {
		return lin, nil
	}
	return a.toDB(lin)
}

// Analyze summarizes x in the time, frequency and mel domains.
func (a *Analyzer) Analyze(x []float64) (Features, error) {
	mag, err := a.extractor.STFTMagnitude(x)
	if err != nil {
		return Features{}, fmt.Errorf("dataset: analyze: %w", err)
	}

	feats := Features{
		Level:    timestats.Calculate(x),
		Spectral: freqstats.Summarize(mag, a.extractor.SampleRate()),
		MelDB:    a.log,
	}

	lin := a.melFromMagnitude(mag)

	mel := lin
	if a.log {
		if mel, err = a.toDB(lin); err != nil {
			return Features{}, fmt.Errorf("dataset: analyze: %w", err)
		}
	}
	feats.Mel = summarizeBands(mel)

	if a.pcen != nil {
		p, err := spectrum.PCEN(lin, *a.pcen)
		if err != nil {
			return Features{}, fmt.Errorf("dataset: analyze: %w", err)
		}
		s := summarizeBands(p)
		feats.PCEN = &s
	}

	return feats, nil
}

// melFromMagnitude raises mag to the configured power in place and applies
// the filter bank.
func (a *Analyzer) melFromMagnitude(mag spectrum.Spectrogram) spectrum.Spectrogram {
	if a.power != 1 {
		for _, row := range mag {
			for f, v := range row {
				row[f] = math.Pow(v, a.power)
			}
		}
	}
	return spectrum.ApplyFilterBank(a.filters, mag)
}

func (a *Analyzer) toDB(lin spectrum.Spectrogram) (spectrum.Spectrogram, error) {
	if a.power == 1 {
		return spectrum.AmplitudeToDB(lin, spectrum.RefMax, spectrum.DefaultAmplitudeAMin, spectrum.DefaultTopDB)
	}
	return spectrum.PowerToDB(lin, spectrum.RefMax, spectrum.DefaultPowerAMin, spectrum.DefaultTopDB)
}

func summarizeBands(s spectrum.Spectrogram) BandSummary {
	sum := BandSummary{
		Bands:     s.Bins(),
		Frames:    s.Frames(),
		BandMeans: s.MeanOverFrames(),
	}
	if sum.Bands == 0 || sum.Frames == 0 {
		return sum
	}

	sum.Min = math.Inf(1)
	sum.Max = math.Inf(-1)
	best := math.Inf(-1)
	total := 0.0
	for b, row := range s {
		for _, v := range row {
			sum.Min = math.Min(sum.Min, v)
			sum.Max = math.Max(sum.Max, v)
			total += v
		}
		if sum.BandMeans[b] > best {
			best = sum.BandMeans[b]
			sum.PeakBand = b
		}
	}
	sum.Mean = total / float64(sum.Bands*sum.Frames)

	return sum
}
