package spectrum

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// PadMode selects how a centered STFT extends the signal edges.
type PadMode int

const (
	// PadConstant pads with zeros.
	PadConstant PadMode = iota
	// PadReflect mirrors the signal about its first and last samples.
	PadReflect
)

func (m PadMode) String() string {
	switch m {
	case PadConstant:
		return "constant"
	case PadReflect:
		return "reflect"
	default:
		return fmt.Sprintf("PadMode(%d)", int(m))
	}
}

// ParsePadMode parses "constant" or "reflect".
func ParsePadMode(name string) (PadMode, error) {
	switch name {
	case "constant", "zero":
		return PadConstant, nil
	case "reflect":
		return PadReflect, nil
	default:
		return 0, fmt.Errorf("spectrum: unknown pad mode %q: %w", name, core.ErrInvalidParameter)
	}
}

type config struct {
	hop     int
	win     int
	winType window.Type
	pad     PadMode
	center  bool
}

// Option configures an Extractor.
type Option func(*config) error

// WithHopLength sets the frame advance in samples (default nFFT/2).
func WithHopLength(hop int) Option {
	return func(cfg *config) error {
		if hop <= 0 {
			return fmt.Errorf("spectrum: hop length must be > 0: %d: %w", hop, core.ErrInvalidParameter)
		}
		cfg.hop = hop

		return nil
	}
}

// WithWinLength sets the analysis window length (default nFFT). Shorter
// windows are zero-padded on both sides to nFFT.
func WithWinLength(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("spectrum: window length must be > 0: %d: %w", n, core.ErrInvalidParameter)
		}
		cfg.win = n

		return nil
	}
}

// WithWindow selects the analysis window shape (default Hann).
func WithWindow(t window.Type) Option {
	return func(cfg *config) error {
		if !t.Valid() {
			return fmt.Errorf("spectrum: invalid window type: %d: %w", int(t), core.ErrInvalidParameter)
		}
		cfg.winType = t

		return nil
	}
}

// WithPadMode selects edge padding for centered frames (default PadConstant).
func WithPadMode(m PadMode) Option {
	return func(cfg *config) error {
		if m != PadConstant && m != PadReflect {
			return fmt.Errorf("spectrum: invalid pad mode: %d: %w", int(m), core.ErrInvalidParameter)
		}
		cfg.pad = m

		return nil
	}
}

// WithCenter toggles centered framing (default true). Centered frame t is
// taken around sample t*hop.
func WithCenter(center bool) Option {
	return func(cfg *config) error {
		cfg.center = center

		return nil
	}
}

// Extractor computes STFT-based features with fixed framing parameters.
type Extractor struct {
	sampleRate float64
	nFFT       int
	hop        int
	winLen     int
	pad        PadMode
	center     bool
	window     []float64 // nFFT long, win centered
	plans      sync.Pool
}

// NewExtractor creates an Extractor for signals sampled at sampleRate.
func NewExtractor(sampleRate float64, nFFT int, opts ...Option) (*Extractor, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f: %w", sampleRate, core.ErrInvalidParameter)
	}
	if nFFT <= 0 {
		return nil, fmt.Errorf("spectrum: n_fft must be > 0: %d: %w", nFFT, core.ErrInvalidParameter)
	}

	cfg := config{
		hop:     max(1, nFFT/2),
		win:     nFFT,
		winType: window.TypeHann,
		pad:     PadConstant,
		center:  true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.win > nFFT {
		return nil, fmt.Errorf("spectrum: window length %d exceeds n_fft %d: %w", cfg.win, nFFT, core.ErrInvalidParameter)
	}

	if _, err := algofft.NewPlan64(nFFT); err != nil {
		return nil, fmt.Errorf("spectrum: n_fft %d: %v: %w", nFFT, err, core.ErrInvalidParameter)
	}

	win := make([]float64, nFFT)
	offset := (nFFT - cfg.win) / 2
	copy(win[offset:], window.Generate(cfg.winType, cfg.win, window.WithPeriodic()))

	e := &Extractor{
		sampleRate: sampleRate,
		nFFT:       nFFT,
		hop:        cfg.hop,
		winLen:     cfg.win,
		pad:        cfg.pad,
		center:     cfg.center,
		window:     win,
	}
	e.plans.New = func() any {
		plan, err := algofft.NewPlan64(nFFT)
		if err != nil {
			return nil
		}
		return plan
	}
	return e, nil
}

// SampleRate returns the configured sample rate in Hz.
func (e *Extractor) SampleRate() float64 { return e.sampleRate }

// NFFT returns the FFT size.
func (e *Extractor) NFFT() int { return e.nFFT }

// HopLength returns the frame advance in samples.
func (e *Extractor) HopLength() int { return e.hop }

// WinLength returns the analysis window length.
func (e *Extractor) WinLength() int { return e.winLen }

// Bins returns the number of non-negative frequency bins, 1 + nFFT/2.
func (e *Extractor) Bins() int { return 1 + e.nFFT/2 }

// BinFrequency returns the center frequency of bin k in Hz.
func (e *Extractor) BinFrequency(k int) float64 {
	return float64(k) * e.sampleRate / float64(e.nFFT)
}

// FrameCount returns the number of frames produced for n input samples.
// It returns 0 when an uncentered signal is shorter than one FFT.
func (e *Extractor) FrameCount(n int) int {
	if e.center {
		n += 2 * (e.nFFT / 2)
	}
	if n < e.nFFT {
		return 0
	}
	return 1 + (n-e.nFFT)/e.hop
}

// STFT returns the complex spectrum of each frame, indexed [frame][bin],
// with 1 + nFFT/2 bins per frame.
func (e *Extractor) STFT(signal []float64) ([][]complex128, error) {
	frames := e.FrameCount(len(signal))
	if frames == 0 {
		return nil, fmt.Errorf("spectrum: signal of %d samples is shorter than n_fft %d: %w", len(signal), e.nFFT, core.ErrInvalidParameter)
	}

	x := signal
	if e.center {
		x = padCenter(signal, e.nFFT/2, e.pad)
	}

	p, ok := e.plans.Get().(*algofft.Plan[complex128])
	if !ok || p == nil {
		return nil, fmt.Errorf("spectrum: cannot create FFT plan of size %d", e.nFFT)
	}
	defer e.plans.Put(p)

	bins := e.Bins()
	frame := make([]float64, e.nFFT)
	in := make([]complex128, e.nFFT)
	spec := make([]complex128, e.nFFT)
	out := make([][]complex128, frames)
	for f := range out {
		start := f * e.hop
		vecmath.MulBlock(frame, x[start:start+e.nFFT], e.window)
		for i, v := range frame {
			in[i] = complex(v, 0)
		}
		if err := p.Forward(spec, in); err != nil {
			return nil, fmt.Errorf("spectrum: forward FFT of frame %d: %w", f, err)
		}
		out[f] = append([]complex128(nil), spec[:bins]...)
	}
	return out, nil
}

// STFTMagnitude returns |STFT| as a Spectrogram.
func (e *Extractor) STFTMagnitude(signal []float64) (Spectrogram, error) {
	frames, err := e.STFT(signal)
	if err != nil {
		return nil, err
	}

	s := NewSpectrogram(e.Bins(), len(frames))
	mag := make([]float64, e.Bins())
	for f, spec := range frames {
		MagnitudeInto(mag, spec)
		for b, v := range mag {
			s[b][f] = v
		}
	}
	return s, nil
}

// padCenter extends x by n samples on each side.
func padCenter(x []float64, n int, mode PadMode) []float64 {
	out := make([]float64, len(x)+2*n)
	copy(out[n:], x)
	if mode != PadReflect || len(x) == 0 {
		return out
	}

	for i := range n {
		out[n-1-i] = x[reflectIndex(-1-i, len(x))]
		out[n+len(x)+i] = x[reflectIndex(len(x)+i, len(x))]
	}
	return out
}

// reflectIndex maps i onto [0, n) by mirroring about the end samples
// without repeating them.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i = i % period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
