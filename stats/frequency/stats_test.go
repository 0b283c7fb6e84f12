package frequency

import (
	"math"
	"math/cmplx"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func makeSingleBinSpectrum(n, bin int, amplitude float64) []float64 {
	mag := make([]float64, n)
	if bin >= 0 && bin < n {
		mag[bin] = amplitude
	}

	return mag
}

func makeFlatSpectrum(n int, amplitude float64) []float64 {
	mag := make([]float64, n)
	for i := range mag {
		mag[i] = amplitude
	}

	return mag
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, 48000)
	if s != (Stats{}) {
		t.Fatalf("Calculate(nil) = %+v, want zero", s)
	}
}

func TestCalculateAllZero(t *testing.T) {
	s := Calculate(make([]float64, 513), 48000)
	if s.BinCount != 513 {
		t.Fatalf("BinCount = %d, want 513", s.BinCount)
	}

	if s.Energy != 0 || s.Centroid != 0 || s.Flatness != 0 || s.Rolloff != 0 {
		t.Fatalf("descriptors of silence = %+v, want zero", s)
	}
}

func TestCalculateSingleBin(t *testing.T) {
	const (
		n   = 513
		sr  = 48000.0
		bin = 100
	)

	s := Calculate(makeSingleBinSpectrum(n, bin, 2), sr)
	want := float64(bin) * sr / 1024

	if s.PeakBin != bin || !almostEqual(s.PeakFreq, want, tolerance) {
		t.Fatalf("peak = %d / %v, want %d / %v", s.PeakBin, s.PeakFreq, bin, want)
	}

	if !almostEqual(s.Centroid, want, tolerance) {
		t.Fatalf("Centroid = %v, want %v", s.Centroid, want)
	}

	if !almostEqual(s.Spread, 0, tolerance) {
		t.Fatalf("Spread = %v, want 0", s.Spread)
	}

	if !almostEqual(s.Rolloff, want, tolerance) {
		t.Fatalf("Rolloff = %v, want %v", s.Rolloff, want)
	}

	if !almostEqual(s.Energy, 4, tolerance) {
		t.Fatalf("Energy = %v, want 4", s.Energy)
	}

	if s.Flatness != 0 {
		t.Fatalf("Flatness = %v, want 0", s.Flatness)
	}
}

func TestCalculateFlatSpectrum(t *testing.T) {
	const sr = 8000.0

	s := Calculate(makeFlatSpectrum(5, 1), sr)
	if !almostEqual(s.Flatness, 1, tolerance) {
		t.Fatalf("Flatness = %v, want 1", s.Flatness)
	}

	if !almostEqual(s.Centroid, 2000, tolerance) {
		t.Fatalf("Centroid = %v, want 2000", s.Centroid)
	}
}

func TestCalculateSingleElement(t *testing.T) {
	s := Calculate([]float64{3}, 8000)
	if s.BinCount != 1 || s.Energy != 9 {
		t.Fatalf("Calculate([3]) = %+v, want BinCount 1 and Energy 9", s)
	}
}

func TestCalculateFromComplexMatchesCalculate(t *testing.T) {
	spec := []complex128{0, complex(3, 4), complex(0, -1), 1, 0}
	mag := make([]float64, len(spec))
	for i, c := range spec {
		mag[i] = cmplx.Abs(c)
	}

	got := CalculateFromComplex(spec, 8000)
	want := Calculate(mag, 8000)
	if got != want {
		t.Fatalf("CalculateFromComplex() = %+v, want %+v", got, want)
	}
}

func TestIndividualFunctionsMatchCalculate(t *testing.T) {
	mag := []float64{0.1, 0.5, 2, 0.8, 0.3, 0.05, 0.01}
	s := Calculate(mag, 44100)

	if c := Centroid(mag, 44100); !almostEqual(c, s.Centroid, tolerance) {
		t.Fatalf("Centroid() = %v, want %v", c, s.Centroid)
	}

	if f := Flatness(mag); !almostEqual(f, s.Flatness, tolerance) {
		t.Fatalf("Flatness() = %v, want %v", f, s.Flatness)
	}

	if r := Rolloff(mag, 44100, DefaultRolloff); !almostEqual(r, s.Rolloff, tolerance) {
		t.Fatalf("Rolloff() = %v, want %v", r, s.Rolloff)
	}

	if b := Bandwidth(mag, 44100); !almostEqual(b, s.Bandwidth, tolerance) {
		t.Fatalf("Bandwidth() = %v, want %v", b, s.Bandwidth)
	}
}

func TestRolloffKnownDistribution(t *testing.T) {
	// Energies 1, 1, 1, 1: 85% is reached at the fourth bin.
	mag := []float64{1, 1, 1, 1}
	got := Rolloff(mag, 6000, 0.85)
	if !almostEqual(got, 3000, tolerance) {
		t.Fatalf("Rolloff() = %v, want 3000", got)
	}

	if got := Rolloff(mag, 6000, 0.5); !almostEqual(got, 1000, tolerance) {
		t.Fatalf("Rolloff(0.5) = %v, want 1000", got)
	}
}

func TestSpreadTwoBinsSymmetric(t *testing.T) {
	// Bins at 0 and 4000 Hz with equal weight: centroid 2000, spread 2000.
	mag := []float64{1, 0, 1}
	s := Calculate(mag, 8000)
	if !almostEqual(s.Centroid, 2000, tolerance) || !almostEqual(s.Spread, 2000, tolerance) {
		t.Fatalf("Centroid, Spread = %v, %v, want 2000, 2000", s.Centroid, s.Spread)
	}
}

func TestBandwidthSinglePeak(t *testing.T) {
	// Peak 1 at bin 2, neighbours at 0.5: the -3 dB points interpolate
	// between the peak and each neighbour.
	mag := []float64{0, 0.5, 1, 0.5, 0}
	bw := Bandwidth(mag, 8000)

	tFrac := (1/math.Sqrt2 - 0.5) / 0.5
	want := 2 * (1000 * (1 - tFrac))
	if !almostEqual(bw, want, 1e-6) {
		t.Fatalf("Bandwidth() = %v, want %v", bw, want)
	}
}

func TestSummarizeAveragesActiveFrames(t *testing.T) {
	// Frames: tone at bin 1, tone at bin 3, silence.
	spec := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	}

	s := Summarize(spec, 8000)
	if s.Frames != 3 || s.SilentFrames != 1 {
		t.Fatalf("Frames, SilentFrames = %d, %d, want 3, 1", s.Frames, s.SilentFrames)
	}

	if !almostEqual(s.Centroid, 2000, tolerance) {
		t.Fatalf("Centroid = %v, want 2000", s.Centroid)
	}

	if !almostEqual(s.CentroidStd, 1000, tolerance) {
		t.Fatalf("CentroidStd = %v, want 1000", s.CentroidStd)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil, 8000); s != (Summary{}) {
		t.Fatalf("Summarize(nil) = %+v, want zero", s)
	}
}
