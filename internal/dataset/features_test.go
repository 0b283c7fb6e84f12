package dataset

import (
	"testing"

	"github.com/cwbudde/algo-synth/internal/config"
	"github.com/cwbudde/algo-synth/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatures() config.FeaturesConfig {
	fc := config.Default().Features
	fc.NFFT = 256
	fc.HopLength = 128
	fc.WinLength = 256
	fc.NMels = 32
	return fc
}

func TestAnalyzeSine(t *testing.T) {
	a, err := NewAnalyzer(8000, testFeatures())
	require.NoError(t, err)

	x := testutil.DeterministicSine(1000, 8000, 1, 4000)
	f, err := a.Analyze(x)
	require.NoError(t, err)

	assert.InDelta(t, 1, f.Level.Peak, 1e-6)
	assert.InDelta(t, 1/1.4142135623730951, f.Level.RMS, 1e-3)

	// Bin 32 of a 256-point FFT at 8 kHz is exactly 1 kHz.
	assert.InDelta(t, 1000, f.Spectral.Centroid, 50)
	assert.Equal(t, a.Extractor().FrameCount(len(x)), f.Spectral.Frames)
	assert.Less(t, f.Spectral.Flatness, 0.1)

	assert.True(t, f.MelDB)
	assert.Equal(t, 32, f.Mel.Bands)
	assert.Equal(t, f.Spectral.Frames, f.Mel.Frames)
	assert.InDelta(t, 0, f.Mel.Max, 1e-9)
	assert.GreaterOrEqual(t, f.Mel.Min, -80.0-1e-9)
	assert.Len(t, f.Mel.BandMeans, 32)
	assert.Nil(t, f.PCEN)
}

func TestAnalyzeSilence(t *testing.T) {
	a, err := NewAnalyzer(8000, testFeatures())
	require.NoError(t, err)

	f, err := a.Analyze(make([]float64, 2000))
	require.NoError(t, err)
	assert.Equal(t, f.Spectral.Frames, f.Spectral.SilentFrames)
	assert.Zero(t, f.Level.RMS)
	testutil.RequireFinite(t, f.Mel.BandMeans)
}

func TestAnalyzePCEN(t *testing.T) {
	fc := testFeatures()
	fc.PCEN.Enabled = true

	a, err := NewAnalyzer(8000, fc)
	require.NoError(t, err)

	f, err := a.Analyze(testutil.DeterministicGaussian(3, 0.1, 4000))
	require.NoError(t, err)
	require.NotNil(t, f.PCEN)
	assert.Equal(t, 32, f.PCEN.Bands)
	assert.GreaterOrEqual(t, f.PCEN.Min, 0.0)
	testutil.RequireFinite(t, f.PCEN.BandMeans)
}

func TestAnalyzerLinearMel(t *testing.T) {
	fc := testFeatures()
	fc.Log = false
	fc.Power = 1

	a, err := NewAnalyzer(8000, fc)
	require.NoError(t, err)

	mel, err := a.Mel(testutil.DeterministicSine(500, 8000, 0.5, 2048))
	require.NoError(t, err)
	assert.Equal(t, 32, mel.Bins())
	assert.GreaterOrEqual(t, mel.Max(), 0.0)

	for _, row := range mel {
		for _, v := range row {
			require.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestNewAnalyzerInvalid(t *testing.T) {
	fc := testFeatures()
	fc.NMels = 0
	_, err := NewAnalyzer(8000, fc)
	assert.Error(t, err)

	fc = testFeatures()
	fc.Power = 0
	_, err = NewAnalyzer(8000, fc)
	assert.Error(t, err)

	fc = testFeatures()
	fc.PCEN.Enabled = true
	fc.PCEN.Eps = 0
	_, err = NewAnalyzer(8000, fc)
	assert.Error(t, err)
}
