package extractors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio"
)

func sineBuffer(freq float64, seconds float64, amplitude float64) *audio.Buffer {
	sampleRate := 22050
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &audio.Buffer{Samples: samples, SampleRate: sampleRate}
}

func silentBuffer(seconds float64) *audio.Buffer {
	sampleRate := 22050
	return &audio.Buffer{
		Samples:    make([]float64, int(seconds*float64(sampleRate))),
		SampleRate: sampleRate,
	}
}

// clickTrack places short tone bursts at a fixed beat interval
func clickTrack(bpm float64, seconds float64) *audio.Buffer {
	sampleRate := 22050
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)

	beatSamples := int(60.0 / bpm * float64(sampleRate))
	const clickLen = 64
	for start := 0; start+clickLen < n; start += beatSamples {
		for i := range clickLen {
			samples[start+i] = 0.9 * math.Sin(2*math.Pi*1000*float64(i)/float64(sampleRate))
		}
	}
	return &audio.Buffer{Samples: samples, SampleRate: sampleRate}
}

func TestSpectralExtractPureTone(t *testing.T) {
	extractor := NewSpectralFeatureExtractor(DefaultConfig())

	summary, err := extractor.Extract(sineBuffer(1000, 2.0, 0.8))
	require.NoError(t, err)

	// A pure tone concentrates all spectral mass at its frequency
	assert.InDelta(t, 1000, summary.SpectralCentroidMean, 100)
	assert.Less(t, summary.SpectralCentroidStd, 100.0)
	assert.InDelta(t, 1000, summary.SpectralRolloffMean, 150)

	// Sine RMS is amplitude/sqrt(2); crossings come at twice the frequency
	assert.InDelta(t, 0.8/math.Sqrt2, summary.RMSEnergyMean, 0.05)
	assert.InDelta(t, 2*1000.0/22050.0, summary.ZeroCrossingRateMean, 0.01)

	require.Len(t, summary.MFCC, 13)
}

func TestSpectralExtractSilence(t *testing.T) {
	extractor := NewSpectralFeatureExtractor(DefaultConfig())

	summary, err := extractor.Extract(silentBuffer(2.0))
	require.NoError(t, err)

	assert.Zero(t, summary.SpectralCentroidMean)
	assert.Zero(t, summary.SpectralRolloffMean)
	assert.Zero(t, summary.RMSEnergyMean)
	assert.Zero(t, summary.ZeroCrossingRateMean)
	require.Len(t, summary.MFCC, 13)
	for _, c := range summary.MFCC {
		assert.Zero(t, c)
	}
}

func TestSpectralCentroidBrightness(t *testing.T) {
	extractor := NewSpectralFeatureExtractor(DefaultConfig())

	dark, err := extractor.Extract(sineBuffer(200, 1.0, 0.8))
	require.NoError(t, err)
	bright, err := extractor.Extract(sineBuffer(6000, 1.0, 0.8))
	require.NoError(t, err)

	assert.Less(t, dark.SpectralCentroidMean, bright.SpectralCentroidMean)
}

func TestSpectralRolloff(t *testing.T) {
	freqs := []float64{0, 100, 200, 300}

	// All energy in one bin: rolloff lands on that bin
	assert.Equal(t, 200.0, spectralRolloff([]float64{0, 0, 1, 0}, freqs, 0.85))
	assert.Equal(t, 0.0, spectralRolloff([]float64{0, 0, 0, 0}, freqs, 0.85))
}

func TestRMSEnergy(t *testing.T) {
	assert.Zero(t, rmsEnergy(nil))
	assert.InDelta(t, 0.5, rmsEnergy([]float64{0.5, -0.5, 0.5, -0.5}), 1e-9)
}

func TestZeroCrossingRate(t *testing.T) {
	assert.Zero(t, zeroCrossingRate([]float64{1}))
	assert.InDelta(t, 1.0, zeroCrossingRate([]float64{1, -1, 1, -1}), 1e-9)
	assert.Zero(t, zeroCrossingRate([]float64{1, 2, 3}))
}

func TestMelFilterBankShape(t *testing.T) {
	bank := melFilterBank(26, 80, 11025, 1025, 22050)
	require.Len(t, bank, 26)
	for _, filter := range bank {
		require.Len(t, filter, 1025)
		peak := 0.0
		for _, w := range filter {
			assert.GreaterOrEqual(t, w, 0.0)
			if w > peak {
				peak = w
			}
		}
		assert.Greater(t, peak, 0.0)
	}
}

func TestDCTIIFirstCoefficient(t *testing.T) {
	// The zeroth DCT coefficient is the sum of the input
	out := dctII([]float64{1, 1, 1, 1}, 2)
	require.Len(t, out, 2)
	assert.InDelta(t, 4.0, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-9)
}
