package extractors

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio"
)

// triadBuffer mixes equal-amplitude sines at the given frequencies
func triadBuffer(freqs []float64, seconds float64) *audio.Buffer {
	sampleRate := 22050
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		sum := 0.0
		for _, f := range freqs {
			sum += math.Sin(2 * math.Pi * f * float64(i) / float64(sampleRate))
		}
		samples[i] = 0.3 * sum
	}
	return &audio.Buffer{Samples: samples, SampleRate: sampleRate}
}

func TestKeyEstimateCMajorTriad(t *testing.T) {
	estimator := NewKeyEstimator(DefaultConfig())

	// C4, E4, G4
	key, err := estimator.Estimate(triadBuffer([]float64{261.63, 329.63, 392.00}, 2.0))
	require.NoError(t, err)
	assert.Equal(t, "C", key)
}

func TestKeyEstimateAMajorTriad(t *testing.T) {
	estimator := NewKeyEstimator(DefaultConfig())

	// A4, C#5, E5
	key, err := estimator.Estimate(triadBuffer([]float64{440.00, 554.37, 659.25}, 2.0))
	require.NoError(t, err)
	assert.Equal(t, "A", key)
}

func TestKeyEstimateSilence(t *testing.T) {
	estimator := NewKeyEstimator(DefaultConfig())

	key, err := estimator.Estimate(silentBuffer(2.0))
	require.Error(t, err)
	assert.Empty(t, key)

	var analysisErr *AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Equal(t, "key", analysisErr.Stage)
}

func TestMatchKeyProfileRotations(t *testing.T) {
	for key := range 12 {
		var chroma [12]float64
		for pc := range 12 {
			chroma[pc] = krumhanslMajor[(pc-key+12)%12]
		}

		got, corr := matchKeyProfile(chroma)
		assert.Equal(t, key, got, "rotation %d should match key %s", key, pitchClassNames[key])
		assert.InDelta(t, 1.0, corr, 1e-9)
	}
}

func TestChromaProfilePitchClassMapping(t *testing.T) {
	estimator := NewKeyEstimator(DefaultConfig())

	buf := triadBuffer([]float64{440.00}, 1.0) // A4
	spectrogram, err := estimator.analyzer.ComputeSTFT(buf.Samples, 2048, 512)
	require.NoError(t, err)

	chroma := estimator.chromaProfile(spectrogram)

	// Pitch class A (index 9) should dominate
	best := 0
	for pc, v := range chroma {
		if v > chroma[best] {
			best = pc
		}
	}
	assert.Equal(t, 9, best)
}
