package extractors

import (
	"math"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio"
	"github.com/RyanBlaney/mood-analyzer/pkg/audio/analyzers"
)

// pitchClassNames are the 12 chromatic pitch classes, index 0 = C
var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// krumhanslMajor is the Krumhansl-Schmuckler major-key profile: empirical
// pitch-class weights from listener probe-tone ratings, tonic first.
var krumhanslMajor = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}

// Chroma frequency band: below ~80 Hz pitch-class mapping is unreliable,
// above 8 kHz harmonics dominate over fundamentals.
const (
	chromaMinFreq = 80.0
	chromaMaxFreq = 8000.0
)

// KeyEstimator derives a pitch-class key estimate from harmonic content.
// It correlates the averaged chroma profile against 12 rotations of a
// major-key template; the estimate is best-effort and does not distinguish
// major from minor mode.
type KeyEstimator struct {
	config   *Config
	analyzer *analyzers.SpectralAnalyzer
	logger   logging.Logger
}

// NewKeyEstimator creates a key estimator
func NewKeyEstimator(config *Config) *KeyEstimator {
	return &KeyEstimator{
		config:   config,
		analyzer: analyzers.NewSpectralAnalyzer(config.SampleRate),
		logger: logging.WithFields(logging.Fields{
			"component": "key_estimator",
		}),
	}
}

// Estimate returns one of the 12 pitch-class names. Silent input returns an
// empty sentinel alongside an AnalysisError.
func (e *KeyEstimator) Estimate(buf *audio.Buffer) (string, error) {
	if len(buf.Samples) == 0 || buf.IsSilent() {
		return "", NewAnalysisError("key", "no harmonic content in silent signal", nil)
	}

	spectrogram, err := e.analyzer.ComputeSTFT(buf.Samples, e.config.WindowSize, e.config.HopSize)
	if err != nil {
		return "", NewAnalysisError("key", "STFT failed", err)
	}

	chroma := e.chromaProfile(spectrogram)

	total := 0.0
	for _, v := range chroma {
		total += v
	}
	if total == 0 {
		return "", NewAnalysisError("key", "no energy in chroma band", nil)
	}

	key, correlation := matchKeyProfile(chroma)

	e.logger.Debug("Key estimated", logging.Fields{
		"key":         pitchClassNames[key],
		"correlation": correlation,
	})

	return pitchClassNames[key], nil
}

// chromaProfile maps spectral energy onto the 12 pitch classes and averages
// across frames
func (e *KeyEstimator) chromaProfile(spectrogram *analyzers.SpectrogramResult) [12]float64 {
	freqs := e.analyzer.GetFrequencyBins(spectrogram.FreqBins)

	var chroma [12]float64
	for t := range spectrogram.TimeFrames {
		magnitude := spectrogram.Magnitude[t]
		for f := range magnitude {
			freq := freqs[f]
			if freq < chromaMinFreq || freq > chromaMaxFreq {
				continue
			}

			// MIDI note = 12*log2(freq/440) + 69; A4 = 440 Hz = note 69
			midiNote := 12*math.Log2(freq/440.0) + 69
			pitchClass := int(math.Round(midiNote)) % 12
			if pitchClass < 0 {
				pitchClass += 12
			}
			chroma[pitchClass] += magnitude[f]
		}
	}

	for i := range chroma {
		chroma[i] /= float64(spectrogram.TimeFrames)
	}
	return chroma
}

// matchKeyProfile correlates the chroma vector against 12 rotations of the
// major-key template and returns the best pitch-class index. Strict
// greater-than keeps ties at the lowest pitch-class index.
func matchKeyProfile(chroma [12]float64) (int, float64) {
	best := 0
	bestCorr := -2.0

	observed := chroma[:]
	expected := make([]float64, 12)
	for key := range 12 {
		for pc := range 12 {
			expected[pc] = krumhanslMajor[(pc-key+12)%12]
		}
		corr := stat.Correlation(observed, expected, nil)
		if corr > bestCorr {
			bestCorr = corr
			best = key
		}
	}
	return best, bestCorr
}
