package extractors

import (
	"math"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio"
	"github.com/RyanBlaney/mood-analyzer/pkg/audio/analyzers"
)

// SpectralSummary holds the across-frame timbre descriptors for one buffer
type SpectralSummary struct {
	SpectralCentroidMean float64   `json:"spectral_centroid_mean"`
	SpectralCentroidStd  float64   `json:"spectral_centroid_std"`
	SpectralRolloffMean  float64   `json:"spectral_rolloff_mean"`
	RMSEnergyMean        float64   `json:"rms_energy_mean"`
	RMSEnergyStd         float64   `json:"rms_energy_std"`
	ZeroCrossingRateMean float64   `json:"zero_crossing_rate_mean"`
	MFCC                 []float64 `json:"mfcc"`
}

// SpectralFeatureExtractor computes frame-averaged timbre descriptors:
// spectral centroid, rolloff, RMS energy, zero-crossing rate, and an MFCC
// coefficient vector.
type SpectralFeatureExtractor struct {
	config   *Config
	analyzer *analyzers.SpectralAnalyzer
	logger   logging.Logger
}

// NewSpectralFeatureExtractor creates a spectral feature extractor
func NewSpectralFeatureExtractor(config *Config) *SpectralFeatureExtractor {
	return &SpectralFeatureExtractor{
		config:   config,
		analyzer: analyzers.NewSpectralAnalyzer(config.SampleRate),
		logger: logging.WithFields(logging.Fields{
			"component": "spectral_feature_extractor",
		}),
	}
}

// Extract computes per-frame descriptors over Hann-windowed frames and
// averages them (mean, with std for centroid and RMS). All-zero input yields
// zero-valued descriptors, not an error.
func (e *SpectralFeatureExtractor) Extract(buf *audio.Buffer) (*SpectralSummary, error) {
	if len(buf.Samples) == 0 || buf.IsSilent() {
		return &SpectralSummary{MFCC: make([]float64, e.config.MFCCCoefficients)}, nil
	}

	spectrogram, err := e.analyzer.ComputeSTFT(buf.Samples, e.config.WindowSize, e.config.HopSize)
	if err != nil {
		return nil, NewAnalysisError("spectral", "STFT failed", err)
	}

	freqs := e.analyzer.GetFrequencyBins(spectrogram.FreqBins)
	filterBank := melFilterBank(e.config.MelFilters, 80, float64(e.config.SampleRate)/2,
		spectrogram.FreqBins, e.config.SampleRate)

	centroids := make([]float64, spectrogram.TimeFrames)
	rolloffs := make([]float64, spectrogram.TimeFrames)
	rmsValues := make([]float64, spectrogram.TimeFrames)
	zcrValues := make([]float64, spectrogram.TimeFrames)
	mfccSums := make([]float64, e.config.MFCCCoefficients)

	for t := range spectrogram.TimeFrames {
		magnitude := spectrogram.Magnitude[t]
		centroids[t] = spectralCentroid(magnitude, freqs)
		rolloffs[t] = spectralRolloff(magnitude, freqs, 0.85)

		frame := timeFrame(buf.Samples, t, e.config.WindowSize, e.config.HopSize)
		rmsValues[t] = rmsEnergy(frame)
		zcrValues[t] = zeroCrossingRate(frame)

		for k, c := range mfccFrame(magnitude, filterBank, e.config.MFCCCoefficients) {
			mfccSums[k] += c
		}
	}

	mfccMeans := make([]float64, e.config.MFCCCoefficients)
	for k := range mfccMeans {
		mfccMeans[k] = mfccSums[k] / float64(spectrogram.TimeFrames)
	}

	summary := &SpectralSummary{
		SpectralCentroidMean: stat.Mean(centroids, nil),
		SpectralCentroidStd:  stat.PopStdDev(centroids, nil),
		SpectralRolloffMean:  stat.Mean(rolloffs, nil),
		RMSEnergyMean:        stat.Mean(rmsValues, nil),
		RMSEnergyStd:         stat.PopStdDev(rmsValues, nil),
		ZeroCrossingRateMean: stat.Mean(zcrValues, nil),
		MFCC:                 mfccMeans,
	}

	e.logger.Debug("Spectral features extracted", logging.Fields{
		"frames":        spectrogram.TimeFrames,
		"centroid_mean": summary.SpectralCentroidMean,
		"rms_mean":      summary.RMSEnergyMean,
	})

	return summary, nil
}

// timeFrame extracts frame t from the signal, matching STFT framing
func timeFrame(samples []float64, t, windowSize, hopSize int) []float64 {
	start := t * hopSize
	if start >= len(samples) {
		return nil
	}
	end := min(start+windowSize, len(samples))
	return samples[start:end]
}

// spectralCentroid computes the frequency-weighted center of mass
func spectralCentroid(magnitude, freqs []float64) float64 {
	if len(magnitude) != len(freqs) {
		return 0
	}

	numerator := 0.0
	denominator := 0.0
	for i := range magnitude {
		numerator += freqs[i] * magnitude[i]
		denominator += magnitude[i]
	}

	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// spectralRolloff computes the frequency below which the given fraction of
// total spectral energy lies
func spectralRolloff(magnitude, freqs []float64, threshold float64) float64 {
	totalEnergy := 0.0
	for _, mag := range magnitude {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return 0
	}

	targetEnergy := threshold * totalEnergy
	cumulativeEnergy := 0.0
	for i := range magnitude {
		cumulativeEnergy += magnitude[i] * magnitude[i]
		if cumulativeEnergy >= targetEnergy {
			if i < len(freqs) {
				return freqs[i]
			}
			break
		}
	}

	if len(freqs) > 0 {
		return freqs[len(freqs)-1]
	}
	return 0
}

// rmsEnergy computes root-mean-square energy of a time-domain frame
func rmsEnergy(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	sum := 0.0
	for _, sample := range frame {
		sum += sample * sample
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// zeroCrossingRate computes the fraction of adjacent sample pairs that change
// sign
func zeroCrossingRate(frame []float64) float64 {
	if len(frame) <= 1 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1)
}
