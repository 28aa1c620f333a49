package extractors

import (
	"math"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio"
	"github.com/RyanBlaney/mood-analyzer/pkg/audio/analyzers"
)

// Conventional musical tempo range and the prior used to resolve octave
// ambiguity. Autocorrelation cannot tell 60 from 120 BPM on its own; folding
// toward a 120 BPM prior is a best-effort heuristic with known failure modes
// on syncopated or atonal material.
const (
	minTempoBPM   = 60.0
	maxTempoBPM   = 200.0
	tempoPriorBPM = 120.0
)

// TempoResult holds the tempo estimate for one buffer
type TempoResult struct {
	BPM float64 `json:"tempo_bpm"`

	// BeatRegularity scores inter-beat-interval consistency in [0,1]:
	// a perfectly periodic signal scores 1.0.
	BeatRegularity float64 `json:"beat_regularity"`
}

// TempoEstimator derives beats-per-minute from the onset-strength envelope
// of a buffer
type TempoEstimator struct {
	config   *Config
	analyzer *analyzers.SpectralAnalyzer
	logger   logging.Logger
}

// NewTempoEstimator creates a tempo estimator
func NewTempoEstimator(config *Config) *TempoEstimator {
	return &TempoEstimator{
		config:   config,
		analyzer: analyzers.NewSpectralAnalyzer(config.SampleRate),
		logger: logging.WithFields(logging.Fields{
			"component": "tempo_estimator",
		}),
	}
}

// Estimate computes tempo and beat regularity. The onset-strength envelope is
// the half-wave rectified spectral flux; its autocorrelation peak gives the
// beat period, refined by parabolic interpolation and folded into the
// conventional tempo range. Silent or aperiodic input returns a zero-valued
// sentinel alongside an AnalysisError; the caller decides whether that
// degrades or fails the record.
func (e *TempoEstimator) Estimate(buf *audio.Buffer) (*TempoResult, error) {
	sentinel := &TempoResult{}

	spectrogram, err := e.analyzer.ComputeSTFT(buf.Samples, e.config.WindowSize, e.config.HopSize)
	if err != nil {
		return sentinel, NewAnalysisError("tempo", "STFT failed", err)
	}

	flux := e.analyzer.ComputeSpectralFlux(spectrogram)
	if len(flux) == 0 || stat.Mean(flux, nil) == 0 {
		return sentinel, NewAnalysisError("tempo", "no detectable onsets in signal", nil)
	}

	frameRate := spectrogram.FrameRate()
	lag := dominantLag(flux, frameRate)
	if lag <= 0 {
		return sentinel, NewAnalysisError("tempo", "no detectable periodicity in onset envelope", nil)
	}

	bpm := foldTempo(60.0 * frameRate / lag)
	regularity := beatRegularity(flux)

	e.logger.Debug("Tempo estimated", logging.Fields{
		"tempo_bpm":       bpm,
		"beat_regularity": regularity,
		"lag_frames":      lag,
	})

	return &TempoResult{BPM: bpm, BeatRegularity: regularity}, nil
}

// dominantLag finds the autocorrelation peak of the onset envelope within the
// musically plausible lag range, returning a fractional lag via three-point
// parabolic interpolation. Returns 0 when no positive peak exists.
func dominantLag(envelope []float64, frameRate float64) float64 {
	mean := stat.Mean(envelope, nil)
	centered := make([]float64, len(envelope))
	for i, v := range envelope {
		centered[i] = v - mean
	}

	// Search lags covering 30-300 BPM; folding narrows the estimate later
	minLag := max(int(frameRate*60.0/300.0), 1)
	maxLag := min(int(frameRate*60.0/30.0), len(centered)-1)
	if maxLag <= minLag {
		return 0
	}

	autocorr := func(lag int) float64 {
		sum := 0.0
		for t := 0; t+lag < len(centered); t++ {
			sum += centered[t] * centered[t+lag]
		}
		return sum
	}

	bestLag := 0
	bestVal := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		if v := autocorr(lag); v > bestVal {
			bestVal = v
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return 0
	}

	// Parabolic interpolation around the integer peak for sub-lag precision
	prev := autocorr(bestLag - 1)
	next := autocorr(bestLag + 1)
	denom := prev - 2*bestVal + next
	offset := 0.0
	if denom != 0 {
		offset = 0.5 * (prev - next) / denom
	}
	if offset > 0.5 || offset < -0.5 {
		offset = 0
	}
	return float64(bestLag) + offset
}

// foldTempo folds an estimate into the conventional range, preferring the
// octave candidate closer to the tempo prior
func foldTempo(bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	for bpm < minTempoBPM {
		bpm *= 2
	}
	for bpm > maxTempoBPM {
		bpm /= 2
	}
	if half := bpm / 2; half >= minTempoBPM && math.Abs(half-tempoPriorBPM) < math.Abs(bpm-tempoPriorBPM) {
		return half
	}
	if double := bpm * 2; double <= maxTempoBPM && math.Abs(double-tempoPriorBPM) < math.Abs(bpm-tempoPriorBPM) {
		return double
	}
	return bpm
}

// beatRegularity scores the consistency of intervals between onset peaks as
// the inverse of the coefficient of variation: 1/(1+cv), clamped to [0,1]
func beatRegularity(envelope []float64) float64 {
	peaks := onsetPeaks(envelope)
	if len(peaks) < 3 {
		return 0
	}

	intervals := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		intervals[i-1] = float64(peaks[i] - peaks[i-1])
	}

	mean := stat.Mean(intervals, nil)
	if mean == 0 {
		return 0
	}
	cv := math.Sqrt(stat.PopVariance(intervals, nil)) / mean

	regularity := 1.0 / (1.0 + cv)
	return math.Min(math.Max(regularity, 0), 1)
}

// onsetPeaks picks local maxima of the envelope above an adaptive threshold
func onsetPeaks(envelope []float64) []int {
	const windowSize = 3

	maxVal := 0.0
	for _, v := range envelope {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		return nil
	}
	threshold := 0.3 * maxVal

	var peaks []int
	for i := windowSize; i < len(envelope)-windowSize; i++ {
		current := envelope[i]
		if current < threshold {
			continue
		}

		isPeak := true
		for j := i - windowSize; j <= i+windowSize; j++ {
			if j != i && envelope[j] >= current {
				isPeak = false
				break
			}
		}
		if isPeak {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
