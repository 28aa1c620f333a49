// Package extractors derives the musical descriptors reported by the analysis
// pipeline: tempo, key, spectral timbre summaries, and mood labels. The tempo,
// key, and spectral extractors are independent of one another and read the
// same immutable audio buffer, so callers may run them concurrently.
package extractors

// Config contains the shared framing parameters for feature extraction
type Config struct {
	SampleRate       int `json:"sample_rate"`
	WindowSize       int `json:"window_size"`
	HopSize          int `json:"hop_size"`
	MFCCCoefficients int `json:"mfcc_coefficients"`
	MelFilters       int `json:"mel_filters"`
}

// DefaultConfig returns extraction parameters matching the analysis defaults
func DefaultConfig() *Config {
	return &Config{
		SampleRate:       22050,
		WindowSize:       2048,
		HopSize:          512,
		MFCCCoefficients: 13,
		MelFilters:       26,
	}
}

// AnalysisError reports that an estimator could not produce a meaningful
// value for an otherwise decodable input, e.g. tempo detection over silence.
// It carries a sentinel result rather than aborting the record; the assembler
// decides whether it degrades or fails the record.
type AnalysisError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return e.Stage + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Stage + ": " + e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// NewAnalysisError creates a new analysis error for the given stage
func NewAnalysisError(stage, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}
