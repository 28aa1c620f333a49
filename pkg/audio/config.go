package audio

import "time"

// Config contains decoder settings
type Config struct {
	// SampleRate is the fixed internal analysis rate all sources are
	// resampled to.
	SampleRate int `json:"sample_rate"`

	// MaxAnalysisDuration bounds the analysis window. Sources longer than
	// this are truncated to the leading window; Buffer.Truncated records it.
	MaxAnalysisDuration time.Duration `json:"max_analysis_duration"`

	// FFmpegPath overrides the ffmpeg binary used for M4A/AAC decoding.
	// Empty means "ffmpeg" resolved from PATH.
	FFmpegPath string `json:"ffmpeg_path"`
}

// DefaultConfig returns decoder settings matching the analysis defaults:
// 22.05 kHz mono, leading 60 seconds.
func DefaultConfig() *Config {
	return &Config{
		SampleRate:          22050,
		MaxAnalysisDuration: 60 * time.Second,
	}
}
