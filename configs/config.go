package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio/extractors"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Analysis parameters
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Mood classification cutoffs
	Mood extractors.MoodThresholds `mapstructure:"mood"`

	// Batch execution settings
	Batch BatchConfig `mapstructure:"batch"`
}

// AnalysisConfig contains decode and feature-extraction settings
type AnalysisConfig struct {
	SampleRate          int           `mapstructure:"sample_rate"`
	WindowSize          int           `mapstructure:"window_size"`
	HopSize             int           `mapstructure:"hop_size"`
	MFCCCoefficients    int           `mapstructure:"mfcc_coefficients"`
	MelFilters          int           `mapstructure:"mel_filters"`
	MaxAnalysisDuration time.Duration `mapstructure:"max_analysis_duration"`
	FFmpegPath          string        `mapstructure:"ffmpeg_path"`
}

// BatchConfig contains batch execution settings
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// ConfigurationError reports invalid analysis parameters. It is fatal at
// startup: the pipeline refuses to construct, no per-file handling applies.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// NewConfigurationError creates a configuration error for the given field
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	a := config.Analysis

	if a.SampleRate <= 0 {
		return NewConfigurationError("analysis.sample_rate", "must be positive")
	}
	if a.WindowSize <= 0 {
		return NewConfigurationError("analysis.window_size", "must be positive")
	}
	if a.HopSize <= 0 {
		return NewConfigurationError("analysis.hop_size", "must be positive")
	}
	if a.HopSize > a.WindowSize {
		return NewConfigurationError("analysis.hop_size", "cannot exceed window size")
	}
	if a.MFCCCoefficients <= 0 {
		return NewConfigurationError("analysis.mfcc_coefficients", "must be positive")
	}
	if a.MelFilters < a.MFCCCoefficients {
		return NewConfigurationError("analysis.mel_filters", "must be at least mfcc_coefficients")
	}
	if a.MaxAnalysisDuration <= 0 {
		return NewConfigurationError("analysis.max_analysis_duration", "must be positive")
	}

	m := config.Mood
	if m.TempoLow > m.TempoHigh {
		return NewConfigurationError("mood.tempo_low", "cannot exceed mood.tempo_high")
	}
	if m.RMSLow > m.RMSHigh {
		return NewConfigurationError("mood.rms_low", "cannot exceed mood.rms_high")
	}
	if m.CentroidDark > m.CentroidBright {
		return NewConfigurationError("mood.centroid_dark", "cannot exceed mood.centroid_bright")
	}
	if m.RegularityUnstable > m.RegularityStable {
		return NewConfigurationError("mood.regularity_unstable", "cannot exceed mood.regularity_stable")
	}

	if config.Batch.Concurrency <= 0 {
		return NewConfigurationError("batch.concurrency", "must be positive")
	}

	return nil
}
