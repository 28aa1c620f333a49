package configs

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio/extractors"
)

func validConfig() *Config {
	return &Config{
		OutputFormat: "json",
		Analysis: AnalysisConfig{
			SampleRate:          22050,
			WindowSize:          2048,
			HopSize:             512,
			MFCCCoefficients:    13,
			MelFilters:          26,
			MaxAnalysisDuration: 60 * time.Second,
		},
		Mood:  extractors.DefaultMoodThresholds(),
		Batch: BatchConfig{Concurrency: 4},
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"zero sample rate", func(c *Config) { c.Analysis.SampleRate = 0 }, "analysis.sample_rate"},
		{"negative window", func(c *Config) { c.Analysis.WindowSize = -1 }, "analysis.window_size"},
		{"zero hop", func(c *Config) { c.Analysis.HopSize = 0 }, "analysis.hop_size"},
		{"hop larger than window", func(c *Config) { c.Analysis.HopSize = 4096 }, "analysis.hop_size"},
		{"zero mfcc", func(c *Config) { c.Analysis.MFCCCoefficients = 0 }, "analysis.mfcc_coefficients"},
		{"too few mel filters", func(c *Config) { c.Analysis.MelFilters = 5 }, "analysis.mel_filters"},
		{"zero window duration", func(c *Config) { c.Analysis.MaxAnalysisDuration = 0 }, "analysis.max_analysis_duration"},
		{"inverted tempo band", func(c *Config) { c.Mood.TempoLow = 150 }, "mood.tempo_low"},
		{"inverted rms band", func(c *Config) { c.Mood.RMSLow = 0.5 }, "mood.rms_low"},
		{"inverted centroid band", func(c *Config) { c.Mood.CentroidDark = 5000 }, "mood.centroid_dark"},
		{"inverted regularity band", func(c *Config) { c.Mood.RegularityUnstable = 0.9 }, "mood.regularity_unstable"},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "batch.concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := ValidateConfig(config)
			require.Error(t, err)

			var configErr *ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.wantField, configErr.Field)
		})
	}
}

func TestSetDefaultsProducesValidConfig(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	var config Config
	require.NoError(t, v.Unmarshal(&config))

	assert.NoError(t, ValidateConfig(&config))
	assert.Equal(t, 22050, config.Analysis.SampleRate)
	assert.Equal(t, 60*time.Second, config.Analysis.MaxAnalysisDuration)
	assert.Equal(t, extractors.DefaultMoodThresholds(), config.Mood)
	assert.Equal(t, 4, config.Batch.Concurrency)
	assert.Equal(t, "json", config.OutputFormat)
}

func TestSetDefaultsKeepsExistingValues(t *testing.T) {
	v := viper.New()
	v.Set("analysis.sample_rate", 44100)
	v.Set("batch.concurrency", 8)
	SetDefaults(v)

	assert.Equal(t, 44100, v.GetInt("analysis.sample_rate"))
	assert.Equal(t, 8, v.GetInt("batch.concurrency"))
	assert.Equal(t, 2048, v.GetInt("analysis.window_size"))
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := NewConfigurationError("analysis.hop_size", "must be positive")
	assert.Equal(t, "invalid configuration: analysis.hop_size: must be positive", err.Error())
}
