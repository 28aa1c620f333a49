package configs

import (
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio/extractors"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "json")
	}

	// Analysis defaults: 22.05 kHz mono, 2048/512 Hann framing, 13 MFCCs
	// over a 26-filter mel bank, leading 60 seconds analyzed
	if !v.IsSet("analysis.sample_rate") {
		v.Set("analysis.sample_rate", 22050)
	}
	if !v.IsSet("analysis.window_size") {
		v.Set("analysis.window_size", 2048)
	}
	if !v.IsSet("analysis.hop_size") {
		v.Set("analysis.hop_size", 512)
	}
	if !v.IsSet("analysis.mfcc_coefficients") {
		v.Set("analysis.mfcc_coefficients", 13)
	}
	if !v.IsSet("analysis.mel_filters") {
		v.Set("analysis.mel_filters", 26)
	}
	if !v.IsSet("analysis.max_analysis_duration") {
		v.Set("analysis.max_analysis_duration", 60*time.Second)
	}
	if !v.IsSet("analysis.ffmpeg_path") {
		v.Set("analysis.ffmpeg_path", "")
	}

	// Mood classification defaults
	thresholds := extractors.DefaultMoodThresholds()
	if !v.IsSet("mood.tempo_high") {
		v.Set("mood.tempo_high", thresholds.TempoHigh)
	}
	if !v.IsSet("mood.tempo_low") {
		v.Set("mood.tempo_low", thresholds.TempoLow)
	}
	if !v.IsSet("mood.rms_high") {
		v.Set("mood.rms_high", thresholds.RMSHigh)
	}
	if !v.IsSet("mood.rms_low") {
		v.Set("mood.rms_low", thresholds.RMSLow)
	}
	if !v.IsSet("mood.centroid_bright") {
		v.Set("mood.centroid_bright", thresholds.CentroidBright)
	}
	if !v.IsSet("mood.centroid_dark") {
		v.Set("mood.centroid_dark", thresholds.CentroidDark)
	}
	if !v.IsSet("mood.regularity_stable") {
		v.Set("mood.regularity_stable", thresholds.RegularityStable)
	}
	if !v.IsSet("mood.regularity_unstable") {
		v.Set("mood.regularity_unstable", thresholds.RegularityUnstable)
	}

	// Batch defaults
	if !v.IsSet("batch.concurrency") {
		v.Set("batch.concurrency", 4)
	}
}
