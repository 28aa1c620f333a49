// Package analysis orchestrates the audio analysis pipeline: decode, the
// concurrent feature estimators, mood classification, and assembly of the
// final result record.
package analysis

import (
	"time"

	"github.com/RyanBlaney/mood-analyzer/pkg/audio/extractors"
)

// Features holds the spectral timbre descriptors of one analyzed file,
// nested under "features" in the serialized record
type Features struct {
	SpectralCentroidMean float64   `json:"spectral_centroid_mean"`
	SpectralCentroidStd  float64   `json:"spectral_centroid_std"`
	SpectralRolloffMean  float64   `json:"spectral_rolloff_mean"`
	RMSEnergyMean        float64   `json:"rms_energy_mean"`
	RMSEnergyStd         float64   `json:"rms_energy_std"`
	ZeroCrossingRateMean float64   `json:"zero_crossing_rate_mean"`
	MFCC                 []float64 `json:"mfcc"`
}

// Result is the single record produced per input file. Exactly one of
// {feature fields, Error} is populated; the record is immutable once
// assembled and carries no reference back into pipeline state.
type Result struct {
	FileName string `json:"file_name"`

	// DurationSeconds covers the full source stream; AnalyzedSeconds covers
	// the window actually analyzed. Callers detect truncation by comparing
	// the two.
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	AnalyzedSeconds float64 `json:"analyzed_seconds,omitempty"`

	TempoBPM       float64 `json:"tempo_bpm,omitempty"`
	BeatRegularity float64 `json:"beat_regularity,omitempty"`
	EstimatedKey   string  `json:"estimated_key,omitempty"`

	Features       *Features                  `json:"features,omitempty"`
	MoodIndicators *extractors.MoodIndicators `json:"mood_indicators,omitempty"`

	Error string `json:"error,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Failed reports whether the record is error-shaped
func (r *Result) Failed() bool {
	return r.Error != ""
}

// Input pairs raw audio bytes with their declared file name
type Input struct {
	FileName string
	Data     []byte
}

// ResultSet wraps a batch of results for tabular output
type ResultSet []*Result

// TableHeader returns the column names for table rendering
func (rs ResultSet) TableHeader() []string {
	return []string{"FILE", "DURATION", "TEMPO", "KEY", "ENERGY", "BRIGHTNESS", "STABILITY", "ERROR"}
}

// TableRows returns one row of cells per result
func (rs ResultSet) TableRows() [][]string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		if r.Failed() {
			rows = append(rows, []string{r.FileName, "-", "-", "-", "-", "-", "-", r.Error})
			continue
		}
		rows = append(rows, []string{
			r.FileName,
			formatSeconds(r.DurationSeconds),
			formatBPM(r.TempoBPM),
			r.EstimatedKey,
			r.MoodIndicators.EnergyLevel,
			r.MoodIndicators.Brightness,
			r.MoodIndicators.RhythmicStability,
			"",
		})
	}
	return rows
}
