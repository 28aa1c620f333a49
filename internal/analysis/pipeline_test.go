package analysis

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/mood-analyzer/configs"
	"github.com/RyanBlaney/mood-analyzer/pkg/audio/extractors"
)

func testConfig() *configs.Config {
	return &configs.Config{
		OutputFormat: "json",
		Analysis: configs.AnalysisConfig{
			SampleRate:          22050,
			WindowSize:          2048,
			HopSize:             512,
			MFCCCoefficients:    13,
			MelFilters:          26,
			MaxAnalysisDuration: 60 * time.Second,
		},
		Mood:  extractors.DefaultMoodThresholds(),
		Batch: configs.BatchConfig{Concurrency: 2},
	}
}

// pcm16WAV encodes samples as a 16-bit mono WAV at 22.05 kHz
func pcm16WAV(t *testing.T, samples []float64) []byte {
	t.Helper()
	const sampleRate = 22050

	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, int16(math.Max(-1, math.Min(1, s))*32767))
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func toneWAV(t *testing.T, freq float64, seconds float64) []byte {
	t.Helper()
	n := int(seconds * 22050)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/22050)
	}
	return pcm16WAV(t, samples)
}

func TestNewPipelineRejectsInvalidConfig(t *testing.T) {
	config := testConfig()
	config.Analysis.SampleRate = 0

	_, err := NewPipeline(config)
	require.Error(t, err)

	var configErr *configs.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "analysis.sample_rate", configErr.Field)
}

func TestAnalyzeTone(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	result := pipeline.Analyze(context.Background(), "tone.wav", toneWAV(t, 440, 2.0))
	require.False(t, result.Failed(), "error: %s", result.Error)

	assert.Equal(t, "tone.wav", result.FileName)
	assert.InDelta(t, 2.0, result.DurationSeconds, 0.1)
	assert.InDelta(t, 2.0, result.AnalyzedSeconds, 0.1)
	require.NotNil(t, result.Features)
	assert.InDelta(t, 440, result.Features.SpectralCentroidMean, 100)
	require.NotNil(t, result.MoodIndicators)
	assert.NotEmpty(t, result.MoodIndicators.EnergyLevel)
	assert.NotEmpty(t, result.EstimatedKey)
	assert.False(t, result.ProcessedAt.IsZero())
}

func TestAnalyzeSilenceIsValid(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	result := pipeline.Analyze(context.Background(), "silence.wav", pcm16WAV(t, make([]float64, 2*22050)))
	require.False(t, result.Failed(), "error: %s", result.Error)

	// Silence degrades to sentinels, not to an error record
	assert.Zero(t, result.TempoBPM)
	assert.Zero(t, result.BeatRegularity)
	assert.Empty(t, result.EstimatedKey)
	require.NotNil(t, result.Features)
	assert.Zero(t, result.Features.RMSEnergyMean)
	require.NotNil(t, result.MoodIndicators)
	assert.Equal(t, extractors.EnergyLow, result.MoodIndicators.EnergyLevel)
	assert.Equal(t, extractors.BrightnessDark, result.MoodIndicators.Brightness)
	assert.Equal(t, extractors.StabilityUnstable, result.MoodIndicators.RhythmicStability)
}

func TestAnalyzeCorruptInput(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	result := pipeline.Analyze(context.Background(), "broken.mp3", []byte("ID3 and then garbage bytes follow here"))
	require.True(t, result.Failed())

	assert.Equal(t, "broken.mp3", result.FileName)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.Features)
	assert.Nil(t, result.MoodIndicators)
	assert.False(t, result.ProcessedAt.IsZero())
}

func TestAnalyzeEmptyInput(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	result := pipeline.Analyze(context.Background(), "empty.wav", nil)
	require.True(t, result.Failed())
	assert.Contains(t, result.Error, "empty")
}

func TestAnalyzeBatchOrderAndIsolation(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	inputs := []Input{
		{FileName: "a.wav", Data: toneWAV(t, 440, 1.0)},
		{FileName: "b.bin", Data: []byte("not audio at all, nothing decodable")},
		{FileName: "c.wav", Data: toneWAV(t, 880, 1.0)},
	}

	results := pipeline.AnalyzeBatch(context.Background(), inputs)
	require.Len(t, results, 3)

	// Input order survives concurrent execution
	assert.Equal(t, "a.wav", results[0].FileName)
	assert.Equal(t, "b.bin", results[1].FileName)
	assert.Equal(t, "c.wav", results[2].FileName)

	// The failing file does not disturb its neighbors
	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
	assert.False(t, results[2].Failed())
}

func TestAnalyzeIdempotent(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	data := toneWAV(t, 440, 1.0)
	first := pipeline.Analyze(context.Background(), "tone.wav", data)
	second := pipeline.Analyze(context.Background(), "tone.wav", data)

	require.False(t, first.Failed())
	require.False(t, second.Failed())
	assert.Equal(t, first.TempoBPM, second.TempoBPM)
	assert.Equal(t, first.EstimatedKey, second.EstimatedKey)
	assert.Equal(t, first.Features, second.Features)
	assert.Equal(t, first.MoodIndicators, second.MoodIndicators)
}
