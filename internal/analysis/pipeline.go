package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/mood-analyzer/configs"
	"github.com/RyanBlaney/mood-analyzer/pkg/audio"
	"github.com/RyanBlaney/mood-analyzer/pkg/audio/extractors"
)

// Pipeline runs the complete analysis flow for one or more audio files:
// decode, the three concurrent estimators, mood classification, and record
// assembly. A Pipeline is immutable after construction and safe for
// concurrent use.
type Pipeline struct {
	config   *configs.Config
	decoder  *audio.Decoder
	tempo    *extractors.TempoEstimator
	key      *extractors.KeyEstimator
	spectral *extractors.SpectralFeatureExtractor
	mood     *extractors.MoodClassifier
	logger   logging.Logger
}

// NewPipeline validates the configuration and builds the pipeline. Invalid
// parameters fail construction; nothing is handled per file.
func NewPipeline(config *configs.Config) (*Pipeline, error) {
	if err := configs.ValidateConfig(config); err != nil {
		return nil, err
	}

	extractorCfg := &extractors.Config{
		SampleRate:       config.Analysis.SampleRate,
		WindowSize:       config.Analysis.WindowSize,
		HopSize:          config.Analysis.HopSize,
		MFCCCoefficients: config.Analysis.MFCCCoefficients,
		MelFilters:       config.Analysis.MelFilters,
	}

	return &Pipeline{
		config: config,
		decoder: audio.NewDecoder(&audio.Config{
			SampleRate:          config.Analysis.SampleRate,
			MaxAnalysisDuration: config.Analysis.MaxAnalysisDuration,
			FFmpegPath:          config.Analysis.FFmpegPath,
		}),
		tempo:    extractors.NewTempoEstimator(extractorCfg),
		key:      extractors.NewKeyEstimator(extractorCfg),
		spectral: extractors.NewSpectralFeatureExtractor(extractorCfg),
		mood:     extractors.NewMoodClassifier(config.Mood),
		logger: logging.WithFields(logging.Fields{
			"component": "analysis_pipeline",
		}),
	}, nil
}

// Analyze produces the record for a single file. It never returns a Go
// error: any decode or extraction failure yields an error-shaped record so
// batch callers keep one record per input.
func (p *Pipeline) Analyze(ctx context.Context, fileName string, data []byte) (result *Result) {
	logger := p.logger.WithFields(logging.Fields{"file": fileName})
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Errorf("panic: %v", r), "analysis panicked")
			result = p.errorResult(fileName, fmt.Sprintf("internal error: %v", r))
		}
	}()

	buf, err := p.decoder.Decode(ctx, data, fileName)
	if err != nil {
		logger.Warn("decode failed", logging.Fields{"error": err.Error()})
		return p.errorResult(fileName, err.Error())
	}

	var (
		tempoRes *extractors.TempoResult
		keyName  string
		summary  *extractors.SpectralSummary
	)

	// The estimators only read the buffer, so they run concurrently. An
	// AnalysisError degrades its own field and the record stays valid;
	// anything else fails the record.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverAsError("tempo", &err)
		tempoRes, err = p.tempo.Estimate(buf)
		return degrade(err)
	})
	g.Go(func() (err error) {
		defer recoverAsError("key", &err)
		keyName, err = p.key.Estimate(buf)
		return degrade(err)
	})
	g.Go(func() (err error) {
		defer recoverAsError("spectral", &err)
		summary, err = p.spectral.Extract(buf)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn("extraction failed", logging.Fields{"error": err.Error()})
		return p.errorResult(fileName, err.Error())
	}

	if tempoRes == nil {
		tempoRes = &extractors.TempoResult{}
	}

	indicators := p.mood.Classify(
		tempoRes.BPM,
		summary.RMSEnergyMean,
		summary.SpectralCentroidMean,
		tempoRes.BeatRegularity,
	)

	logger.Debug("analysis complete", logging.Fields{
		"tempo_bpm":  tempoRes.BPM,
		"key":        keyName,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})

	return &Result{
		FileName:        fileName,
		DurationSeconds: buf.SourceDuration.Seconds(),
		AnalyzedSeconds: buf.Duration().Seconds(),
		TempoBPM:        tempoRes.BPM,
		BeatRegularity:  tempoRes.BeatRegularity,
		EstimatedKey:    keyName,
		Features: &Features{
			SpectralCentroidMean: summary.SpectralCentroidMean,
			SpectralCentroidStd:  summary.SpectralCentroidStd,
			SpectralRolloffMean:  summary.SpectralRolloffMean,
			RMSEnergyMean:        summary.RMSEnergyMean,
			RMSEnergyStd:         summary.RMSEnergyStd,
			ZeroCrossingRateMean: summary.ZeroCrossingRateMean,
			MFCC:                 summary.MFCC,
		},
		MoodIndicators: &indicators,
		ProcessedAt:    time.Now().UTC(),
	}
}

// AnalyzeBatch analyzes every input under a bounded worker pool and returns
// one record per input in input order. A failed file never affects its
// neighbors.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, inputs []Input) ResultSet {
	results := make(ResultSet, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Batch.Concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			results[i] = p.Analyze(gctx, in.FileName, in.Data)
			return nil
		})
	}
	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()

	return results
}

func (p *Pipeline) errorResult(fileName, message string) *Result {
	return &Result{
		FileName:    fileName,
		Error:       message,
		ProcessedAt: time.Now().UTC(),
	}
}

// degrade swallows AnalysisError so sentinel values flow into the record
func degrade(err error) error {
	var analysisErr *extractors.AnalysisError
	if errors.As(err, &analysisErr) {
		return nil
	}
	return err
}

func recoverAsError(stage string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: panic: %v", stage, r)
	}
}
