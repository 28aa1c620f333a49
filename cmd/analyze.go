package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/mood-analyzer/configs"
	"github.com/RyanBlaney/mood-analyzer/internal/analysis"
	"github.com/RyanBlaney/mood-analyzer/pkg/output"
)

var (
	analyzeConcurrency int
	analyzeOutDir      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze audio files and report tempo, key, timbre, and mood",
	Long: `Runs the full analysis pipeline for each given audio file and prints one
record per file. A file that cannot be decoded produces an error record
instead of aborting the batch.

Examples:
  mood-analyzer analyze track.mp3
  mood-analyzer analyze -o table *.wav
  mood-analyzer analyze --out-dir ./results album/*.flac`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 0,
		"max files analyzed in parallel (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "",
		"write one JSON record per file into this directory")

	viper.BindPFlag("batch.concurrency", analyzeCmd.Flags().Lookup("concurrency"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	config, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	if analyzeConcurrency > 0 {
		config.Batch.Concurrency = analyzeConcurrency
	}

	pipeline, err := analysis.NewPipeline(config)
	if err != nil {
		return err
	}

	inputs := make([]analysis.Input, 0, len(args))
	for _, fileName := range args {
		data, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("reading %s: %w", fileName, err)
		}
		inputs = append(inputs, analysis.Input{FileName: fileName, Data: data})
	}

	results := pipeline.AnalyzeBatch(cmd.Context(), inputs)

	if analyzeOutDir != "" {
		if err := writeResultFiles(analyzeOutDir, results); err != nil {
			return err
		}
	}

	formatter, err := output.NewFormatter(config.OutputFormat)
	if err != nil {
		return err
	}
	if err := formatter.Format(os.Stdout, results); err != nil {
		return fmt.Errorf("formatting results: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed == len(results) {
		return fmt.Errorf("all %d files failed analysis", failed)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed analysis\n", failed, len(results))
	}
	return nil
}

// writeResultFiles stores one indented JSON record per result, named by the
// sanitized document ID of its file name
func writeResultFiles(dir string, results analysis.ResultSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, r := range results {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result for %s: %w", r.FileName, err)
		}
		path := filepath.Join(dir, analysis.DocumentID(r.FileName)+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
