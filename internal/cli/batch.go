package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/neurocase/neurocase/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Convert every MCQ in a batch file in parallel",
	Long: `Batch converts a JSON question file concurrently:
- Read questions from a {"mcqs": [...]} JSON document
- Convert questions in parallel with a fixed worker count
- Write one case JSON file per accepted conversion
- Write a batch_summary.json with per-question outcomes
- Report failed conversions with their final validation reason

Example:
  neurocase batch questions.json
  neurocase batch questions.json --workers 5 --output-dir ./cases
  neurocase batch questions.json --profile constrained --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "workers", 5, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./neurocase-out", "output directory for case files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Pipeline flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	batchCmd.Flags().StringVar(&fallbackModel, "llm-fallback-model", "", "fallback model tried when the primary call fails")
	batchCmd.Flags().StringVar(&profile, "profile", "", "deployment profile (standard, constrained)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the conversion cache")
	batchCmd.Flags().StringVar(&cacheBackend, "cache-backend", "", "cache backend (memory, disk, layered, redis)")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the disk cache")
	batchCmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for the redis cache backend")
	batchCmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum validation score to accept a case")
	batchCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "maximum generation attempts per question")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Neurocase Batch Conversion\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Dir = outputDir

	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	controller, err := buildController(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(controller, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading questions from file...\n")
	questions, err := worker.ReadBatchFile(file)
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d questions\n", len(questions))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Converting with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessQuestions(ctx, questions)

	successCount := 0
	failureCount := 0
	entries := make([]batchEntry, 0, len(results))

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			entries = append(entries, batchEntry{QuestionID: result.Question.ID, Error: result.Error.Error()})
			fmt.Fprintf(os.Stderr, "✗ question %d: %v\n", result.Question.ID, result.Error)
			continue
		}

		successCount++

		outPath := filepath.Join(outputDir, fmt.Sprintf("mcq_%d.json", result.Question.ID))
		data, err := json.MarshalIndent(result.Case, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ question %d: encode case: %v\n", result.Question.ID, err)
			continue
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ question %d: write case: %v\n", result.Question.ID, err)
			continue
		}

		entries = append(entries, batchEntry{
			QuestionID: result.Question.ID,
			File:       filepath.Base(outPath),
			Score:      result.Case.Validation.Score,
		})
		fmt.Fprintf(os.Stderr, "✓ question %d (score: %.1f)\n", result.Question.ID, result.Case.Validation.Score)
	}

	if err := writeBatchSummary(outputDir, entries, successCount, failureCount); err != nil {
		fmt.Fprintf(os.Stderr, "✗ write batch summary: %v\n", err)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d questions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// batchEntry is one question's outcome in the batch summary document.
type batchEntry struct {
	QuestionID int     `json:"question_id"`
	File       string  `json:"file,omitempty"`
	Score      float64 `json:"score,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type batchSummary struct {
	Total       int          `json:"total"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	CompletedAt string       `json:"completed_at"`
	Results     []batchEntry `json:"results"`
}

func writeBatchSummary(dir string, entries []batchEntry, succeeded, failed int) error {
	summary := batchSummary{
		Total:       len(entries),
		Succeeded:   succeeded,
		Failed:      failed,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
		Results:     entries,
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "batch_summary.json"), data, 0644)
}
