package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/neurocase/neurocase/internal/model"
	"github.com/spf13/cobra"
)

var (
	questionID     int
	subspecialty   string
	correctAnswer  string
	convertTimeout time.Duration
	outJSON        string
	debugTrace     bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <question-text>",
	Short: "Convert a single MCQ into a clinical case",
	Long: `Convert generates a narrative case from one question:
- Extracts critical clinical details from the question text
- Generates a case via the configured LLM with preservation constraints
- Validates the result and retries until accepted or exhausted
- Prints the accepted case as JSON

Example:
  neurocase convert "A 7-year-old boy with right-sided weakness..." --id 42 --subspecialty Epilepsy
  neurocase convert "..." --id 42 --llm-provider openai --llm-model gpt-4o-mini --json case.json
  neurocase convert "..." --id 42 --debug`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Question flags
	convertCmd.Flags().IntVar(&questionID, "id", 1, "source question id")
	convertCmd.Flags().StringVar(&subspecialty, "subspecialty", "", "question subspecialty")
	convertCmd.Flags().StringVar(&correctAnswer, "correct-answer", "", "marked correct answer")

	// Output flags
	convertCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	convertCmd.Flags().BoolVar(&debugTrace, "debug", false, "print the step-by-step conversion trace to stderr")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", 5*time.Minute, "overall conversion timeout")

	// Pipeline flags
	convertCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	convertCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	convertCmd.Flags().StringVar(&fallbackModel, "llm-fallback-model", "", "fallback model tried when the primary call fails")
	convertCmd.Flags().StringVar(&profile, "profile", "", "deployment profile (standard, constrained)")
	convertCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the conversion cache")
	convertCmd.Flags().StringVar(&cacheBackend, "cache-backend", "", "cache backend (memory, disk, layered, redis)")
	convertCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the disk cache")
	convertCmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for the redis cache backend")
	convertCmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum validation score to accept a case")
	convertCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "maximum generation attempts per question")
}

func runConvert(cmd *cobra.Command, args []string) error {
	q := model.Question{
		ID:            questionID,
		QuestionText:  args[0],
		CorrectAnswer: correctAnswer,
		Subspecialty:  subspecialty,
	}

	ctx, cancel := context.WithTimeout(context.Background(), convertTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	controller, err := buildController(cfg)
	if err != nil {
		return err
	}

	if verbose {
		stats := controller.Stats()
		fmt.Fprintf(os.Stderr, "Converting question %d (%s)\n", q.ID, q.Subspecialty)
		fmt.Fprintf(os.Stderr, "Model: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Cache: %s (enabled: %t), attempts: %d, profile: %s\n",
			stats.CacheVersion, stats.CacheEnabled, stats.MaxAttempts, stats.Profile)
		fmt.Fprintln(os.Stderr)
	}

	var legacy *model.LegacyCase
	if debugTrace {
		result, entries, cerr := controller.ConvertDebug(ctx, q)
		for _, e := range entries {
			fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", e.Timestamp, e.Step, e.Detail)
		}
		if cerr != nil {
			return fmt.Errorf("conversion failed: %w", cerr)
		}
		legacy = result
	} else {
		result, cerr := controller.Convert(ctx, q)
		if cerr != nil {
			return fmt.Errorf("conversion failed: %w", cerr)
		}
		legacy = result
	}

	data, err := json.MarshalIndent(legacy, "", "  ")
	if err != nil {
		return fmt.Errorf("encode case: %w", err)
	}

	if outJSON == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outJSON, data, 0644); err != nil {
		return fmt.Errorf("write case: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s (score: %.1f)\n", outJSON, legacy.Validation.Score)
	}
	return nil
}
