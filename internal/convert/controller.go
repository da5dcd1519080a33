package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/neurocase/neurocase/internal/cache"
	"github.com/neurocase/neurocase/internal/extract"
	"github.com/neurocase/neurocase/internal/generate"
	"github.com/neurocase/neurocase/internal/infer"
	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
	"github.com/neurocase/neurocase/internal/validate"
)

// Controller drives one question through the full pipeline: cache
// lookup, analyze, generate, validate, enhance, cache store. It retries
// complete attempts, never individual steps.
type Controller struct {
	analyzer  *generate.Analyzer
	generator *generate.Generator
	validator *validate.Validator
	cache     cache.Cache
	config    model.Config
}

// NewController wires the pipeline components around one LLM client.
// A nil cache disables caching entirely.
func NewController(client llm.Client, store cache.Cache, cfg model.Config) *Controller {
	return &Controller{
		analyzer:  generate.NewAnalyzer(client),
		generator: generate.NewGenerator(client),
		validator: validate.NewValidator(client, cfg.Validation),
		cache:     store,
		config:    cfg,
	}
}

// TraceEntry is one step of a debug conversion trace.
type TraceEntry struct {
	Timestamp string `json:"timestamp"`
	Step      string `json:"step"`
	Detail    string `json:"detail"`
}

// Convert turns a question into an accepted legacy case. A cache hit
// returns the stored case unchanged; otherwise the controller runs up
// to MaxAttempts full attempts and returns the last failure when all
// of them are rejected.
func (c *Controller) Convert(ctx context.Context, q model.Question) (*model.LegacyCase, error) {
	result, _, err := c.convert(ctx, q, false)
	return result, err
}

// ConvertDebug behaves like Convert and additionally returns the
// step-by-step trace of the run.
func (c *Controller) ConvertDebug(ctx context.Context, q model.Question) (*model.LegacyCase, []TraceEntry, error) {
	return c.convert(ctx, q, true)
}

func (c *Controller) convert(ctx context.Context, q model.Question, traced bool) (*model.LegacyCase, []TraceEntry, error) {
	var trace []TraceEntry
	record := func(step, format string, args ...any) {
		if traced {
			trace = append(trace, TraceEntry{
				Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
				Step:      step,
				Detail:    fmt.Sprintf(format, args...),
			})
		}
	}

	if q.QuestionText == "" {
		return nil, trace, &InvariantError{QuestionID: q.ID, Reason: "empty question text"}
	}

	record("conversion_start", "question %d (%s)", q.ID, q.Subspecialty)

	key := cache.ConversionKey(q.ID)
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			var cached model.LegacyCase
			if err := json.Unmarshal(data, &cached); err == nil {
				record("cache_hit", "returning cached conversion")
				return &cached, trace, nil
			}
			record("cache_corrupt", "discarding unreadable cache entry")
			_ = c.cache.Delete(key)
		} else {
			record("cache_miss", "no cached conversion")
		}
	}

	attempts := c.config.Retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		record("attempt", "starting attempt %d/%d", attempt, attempts)

		legacy, err := c.attempt(ctx, q, record)
		if err == nil {
			record("conversion_success", "accepted on attempt %d", attempt)
			if c.cache != nil {
				if data, merr := json.Marshal(legacy); merr == nil {
					if serr := c.cache.Set(key, data, c.config.Cache.TTL); serr != nil {
						log.Printf("cache store failed for question %d: %v", q.ID, serr)
					}
				}
			}
			return legacy, trace, nil
		}

		lastErr = err
		log.Printf("conversion attempt %d/%d failed for question %d: %v", attempt, attempts, q.ID, err)
		record("attempt_failed", "attempt %d: %v", attempt, err)

		if ctx.Err() != nil {
			return nil, trace, ctx.Err()
		}
	}

	return nil, trace, &RecoverableError{QuestionID: q.ID, Attempt: attempts, Err: lastErr}
}

// attempt runs one full analyze-generate-validate cycle.
func (c *Controller) attempt(ctx context.Context, q model.Question, record func(step, format string, args ...any)) (*model.LegacyCase, error) {
	analysis := c.analyzer.Analyze(ctx, q)
	record("analysis", "type=%s complexity=%s patient=%s",
		analysis.QuestionType, analysis.Complexity, analysis.Demographics.Describe())

	generated, err := c.generator.Generate(ctx, q, analysis)
	if err != nil {
		return nil, err
	}
	record("generation", "concept=%q objectives=%d", generated.CoreConceptType, len(generated.LearningObjectives))

	result := c.validator.Validate(ctx, q, generated)
	record("validation", "status=%s score=%.1f issues=%d", result.Status, result.Score, len(result.Issues))

	if result.Status != model.StatusPassed {
		return nil, fmt.Errorf("validation %s: %s", result.Status, result.Reason)
	}

	return c.toLegacy(q, generated, result), nil
}

// toLegacy flattens an accepted case into the presentation-layer shape,
// enriching the narrative with inferred details and any investigation
// findings the model dropped.
func (c *Controller) toLegacy(q model.Question, generated *model.GeneratedCase, result model.ValidationResult) *model.LegacyCase {
	narrative := infer.EnhanceCase(generated.ClinicalPresentation.HistoryOfPresentIllness, q.QuestionText)
	narrative = extract.BackfillInvestigations(narrative, q.QuestionText)

	return &model.LegacyCase{
		SourceMCQID:          generated.SourceQuestionID,
		ClinicalPresentation: narrative,
		PatientDemographics:  generated.PatientDemographics.Describe(),
		QuestionPrompt:       generated.QuestionPrompt,
		CoreConceptType:      generated.CoreConceptType,
		Specialty:            generated.Specialty,
		QuestionType:         string(generated.QuestionType),
		Difficulty:           string(generated.Complexity),
		Validation: model.LegacyValidation{
			Passed:         result.Status == model.StatusPassed,
			Score:          result.Score,
			Reason:         result.Reason,
			Issues:         result.Issues,
			WarningCount:   len(result.Warnings()),
			CriticalIssues: result.CriticalIssues(),
			ValidatedAt:    result.Metadata.ValidatedAt,
		},
		MCQChecksum:        generated.Metadata.SourceChecksum,
		GeneratedAt:        generated.Metadata.GeneratedAt,
		GeneratorVersion:   generated.Metadata.GeneratorVersion,
		LearningObjectives: generated.LearningObjectives,
	}
}

// ClearCache drops the cached conversion for one question.
func (c *Controller) ClearCache(questionID int) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(cache.ConversionKey(questionID))
}

// Stats describes the controller's static configuration.
type Stats struct {
	CacheVersion string `json:"cache_version"`
	MaxAttempts  int    `json:"max_retry_attempts"`
	CacheEnabled bool   `json:"cache_enabled"`
	Profile      string `json:"profile"`
}

// Stats reports the controller configuration for diagnostics.
func (c *Controller) Stats() Stats {
	return Stats{
		CacheVersion: cache.Version,
		MaxAttempts:  c.config.Retry.MaxAttempts,
		CacheEnabled: c.cache != nil,
		Profile:      c.config.Profile,
	}
}
