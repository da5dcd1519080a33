package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/neurocase/neurocase/internal/model"
)

// Converter is the conversion entry point the batch processor drives
type Converter interface {
	Convert(ctx context.Context, q model.Question) (*model.LegacyCase, error)
}

// ConvertJob converts one question
type ConvertJob struct {
	Question  model.Question
	Converter Converter
}

// Execute runs the conversion
func (j *ConvertJob) Execute(ctx context.Context) Result {
	legacy, err := j.Converter.Convert(ctx, j.Question)
	return &ConvertResult{
		Question: j.Question,
		Case:     legacy,
		Error:    err,
	}
}

// ConvertResult is the outcome of one conversion job
type ConvertResult struct {
	Question model.Question
	Case     *model.LegacyCase
	Error    error
}

// GetError returns the error from the conversion
func (r *ConvertResult) GetError() error {
	return r.Error
}

// BatchProcessor converts many questions concurrently. Questions are
// fanned out across the pool; each conversion is sequential inside its
// worker.
type BatchProcessor struct {
	converter   Converter
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(converter Converter, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		converter:   converter,
		concurrency: concurrency,
	}
}

// ProcessQuestions converts the given questions concurrently
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []model.Question) []*ConvertResult {
	if len(questions) == 0 {
		return []*ConvertResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, q := range questions {
		pool.Submit(&ConvertJob{Question: q, Converter: b.converter})
	}

	results := pool.Wait()

	converted := make([]*ConvertResult, len(results))
	for i, result := range results {
		converted[i] = result.(*ConvertResult)
	}
	return converted
}

// ProcessFile reads a batch file and converts every question in it
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ConvertResult, error) {
	questions, err := ReadBatchFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return b.ProcessQuestions(ctx, questions), nil
}

// batchEntry mirrors one element of the "mcqs" array in a batch file.
// The id and subspecialty fields are optional; entries without an id
// are numbered by position.
type batchEntry struct {
	ID                int      `json:"id"`
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	CorrectAnswer     string   `json:"correct_answer"`
	CorrectAnswerText string   `json:"correct_answer_text"`
	Subspecialty      string   `json:"subspecialty"`
}

type batchFile struct {
	MCQs []batchEntry `json:"mcqs"`
}

// ReadBatchFile parses a {"mcqs": [...]} JSON document into questions.
// Entries with empty question text are skipped.
func ReadBatchFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var doc batchFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	var questions []model.Question
	for i, entry := range doc.MCQs {
		if entry.Question == "" {
			continue
		}
		id := entry.ID
		if id == 0 {
			id = i + 1
		}
		questions = append(questions, model.Question{
			ID:                id,
			QuestionText:      entry.Question,
			CorrectAnswer:     entry.CorrectAnswer,
			CorrectAnswerText: entry.CorrectAnswerText,
			Subspecialty:      entry.Subspecialty,
		})
	}

	return questions, nil
}
