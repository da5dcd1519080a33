package generate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neurocase/neurocase/internal/extract"
	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
)

// GeneratorVersion tags every generated case and participates in cache
// keys, so bumping it invalidates previously cached conversions.
const GeneratorVersion = "v2.0.0"

// Generator turns an analyzed question into a structured clinical case
// by prompting the LLM with preservation constraints assembled from the
// question text.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a generator around an LLM client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// caseResponse is the JSON shape the model is asked to return.
type caseResponse struct {
	SourceMCQID          int                        `json:"source_mcq_id"`
	ClinicalPresentation model.ClinicalPresentation `json:"clinical_presentation"`
	QuestionPrompt       string                     `json:"question_prompt"`
	CoreConceptType      string                     `json:"core_concept_type"`
	LearningObjectives   []string                   `json:"learning_objectives"`
}

// Generate runs one generation attempt. The returned case always
// carries the true source question id; the id the model echoed back is
// recorded in metadata for auditing.
func (g *Generator) Generate(ctx context.Context, q model.Question, analysis Analysis) (*model.GeneratedCase, error) {
	if g.client == nil {
		return nil, fmt.Errorf("generate: no LLM client configured")
	}

	findings := extract.Extract(q.QuestionText)
	preservation := extract.RenderPrompt(extract.BuildRequirements(findings))
	investigations := extract.BuildInvestigationPrompt(q.QuestionText)

	prompt := buildGenerationPrompt(q, analysis, preservation, investigations)

	content, err := g.client.Complete(ctx, []llm.Message{
		{Role: "user", Content: prompt},
	}, llm.Options{Temperature: 0.3, MaxTokens: 2000})
	if err != nil {
		return nil, fmt.Errorf("generate: completion failed for question %d: %w", q.ID, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("generate: empty completion for question %d", q.ID)
	}

	raw := llm.ExtractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("generate: no JSON object in completion for question %d", q.ID)
	}

	var resp caseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("generate: unparseable case for question %d: %w", q.ID, err)
	}

	pres := resp.ClinicalPresentation
	if pres.PastMedicalHistory == nil {
		pres.PastMedicalHistory = []string{}
	}
	if pres.Medications == nil {
		pres.Medications = []string{}
	}
	if pres.VitalSigns == nil {
		pres.VitalSigns = map[string]string{}
	}
	objectives := resp.LearningObjectives
	if objectives == nil {
		objectives = []string{}
	}

	return &model.GeneratedCase{
		SourceQuestionID:     q.ID,
		Specialty:            q.Subspecialty,
		QuestionType:         analysis.QuestionType,
		Complexity:           analysis.Complexity,
		PatientDemographics:  analysis.Demographics,
		ClinicalPresentation: pres,
		QuestionPrompt:       resp.QuestionPrompt,
		CoreConceptType:      resp.CoreConceptType,
		LearningObjectives:   objectives,
		Metadata: model.CaseMetadata{
			GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
			SourceChecksum:     Checksum(q),
			GeneratorVersion:   GeneratorVersion,
			ReturnedQuestionID: resp.SourceMCQID,
			SourceQuestionText: q.QuestionText,
		},
	}, nil
}

// Checksum fingerprints the source question so stale cached conversions
// can be detected when the question record changes.
func Checksum(q model.Question) string {
	content := fmt.Sprintf("%d_%s_%s_%s", q.ID, q.QuestionText, q.CorrectAnswer, q.Subspecialty)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}
