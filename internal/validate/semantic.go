package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
)

// fallbackSemanticScore is the neutral score used when no LLM client is
// configured or the semantic call fails. It neither passes nor fails a
// case on its own.
const fallbackSemanticScore = 75

// semanticReview is the outcome of the LLM alignment check.
type semanticReview struct {
	Score  float64
	Issues []string
	Method string
}

// scoreSemantics asks the LLM to rate how well the case teaches the
// same concept as the source question. Every failure path degrades to
// the neutral fallback score.
func (v *Validator) scoreSemantics(ctx context.Context, q model.Question, c *model.GeneratedCase) semanticReview {
	if v.client == nil {
		return semanticReview{Score: fallbackSemanticScore, Method: "fallback"}
	}

	content, err := v.client.Complete(ctx, []llm.Message{
		{Role: "user", Content: semanticPrompt(q, c)},
	}, llm.Options{Temperature: 0.1, MaxTokens: 500})
	if err != nil {
		log.Printf("semantic validation failed for question %d: %v", q.ID, err)
		return semanticReview{Score: fallbackSemanticScore, Method: "fallback_due_to_error"}
	}

	var resp struct {
		Score  float64  `json:"score"`
		Issues []string `json:"issues"`
	}
	raw := llm.ExtractJSONObject(content)
	if raw == "" {
		return semanticReview{Score: fallbackSemanticScore, Method: "fallback_due_to_error"}
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		log.Printf("semantic validation returned unparseable reply for question %d: %v", q.ID, err)
		return semanticReview{Score: fallbackSemanticScore, Method: "fallback_due_to_error"}
	}

	return semanticReview{
		Score:  resp.Score,
		Issues: filterGenericIssues(resp.Issues),
		Method: "ai_validation",
	}
}

// filterGenericIssues drops the non-issues some models echo back from
// the prompt instead of leaving the list empty.
func filterGenericIssues(issues []string) []string {
	var filtered []string
	for _, issue := range issues {
		switch strings.ToLower(issue) {
		case "any issues found", "none", "n/a", "":
		default:
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func semanticPrompt(q model.Question, c *model.GeneratedCase) string {
	return fmt.Sprintf(`Evaluate if this case scenario appropriately teaches the same medical concept as the original MCQ.

ORIGINAL MCQ:
%s
Subspecialty: %s

GENERATED CASE:
Chief Complaint: %s
History: %s
Core Concept: %s

CRITICAL VALIDATION REQUIREMENTS:
1. The case MUST teach the EXACT SAME MEDICAL CONDITION as the original MCQ
2. If the original MCQ mentions specific findings (CT, MRI, etc.), the case MUST include those findings
3. If the original MCQ involves trauma/injury, the case MUST involve trauma/injury
4. If the original MCQ mentions specific anatomical locations, the case MUST involve the same locations
5. The case should lead to the SAME diagnostic conclusion
6. CRITICAL: The QUESTION TYPE must match exactly:
   - If original asks about MANAGEMENT, the generated case must focus on MANAGEMENT decisions
   - If original asks about DIAGNOSIS, the generated case must focus on DIAGNOSTIC reasoning
   - If original asks about INVESTIGATION, the generated case must focus on which TEST to order
7. CLINICAL DETAIL PRESERVATION:
   - ALL specific clinical signs mentioned in the MCQ MUST be preserved in the case
   - ALL lateralization information (right/left) MUST be maintained exactly
   - Specific medical terminology (e.g., "figure of 4", "fencing posture") MUST be included verbatim
   - If MCQ mentions "right side nose rubbing", case MUST specify "right side nose rubbing"
   - Clinical context (trauma vs non-trauma, acute vs chronic) MUST be preserved

EXAMPLES OF MAJOR MISMATCHES (score 0-20):
- Original: coup contrecoup brain injury, generated: stroke/TIA symptoms
- Original: traumatic brain injury, generated: non-traumatic neurological condition
- Original: management question, generated: diagnostic scenario
- Original: diagnostic question, generated: management scenario

CLINICAL DETAIL PRESERVATION FAILURES (score 0-30):
- Original: "figure of 4, fencing posture, right side nose rubbing", generated: generic "abnormal postures" without specifics
- Original: "right-sided weakness", generated: "weakness" without lateralization
- Original: specific medical signs, generated: generalized symptoms
- Original: trauma context, generated: non-traumatic presentation

Rate the alignment on a scale of 0-100:
- 90-100: Excellent alignment - same medical condition with appropriate clinical variation
- 70-89: Good alignment - same condition with minor presentation differences
- 50-69: Moderate alignment - related conditions within same diagnostic category
- 30-49: Acceptable alignment - same neurological subspecialty with educational value
- 20-29: Poor alignment - different conditions but same specialty
- 0-19: Severe mismatch - completely different medical conditions

IMPORTANT: Be more lenient in scoring. If the case teaches valuable concepts within the same subspecialty, score at least 40.

Respond with JSON only:
{"score": 85, "issues": [], "explanation": "brief explanation"}`,
		q.QuestionText, q.Subspecialty,
		c.ClinicalPresentation.ChiefComplaint,
		c.ClinicalPresentation.HistoryOfPresentIllness,
		c.CoreConceptType)
}
