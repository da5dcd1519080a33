package validate

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/neurocase/neurocase/internal/extract"
	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
)

// Validator scores a generated case against its source question along
// three axes: structural completeness, content fidelity, and semantic
// alignment. Only the semantic axis consults the LLM.
type Validator struct {
	client      llm.Client
	minScore    float64
	minSemantic float64
}

// NewValidator creates a validator. A nil client makes the semantic
// axis fall back to its neutral score.
func NewValidator(client llm.Client, cfg model.ValidationConfig) *Validator {
	return &Validator{
		client:      client,
		minScore:    cfg.MinValidationScore,
		minSemantic: cfg.MinSemanticScore,
	}
}

// Validate runs the full check. A panic anywhere inside validation is
// reported as an error-status result, never propagated.
func (v *Validator) Validate(ctx context.Context, q model.Question, c *model.GeneratedCase) (result model.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("validation failed for question %d: %v", q.ID, r)
			result = model.ValidationResult{
				Status: model.StatusError,
				Score:  0,
				Reason: fmt.Sprintf("Validation error: %v", r),
				Issues: []string{fmt.Sprintf("Validation process failed: %v", r)},
			}
		}
	}()

	structural := structuralIssues(c)
	content := contentIssues(q, c)
	semantic := v.scoreSemantics(ctx, q, c)

	issues := append([]string{}, structural...)
	issues = append(issues, content...)
	issues = append(issues, semantic.Issues...)
	if semantic.Score < v.minSemantic {
		issues = append(issues, fmt.Sprintf("Semantic alignment below threshold: %g < %g", semantic.Score, v.minSemantic))
	}

	structuralScore := math.Max(0, 100-float64(len(structural))*10)
	contentScore := math.Max(0, 100-float64(len(content))*15)
	overall := math.Round((structuralScore*0.3+contentScore*0.3+semantic.Score*0.4)*10) / 10

	// Any issue carrying the "Missing" marker hard-fails the case no
	// matter which axis reported it; everything else is a warning as
	// long as the weighted score clears the threshold.
	var critical []string
	for _, issue := range issues {
		if strings.Contains(issue, "Missing") {
			critical = append(critical, issue)
		}
	}

	status := model.StatusFailed
	if len(critical) == 0 && overall >= v.minScore {
		status = model.StatusPassed
	}

	return model.ValidationResult{
		Status: status,
		Score:  overall,
		Reason: summarize(overall, issues),
		Issues: issues,
		Metadata: model.ValidationMetadata{
			StructuralScore: structuralScore,
			ContentScore:    contentScore,
			SemanticScore:   semantic.Score,
			SemanticMethod:  semantic.Method,
			ValidatedAt:     time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func structuralIssues(c *model.GeneratedCase) []string {
	var issues []string
	p := c.ClinicalPresentation

	if p.ChiefComplaint == "" {
		issues = append(issues, "Missing chief complaint")
	}
	if p.HistoryOfPresentIllness == "" {
		issues = append(issues, "Missing history of present illness")
	}
	if c.QuestionPrompt == "" {
		issues = append(issues, "Missing question prompt")
	}
	if c.CoreConceptType == "" {
		issues = append(issues, "Missing core concept type")
	}

	if len(p.ChiefComplaint) < 10 {
		issues = append(issues, "Chief complaint too short")
	}
	if len(p.HistoryOfPresentIllness) < 50 {
		issues = append(issues, "History too brief")
	}

	return issues
}

func contentIssues(q model.Question, c *model.GeneratedCase) []string {
	var issues []string

	if c.SourceQuestionID != q.ID {
		issues = append(issues, fmt.Sprintf("MCQ ID mismatch: expected %d, got %d", q.ID, c.SourceQuestionID))
	}
	if c.Specialty != q.Subspecialty {
		issues = append(issues, fmt.Sprintf("Specialty mismatch: expected %s, got %s", q.Subspecialty, c.Specialty))
	}

	hpi := strings.ToLower(c.ClinicalPresentation.HistoryOfPresentIllness)
	if strings.Contains(hpi, "placeholder") || strings.Contains(hpi, "example") {
		issues = append(issues, "Contains placeholder or example text")
	}

	issues = append(issues, preservationIssues(q, c)...)
	issues = append(issues, investigationIssues(q, c)...)

	return issues
}

// caseText is the narrative surface scanned for preserved details.
func caseText(c *model.GeneratedCase) string {
	p := c.ClinicalPresentation
	return p.HistoryOfPresentIllness + " " + p.PhysicalExamination + " " + p.ChiefComplaint
}

// preservationIssues checks that the question's critical clinical
// details survived the rewrite into narrative form. These never carry
// the "Missing" marker, so they warn rather than hard-fail.
func preservationIssues(q model.Question, c *model.GeneratedCase) []string {
	var issues []string
	findings := extract.Extract(q.QuestionText)
	text := strings.ToLower(caseText(c))

	for _, f := range findings[extract.CategoryLateralization] {
		if !strings.Contains(text, strings.ToLower(f.MatchedText)) {
			issues = append(issues, fmt.Sprintf("Omitted critical lateralization: '%s'", f.MatchedText))
		}
	}

	for _, f := range findings[extract.CategorySpecificSign] {
		if !strings.Contains(text, strings.ToLower(f.CanonicalTerm)) {
			issues = append(issues, fmt.Sprintf("Omitted specific clinical sign: '%s'", f.CanonicalTerm))
		}
	}

	for _, f := range findings[extract.CategoryCriticalPhrase] {
		if !strings.Contains(text, strings.ToLower(f.MatchedText)) {
			issues = append(issues, fmt.Sprintf("Omitted critical phrase: '%s'", f.MatchedText))
		}
	}

	// Clinical context counts as preserved when any one context term
	// survives.
	contexts := findings[extract.CategoryClinicalContext]
	if len(contexts) > 0 {
		preserved := false
		for _, f := range contexts {
			if strings.Contains(text, strings.ToLower(f.CanonicalTerm)) {
				preserved = true
				break
			}
		}
		if !preserved {
			names := make([]string, 0, len(contexts))
			for _, f := range contexts {
				names = append(names, f.CanonicalTerm)
			}
			issues = append(issues, "Omitted clinical context: "+strings.Join(names, ", "))
		}
	}

	return issues
}

func investigationIssues(q model.Question, c *model.GeneratedCase) []string {
	var issues []string

	check := extract.CheckInvestigations(q.QuestionText, caseText(c))
	for _, f := range check.Missing {
		issues = append(issues, fmt.Sprintf("Omitted critical investigation: '%s'", f.MatchedText))
	}
	if len(check.Preserved)+len(check.Missing) > 0 && check.Rate < 50.0 {
		issues = append(issues, fmt.Sprintf("Low investigation preservation rate: %.1f%%", check.Rate))
	}

	return issues
}

func summarize(score float64, issues []string) string {
	var quality string
	switch {
	case score >= 90:
		quality = "Excellent"
	case score >= 80:
		quality = "Good"
	case score >= 70:
		quality = "Acceptable"
	case score >= 50:
		quality = "Usable with warnings"
	default:
		quality = "Poor"
	}

	summary := fmt.Sprintf("%s case quality (score: %g/100)", quality, score)
	if len(issues) == 0 {
		return summary
	}

	var critical, warnings []string
	for _, issue := range issues {
		if strings.Contains(issue, "Missing") {
			critical = append(critical, issue)
		} else {
			warnings = append(warnings, issue)
		}
	}

	if len(critical) > 0 {
		summary += ". Critical issues: " + strings.Join(head(critical, 2), "; ")
	} else if len(warnings) > 0 {
		summary += ". Warnings: " + strings.Join(head(warnings, 2), "; ")
		if len(warnings) > 2 {
			summary += fmt.Sprintf(" and %d more warnings", len(warnings)-2)
		}
	}
	return summary
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
