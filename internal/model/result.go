package model

import "strings"

// ValidationStatus is the terminal state of a validation run
type ValidationStatus string

const (
	StatusPending ValidationStatus = "pending"
	StatusPassed  ValidationStatus = "passed"
	StatusFailed  ValidationStatus = "failed"
	StatusError   ValidationStatus = "error"
)

// ValidationResult is the outcome of validating one generated case
type ValidationResult struct {
	Status   ValidationStatus   `json:"status"`
	Score    float64            `json:"score"`
	Reason   string             `json:"reason"`
	Issues   []string           `json:"issues"`
	Metadata ValidationMetadata `json:"metadata"`
}

// ValidationMetadata records the transparent sub-scores that produced
// the weighted overall score.
type ValidationMetadata struct {
	StructuralScore float64 `json:"structural_score"`
	ContentScore    float64 `json:"content_score"`
	SemanticScore   float64 `json:"semantic_score"`
	SemanticMethod  string  `json:"semantic_method"`
	ValidatedAt     string  `json:"validated_at"`
}

// CriticalIssues returns the issues that force a failed status. An
// issue is critical when it carries the literal "Missing" marker,
// whichever check reported it.
func (r ValidationResult) CriticalIssues() []string {
	var critical []string
	for _, issue := range r.Issues {
		if strings.Contains(issue, "Missing") {
			critical = append(critical, issue)
		}
	}
	return critical
}

// Warnings returns the non-critical issues
func (r ValidationResult) Warnings() []string {
	var warnings []string
	for _, issue := range r.Issues {
		if !strings.Contains(issue, "Missing") {
			warnings = append(warnings, issue)
		}
	}
	return warnings
}
