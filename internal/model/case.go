package model

// PatientDemographics describes the patient the case is written around.
// AgeDescriptor keeps the source wording ("7", "elderly"); Age is the
// representative numeric age used when a number is needed.
type PatientDemographics struct {
	AgeDescriptor string `json:"age_descriptor"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
}

// Describe renders the demographics the way the legacy UI expects:
// "72-year-old female" for numeric descriptors, "elderly female" otherwise.
func (d PatientDemographics) Describe() string {
	if isAllDigits(d.AgeDescriptor) {
		return d.AgeDescriptor + "-year-old " + d.Gender
	}
	return d.AgeDescriptor + " " + d.Gender
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ClinicalPresentation is the narrative body of a generated case
type ClinicalPresentation struct {
	ChiefComplaint          string            `json:"chief_complaint"`
	HistoryOfPresentIllness string            `json:"history_present_illness"`
	PastMedicalHistory      []string          `json:"past_medical_history"`
	Medications             []string          `json:"medications"`
	PhysicalExamination     string            `json:"physical_examination"`
	VitalSigns              map[string]string `json:"vital_signs"`
}

// GeneratedCase is the structured output of one generation attempt.
// SourceQuestionID is always forced to the true source id; whatever id
// the generation collaborator returned lives only in Metadata.
type GeneratedCase struct {
	SourceQuestionID     int                  `json:"source_mcq_id"`
	Specialty            string               `json:"specialty"`
	QuestionType         QuestionType         `json:"question_type"`
	Complexity           CaseComplexity       `json:"complexity"`
	PatientDemographics  PatientDemographics  `json:"patient_demographics"`
	ClinicalPresentation ClinicalPresentation `json:"clinical_presentation"`
	QuestionPrompt       string               `json:"question_prompt"`
	CoreConceptType      string               `json:"core_concept_type"`
	LearningObjectives   []string             `json:"learning_objectives"`
	Metadata             CaseMetadata         `json:"metadata"`
}

// CaseMetadata carries audit data about how the case was produced
type CaseMetadata struct {
	GeneratedAt        string `json:"generated_at"`
	SourceChecksum     string `json:"source_mcq_checksum"`
	GeneratorVersion   string `json:"generator_version"`
	ReturnedQuestionID int    `json:"api_returned_mcq_id"`
	SourceQuestionText string `json:"original_mcq_text"`
}

// LegacyCase is the flat accepted artifact consumed by the presentation
// layer. ClinicalPresentation here is the enriched narrative string, not
// the structured form.
type LegacyCase struct {
	SourceMCQID          int              `json:"source_mcq_id"`
	ClinicalPresentation string           `json:"clinical_presentation"`
	PatientDemographics  string           `json:"patient_demographics"`
	QuestionPrompt       string           `json:"question_prompt"`
	CoreConceptType      string           `json:"core_concept_type"`
	Specialty            string           `json:"specialty"`
	QuestionType         string           `json:"question_type"`
	Difficulty           string           `json:"difficulty"`
	Validation           LegacyValidation `json:"validation"`
	MCQChecksum          string           `json:"mcq_checksum"`
	GeneratedAt          string           `json:"generated_at"`
	GeneratorVersion     string           `json:"generator_version"`
	LearningObjectives   []string         `json:"learning_objectives,omitempty"`
}

// LegacyValidation is the validation-metadata block inside LegacyCase
type LegacyValidation struct {
	Passed         bool     `json:"passed"`
	Score          float64  `json:"score"`
	Reason         string   `json:"reason"`
	Issues         []string `json:"issues"`
	WarningCount   int      `json:"warning_count"`
	CriticalIssues []string `json:"critical_issues"`
	ValidatedAt    string   `json:"validated_at"`
}
