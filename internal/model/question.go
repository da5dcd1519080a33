package model

// Question is an immutable source MCQ record as handed over by the
// persistence layer. Components receive this type, never a loose map.
type Question struct {
	ID                int    `json:"id"`
	QuestionText      string `json:"question_text"`
	CorrectAnswer     string `json:"correct_answer"`
	CorrectAnswerText string `json:"correct_answer_text,omitempty"`
	Subspecialty      string `json:"subspecialty"`
}

// QuestionType classifies what the MCQ is testing
type QuestionType string

const (
	TypeDiagnosis       QuestionType = "diagnosis"
	TypeDifferential    QuestionType = "differential"
	TypeLocalization    QuestionType = "localization"
	TypeManagement      QuestionType = "management"
	TypeInvestigation   QuestionType = "investigation"
	TypePathophysiology QuestionType = "pathophysiology"
	TypePrognosis       QuestionType = "prognosis"
	TypePrevention      QuestionType = "prevention"
)

// CaseComplexity rates how demanding the generated case should be
type CaseComplexity string

const (
	ComplexityBasic        CaseComplexity = "basic"
	ComplexityIntermediate CaseComplexity = "intermediate"
	ComplexityAdvanced     CaseComplexity = "advanced"
)
