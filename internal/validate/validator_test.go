package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func strokeQuestion() model.Question {
	return model.Question{
		ID:           42,
		QuestionText: "Sudden onset right sided weakness with ptosis. EEG shows right temporal spikes. What is the most likely diagnosis?",
		Subspecialty: "Epilepsy",
	}
}

func faithfulCase(q model.Question) *model.GeneratedCase {
	return &model.GeneratedCase{
		SourceQuestionID: q.ID,
		Specialty:        q.Subspecialty,
		ClinicalPresentation: model.ClinicalPresentation{
			ChiefComplaint:          "Sudden right sided weakness",
			HistoryOfPresentIllness: "A 62-year-old man developed sudden onset right sided weakness over minutes, accompanied by ptosis of the right eye. EEG shows right temporal spikes.",
			PhysicalExamination:     "Ptosis on the right with right sided weakness.",
		},
		QuestionPrompt:  "Given this presentation, what is the most likely diagnosis?",
		CoreConceptType: "diagnosis",
	}
}

func TestValidate_FaithfulCasePasses(t *testing.T) {
	client := &stubClient{response: `{"score": 90, "issues": []}`}
	v := NewValidator(client, model.ValidationConfig{MinValidationScore: 70})

	q := strokeQuestion()
	result := v.Validate(context.Background(), q, faithfulCase(q))

	if result.Status != model.StatusPassed {
		t.Fatalf("Expected passed, got %s with issues %v", result.Status, result.Issues)
	}
	if result.Score != 96.0 {
		t.Errorf("Expected overall score 96.0, got %g", result.Score)
	}
	if len(result.CriticalIssues()) != 0 {
		t.Errorf("Expected no critical issues, got %v", result.CriticalIssues())
	}
	if result.Metadata.SemanticMethod != "ai_validation" {
		t.Errorf("Expected ai_validation method, got %q", result.Metadata.SemanticMethod)
	}
	if result.Metadata.StructuralScore != 100 || result.Metadata.ContentScore != 100 {
		t.Errorf("Expected perfect axis scores, got %+v", result.Metadata)
	}
}

func TestValidate_LowSemanticScoreWarns(t *testing.T) {
	client := &stubClient{response: `{"score": 40, "issues": []}`}
	v := NewValidator(client, model.ValidationConfig{MinValidationScore: 40, MinSemanticScore: 60})

	q := strokeQuestion()
	result := v.Validate(context.Background(), q, faithfulCase(q))

	if result.Status != model.StatusPassed {
		t.Fatalf("Expected passed, got %s with issues %v", result.Status, result.Issues)
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "Semantic alignment below threshold: 40 < 60") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected a semantic threshold issue, got %v", result.Issues)
	}
	if len(result.CriticalIssues()) != 0 {
		t.Errorf("Semantic shortfall must warn, not hard-fail: %v", result.CriticalIssues())
	}
}

func TestValidate_OmittedLateralizationWarns(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{MinValidationScore: 70})

	q := strokeQuestion()
	c := faithfulCase(q)
	c.ClinicalPresentation.ChiefComplaint = "Weakness of the arm"
	c.ClinicalPresentation.HistoryOfPresentIllness = "A 62-year-old man developed weakness over minutes, accompanied by ptosis of one eye. EEG shows spikes over the right temporal region."
	c.ClinicalPresentation.PhysicalExamination = "Ptosis noted on examination."

	result := v.Validate(context.Background(), q, c)

	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "Omitted critical lateralization: 'right sided'") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected a lateralization omission issue, got %v", result.Issues)
	}
	if len(result.CriticalIssues()) != 0 {
		t.Errorf("Omissions must warn, not hard-fail: %v", result.CriticalIssues())
	}
}

func TestValidate_ClinicalContextPreserved(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{MinValidationScore: 0})

	q := model.Question{
		ID:           11,
		QuestionText: "A 70-year-old develops confusion after an acute stroke. What is the most appropriate next step?",
		Subspecialty: "Vascular",
	}
	c := &model.GeneratedCase{
		SourceQuestionID: 11,
		Specialty:        "Vascular",
		ClinicalPresentation: model.ClinicalPresentation{
			ChiefComplaint:          "Confusion after a stroke",
			HistoryOfPresentIllness: "A 70-year-old woman became confused two days after an acute stroke and has remained disoriented since admission.",
		},
		QuestionPrompt:  "Given this presentation, what is the most appropriate next step?",
		CoreConceptType: "management",
	}

	result := v.Validate(context.Background(), q, c)

	for _, issue := range result.Issues {
		if strings.Contains(issue, "Omitted clinical context") {
			t.Fatalf("Context preserved verbatim must not warn: %q", issue)
		}
	}
	if result.Metadata.ContentScore != 100 {
		t.Errorf("Expected content score 100, got %g", result.Metadata.ContentScore)
	}
}

func TestValidate_ClinicalContextOmittedNamesCanonicalTerm(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{MinValidationScore: 0})

	q := model.Question{
		ID:           12,
		QuestionText: "A cyclist presents weeks after a traumatic brain injury. What is the most likely diagnosis?",
		Subspecialty: "Neurotrauma",
	}
	c := &model.GeneratedCase{
		SourceQuestionID: 12,
		Specialty:        "Neurotrauma",
		ClinicalPresentation: model.ClinicalPresentation{
			ChiefComplaint:          "Persistent morning headaches",
			HistoryOfPresentIllness: "A cyclist presents with headaches and poor concentration that have persisted for several weeks without any clear trigger.",
		},
		QuestionPrompt:  "Given this presentation, what is the most likely diagnosis?",
		CoreConceptType: "diagnosis",
	}

	result := v.Validate(context.Background(), q, c)

	found := false
	for _, issue := range result.Issues {
		if issue == "Omitted clinical context: TBI" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected the canonical context term in the issue, got %v", result.Issues)
	}
	if len(result.CriticalIssues()) != 0 {
		t.Errorf("Context omissions must warn, not hard-fail: %v", result.CriticalIssues())
	}
}

func TestValidate_SemanticMissingIssueFails(t *testing.T) {
	client := &stubClient{response: `{"score": 95, "issues": ["Missing trauma context"]}`}
	v := NewValidator(client, model.ValidationConfig{MinValidationScore: 70})

	q := strokeQuestion()
	result := v.Validate(context.Background(), q, faithfulCase(q))

	if result.Status != model.StatusFailed {
		t.Fatalf("Expected failed status, got %s with issues %v", result.Status, result.Issues)
	}
	critical := result.CriticalIssues()
	if len(critical) != 1 || critical[0] != "Missing trauma context" {
		t.Errorf("Expected the semantic issue to be critical, got %v", critical)
	}
	if !strings.Contains(result.Reason, "Critical issues: Missing trauma context") {
		t.Errorf("Reason should surface the critical issue: %q", result.Reason)
	}
}

func TestValidate_MissingChiefComplaintFails(t *testing.T) {
	client := &stubClient{response: `{"score": 100, "issues": []}`}
	v := NewValidator(client, model.ValidationConfig{MinValidationScore: 70})

	q := strokeQuestion()
	c := faithfulCase(q)
	c.ClinicalPresentation.ChiefComplaint = ""

	result := v.Validate(context.Background(), q, c)

	if result.Status != model.StatusFailed {
		t.Fatalf("Expected failed status, got %s", result.Status)
	}
	critical := result.CriticalIssues()
	if len(critical) != 1 || critical[0] != "Missing chief complaint" {
		t.Errorf("Expected the missing chief complaint critical issue, got %v", critical)
	}
	if !strings.Contains(result.Reason, "Critical issues:") {
		t.Errorf("Reason should surface critical issues: %q", result.Reason)
	}
}

func TestValidate_HalfPreservedInvestigationsNoRateIssue(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{MinValidationScore: 0})

	q := model.Question{
		ID:           7,
		QuestionText: "MRI shows a pontine lesion. EEG shows occipital spikes. What is the most likely diagnosis?",
	}
	c := &model.GeneratedCase{
		SourceQuestionID: 7,
		ClinicalPresentation: model.ClinicalPresentation{
			ChiefComplaint:          "Progressive gait difficulty",
			HistoryOfPresentIllness: "A woman presents with unsteady gait. Imaging revealed a pontine lesion on MRI without other abnormality noted anywhere.",
		},
		QuestionPrompt:  "What is the most likely diagnosis?",
		CoreConceptType: "diagnosis",
	}

	result := v.Validate(context.Background(), q, c)

	omitted, lowRate := false, false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "Omitted critical investigation: 'EEG shows occipital spikes'") {
			omitted = true
		}
		if strings.Contains(issue, "Low investigation preservation rate") {
			lowRate = true
		}
	}
	if !omitted {
		t.Errorf("Expected an omitted investigation issue, got %v", result.Issues)
	}
	if lowRate {
		t.Errorf("Exactly half preserved must not add a low-rate issue: %v", result.Issues)
	}
}

func TestValidate_AllInvestigationsMissingAddsRateIssue(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{MinValidationScore: 0})

	q := model.Question{
		ID:           8,
		QuestionText: "MRI shows a cerebellar mass. EEG shows generalized slowing. What is the most likely diagnosis?",
	}
	c := &model.GeneratedCase{
		SourceQuestionID: 8,
		ClinicalPresentation: model.ClinicalPresentation{
			ChiefComplaint:          "Recurrent morning headaches",
			HistoryOfPresentIllness: "A man presents with headaches and vomiting that have worsened gradually over the past several weeks of observation.",
		},
		QuestionPrompt:  "What is the most likely diagnosis?",
		CoreConceptType: "diagnosis",
	}

	result := v.Validate(context.Background(), q, c)

	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "Low investigation preservation rate: 0.0%") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a low-rate issue, got %v", result.Issues)
	}
}

func TestValidate_IDMismatchWarns(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{MinValidationScore: 0})

	q := strokeQuestion()
	c := faithfulCase(q)
	c.SourceQuestionID = 7

	result := v.Validate(context.Background(), q, c)

	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "MCQ ID mismatch: expected 42, got 7") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected an ID mismatch issue, got %v", result.Issues)
	}
	if result.Metadata.ContentScore != 85 {
		t.Errorf("Expected content score 85 after one issue, got %g", result.Metadata.ContentScore)
	}
}

func TestValidate_ShortFieldsWarn(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{MinValidationScore: 0})

	q := strokeQuestion()
	c := faithfulCase(q)
	c.ClinicalPresentation.ChiefComplaint = "Weakness"
	c.ClinicalPresentation.HistoryOfPresentIllness = "Sudden onset right sided weakness, ptosis, EEG shows right temporal spikes."

	result := v.Validate(context.Background(), q, c)

	short := false
	for _, issue := range result.Issues {
		if issue == "Chief complaint too short" {
			short = true
		}
	}
	if !short {
		t.Errorf("Expected a short chief complaint warning, got %v", result.Issues)
	}
	if len(result.CriticalIssues()) != 0 {
		t.Errorf("Short fields warn rather than hard-fail: %v", result.CriticalIssues())
	}
	if result.Metadata.StructuralScore != 90 {
		t.Errorf("Expected structural score 90, got %g", result.Metadata.StructuralScore)
	}
}

func TestSummarize(t *testing.T) {
	if got := summarize(96, nil); got != "Excellent case quality (score: 96/100)" {
		t.Errorf("Unexpected summary %q", got)
	}

	got := summarize(55, []string{"Missing chief complaint", "Omitted specific clinical sign: 'ptosis'"})
	if !strings.Contains(got, "Usable with warnings") || !strings.Contains(got, "Critical issues: Missing chief complaint") {
		t.Errorf("Unexpected summary %q", got)
	}

	got = summarize(72, []string{"Omitted a", "Omitted b", "Omitted c", "Omitted d"})
	if !strings.Contains(got, "Warnings: Omitted a; Omitted b and 2 more warnings") {
		t.Errorf("Unexpected summary %q", got)
	}
}

func TestScoreSemantics_NilClient(t *testing.T) {
	v := NewValidator(nil, model.ValidationConfig{})

	review := v.scoreSemantics(context.Background(), strokeQuestion(), faithfulCase(strokeQuestion()))

	if review.Score != 75 || review.Method != "fallback" {
		t.Errorf("Expected neutral fallback, got %+v", review)
	}
}

func TestScoreSemantics_ClientError(t *testing.T) {
	client := &stubClient{err: errors.New("timeout")}
	v := NewValidator(client, model.ValidationConfig{})

	review := v.scoreSemantics(context.Background(), strokeQuestion(), faithfulCase(strokeQuestion()))

	if review.Score != 75 || review.Method != "fallback_due_to_error" {
		t.Errorf("Expected error fallback, got %+v", review)
	}
}

func TestScoreSemantics_UnparseableReply(t *testing.T) {
	client := &stubClient{response: "The case looks fine to me."}
	v := NewValidator(client, model.ValidationConfig{})

	review := v.scoreSemantics(context.Background(), strokeQuestion(), faithfulCase(strokeQuestion()))

	if review.Score != 75 || review.Method != "fallback_due_to_error" {
		t.Errorf("Expected error fallback, got %+v", review)
	}
}

func TestScoreSemantics_FiltersGenericIssues(t *testing.T) {
	client := &stubClient{response: `{"score": 88, "issues": ["any issues found", "None", "n/a", "", "Missing trauma context"]}`}
	v := NewValidator(client, model.ValidationConfig{})

	review := v.scoreSemantics(context.Background(), strokeQuestion(), faithfulCase(strokeQuestion()))

	if review.Score != 88 || review.Method != "ai_validation" {
		t.Errorf("Unexpected review %+v", review)
	}
	if len(review.Issues) != 1 || review.Issues[0] != "Missing trauma context" {
		t.Errorf("Generic issues should be filtered, got %v", review.Issues)
	}
}
