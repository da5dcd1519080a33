package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
)

// stubClient returns canned completions in call order, recording every
// prompt it sees.
type stubClient struct {
	responses []string
	err       error
	prompts   []string
}

func (s *stubClient) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	if len(messages) > 0 {
		s.prompts = append(s.prompts, messages[len(messages)-1].Content)
	}
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("stub exhausted")
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func TestDetectQuestionType(t *testing.T) {
	cases := []struct {
		question string
		want     model.QuestionType
	}{
		{"What is the most likely diagnosis?", model.TypeDiagnosis},
		{"What is the differential diagnosis for this presentation?", model.TypeDifferential},
		{"Where is the lesion located?", model.TypeLocalization},
		{"What is the next step in management?", model.TypeManagement},
		{"What is the best test to confirm the diagnosis?", model.TypeInvestigation},
		{"What is the pathophysiology of this disorder?", model.TypePathophysiology},
		{"A man presents with weakness.", model.TypeDiagnosis},
	}

	for _, tc := range cases {
		if got := DetectQuestionType(tc.question); got != tc.want {
			t.Errorf("DetectQuestionType(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestDetectQuestionType_FirstTableWins(t *testing.T) {
	// Mentions both diagnosis and management phrasing; diagnosis cues
	// are checked first.
	q := "Given the most likely diagnosis, what is the next step in management?"
	if got := DetectQuestionType(q); got != model.TypeDiagnosis {
		t.Errorf("Expected diagnosis to win over management, got %s", got)
	}
}

func TestAssessComplexity(t *testing.T) {
	short := "What is the diagnosis?"
	if got := AssessComplexity(short); got != model.ComplexityBasic {
		t.Errorf("Short plain question should be basic, got %s", got)
	}

	medium := strings.Repeat("clinical detail ", 15) + "with refractory symptoms"
	if got := AssessComplexity(medium); got != model.ComplexityIntermediate {
		t.Errorf("Expected intermediate, got %s", got)
	}

	long := strings.Repeat("history ", 70) + "refractory resistant multiple complications"
	if got := AssessComplexity(long); got != model.ComplexityAdvanced {
		t.Errorf("Expected advanced, got %s", got)
	}
}

func TestSpecialtyConfidence(t *testing.T) {
	q := model.Question{
		QuestionText: "A patient with recurrent seizures and postictal confusion.",
		Subspecialty: "Epilepsy",
	}
	got := SpecialtyConfidence(q)
	if got <= 0.3 || got > 1 {
		t.Errorf("Expected meaningful confidence for matching vocabulary, got %g", got)
	}

	if got := SpecialtyConfidence(model.Question{QuestionText: "anything"}); got != 0.5 {
		t.Errorf("Missing subspecialty should score 0.5, got %g", got)
	}

	unknown := model.Question{QuestionText: "anything", Subspecialty: "Sleep Medicine"}
	if got := SpecialtyConfidence(unknown); got != 0.5 {
		t.Errorf("Unknown subspecialty should score 0.5, got %g", got)
	}
}

func TestFallbackDemographics_ExactAge(t *testing.T) {
	d := FallbackDemographics("A 7-year-old boy presents with staring spells.")

	if d.Age != 7 || d.AgeDescriptor != "7" {
		t.Errorf("Expected exact age 7, got %+v", d)
	}
	if d.Gender != "male" {
		t.Errorf("Expected male from 'boy', got %q", d.Gender)
	}
}

func TestFallbackDemographics_Buckets(t *testing.T) {
	cases := []struct {
		text       string
		age        int
		descriptor string
		gender     string
	}{
		{"An elderly woman with memory loss.", 72, "elderly", "female"},
		{"A middle-aged man with tremor.", 50, "middle-aged", "male"},
		{"An infant with hypotonia and poor feeding, she is lethargic.", 1, "infant", "female"},
		{"A young girl with recurrent headaches.", 28, "young", "female"},
	}

	for _, tc := range cases {
		d := FallbackDemographics(tc.text)
		if d.Age != tc.age || d.AgeDescriptor != tc.descriptor || d.Gender != tc.gender {
			t.Errorf("FallbackDemographics(%q) = %+v, want age %d %q %s",
				tc.text, d, tc.age, tc.descriptor, tc.gender)
		}
	}
}

func TestFallbackDemographics_Default(t *testing.T) {
	d := FallbackDemographics("Weakness of the deltoid muscle.")

	if d.Age != 45 || d.AgeDescriptor != "45" || d.Gender != "male" {
		t.Errorf("Expected 45-year-old male default, got %+v", d)
	}
}

func TestFallbackDemographics_ExactAgeBeatsBucket(t *testing.T) {
	d := FallbackDemographics("An elderly 68-year-old woman with confusion.")

	if d.Age != 68 || d.AgeDescriptor != "68" {
		t.Errorf("Exact age should win over the elderly bucket, got %+v", d)
	}
}

func TestAnalyze_StructuredDemographics(t *testing.T) {
	client := &stubClient{responses: []string{
		`{"age_descriptor": "7", "gender": "boy", "representative_age": "7"}`,
	}}
	analyzer := NewAnalyzer(client)

	analysis := analyzer.Analyze(context.Background(), model.Question{
		QuestionText: "A child with staring spells. What is the most likely diagnosis?",
	})

	if analysis.Demographics.Age != 7 || analysis.Demographics.Gender != "male" {
		t.Errorf("Expected structured demographics, got %+v", analysis.Demographics)
	}
	if analysis.QuestionType != model.TypeDiagnosis {
		t.Errorf("Expected diagnosis type, got %s", analysis.QuestionType)
	}
	if len(client.prompts) != 1 || !strings.Contains(client.prompts[0], "demographic") {
		t.Errorf("Expected one demographics prompt, got %v", client.prompts)
	}
}

func TestAnalyze_FallsBackOnClientError(t *testing.T) {
	client := &stubClient{err: errors.New("provider down")}
	analyzer := NewAnalyzer(client)

	analysis := analyzer.Analyze(context.Background(), model.Question{
		QuestionText: "An elderly woman with memory loss.",
	})

	if analysis.Demographics.Age != 72 || analysis.Demographics.Gender != "female" {
		t.Errorf("Expected regex fallback demographics, got %+v", analysis.Demographics)
	}
}

func TestAnalyze_FallsBackOnUnparseableResponse(t *testing.T) {
	client := &stubClient{responses: []string{"I cannot extract demographics from this."}}
	analyzer := NewAnalyzer(client)

	analysis := analyzer.Analyze(context.Background(), model.Question{
		QuestionText: "A 23-year-old man with diplopia.",
	})

	if analysis.Demographics.Age != 23 || analysis.Demographics.Gender != "male" {
		t.Errorf("Expected regex fallback demographics, got %+v", analysis.Demographics)
	}
}

func TestAnalyze_NilClientUsesFallback(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	analysis := analyzer.Analyze(context.Background(), model.Question{
		QuestionText: "A 30-year-old woman with episodic vertigo.",
	})

	if analysis.Demographics.Age != 30 || analysis.Demographics.Gender != "female" {
		t.Errorf("Expected fallback demographics, got %+v", analysis.Demographics)
	}
}
