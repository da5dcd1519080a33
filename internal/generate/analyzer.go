package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
)

// Analysis is what the analyzer learns about a question before any
// case text is generated.
type Analysis struct {
	QuestionType        model.QuestionType
	Complexity          model.CaseComplexity
	Demographics        model.PatientDemographics
	SpecialtyConfidence float64
	KeyConcepts         []string
}

// Analyzer classifies questions and extracts patient demographics.
// The demographics step tries a structured LLM extraction first and
// falls back to regex matching, so Analyze never fails on a bad or
// missing LLM response.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates an analyzer. A nil client skips the structured
// demographics attempt entirely.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze runs the full question analysis.
func (a *Analyzer) Analyze(ctx context.Context, q model.Question) Analysis {
	return Analysis{
		QuestionType:        DetectQuestionType(q.QuestionText),
		Complexity:          AssessComplexity(q.QuestionText),
		Demographics:        a.extractDemographics(ctx, q.QuestionText),
		SpecialtyConfidence: SpecialtyConfidence(q),
		KeyConcepts:         keyConcepts(q),
	}
}

// Ordered cue tables for question-type detection. First table with a
// matching pattern wins; nothing matching means diagnosis.
var questionPatterns = []struct {
	Type     model.QuestionType
	Patterns []*regexp.Regexp
}{
	{model.TypeDiagnosis, compileAll(
		`most likely diagnosis`,
		`what is the diagnosis`,
		`which condition`,
		`diagnosed with`,
		`likely cause`,
		`clinical diagnosis`,
		`provisional diagnosis`,
		`working diagnosis`,
		`primary diagnosis`,
		`underlying condition`,
		`this patient has`,
		`this condition is`,
		`consistent with`,
		`suggests.*diagnosis`,
		`findings.*suggest`,
		`clinical picture.*consistent`,
	)},
	{model.TypeDifferential, compileAll(
		`differential diagnosis`,
		`differential.*includes`,
		`consider.*differential`,
		`broad.*differential`,
		`narrow.*differential`,
		`most.*appropriate.*differential`,
		`differential.*considerations`,
		`list.*of.*diagnoses`,
		`possible.*diagnoses`,
		`likely.*diagnoses`,
	)},
	{model.TypeLocalization, compileAll(
		`which localization`,
		`localization.*most likely`,
		`most likely.*localization`,
		`localization.*of.*lesion`,
		`lesion.*located`,
		`anatomical.*location`,
		`site.*of.*lesion`,
		`where.*is.*lesion`,
		`neuroanatomical.*localization`,
		`level.*of.*lesion`,
		`location.*of.*pathology`,
		`anatomical.*site`,
		`localizing.*sign`,
		`lateralizing.*sign`,
		`level.*of.*injury`,
		`spinal.*level`,
		`brain.*region`,
		`cortical.*area`,
	)},
	{model.TypeManagement, compileAll(
		`next step in management`,
		`best treatment`,
		`what should be done`,
		`appropriate therapy`,
		`second-line management`,
		`first-line treatment`,
		`most appropriate management`,
		`treatment of choice`,
		`next step`,
		`what is the.*management`,
		`how should.*be treated`,
		`appropriate treatment`,
		`therapeutic.*option`,
		`next.*intervention`,
		`what should be switched`,
		`should be switched to`,
		`switch to`,
		`changed to`,
		`medication.*change`,
		`drug.*choice`,
		`therapy.*recommend`,
		`treatment.*plan`,
		`manage.*patient`,
		`best.*approach`,
		`optimal.*treatment`,
		`immediate.*action`,
		`emergency.*management`,
		`long-term.*management`,
		`preventive.*treatment`,
		`maintenance.*therapy`,
	)},
	{model.TypeInvestigation, compileAll(
		`next step in workup`,
		`best test`,
		`which study`,
		`appropriate investigation`,
		`most useful.*test`,
		`next.*investigation`,
		`diagnostic.*test`,
		`most appropriate.*study`,
		`confirm.*diagnosis`,
		`evaluate.*further`,
		`additional.*testing`,
		`imaging.*study`,
		`laboratory.*test`,
		`further.*workup`,
		`initial.*test`,
		`screening.*test`,
		`monitoring.*test`,
		`follow.*study`,
	)},
	{model.TypePathophysiology, compileAll(
		`mechanism.*responsible`,
		`pathophysiology`,
		`underlying.*mechanism`,
		`physiologic.*basis`,
		`explains.*finding`,
		`reason.*for`,
		`cause.*of.*symptom`,
		`why.*occur`,
		`results.*from`,
		`due.*to.*mechanism`,
		`molecular.*basis`,
		`cellular.*process`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		patterns = append(patterns, regexp.MustCompile(e))
	}
	return patterns
}

// DetectQuestionType classifies a question by its phrasing.
func DetectQuestionType(questionText string) model.QuestionType {
	text := strings.ToLower(questionText)
	for _, entry := range questionPatterns {
		for _, p := range entry.Patterns {
			if p.MatchString(text) {
				return entry.Type
			}
		}
	}
	return model.TypeDiagnosis
}

var complexTerms = []string{"refractory", "resistant", "multiple", "complications", "differential"}

// AssessComplexity scores a question additively: long text and
// complexity vocabulary both raise the rating.
func AssessComplexity(questionText string) model.CaseComplexity {
	score := 0
	if len(questionText) > 500 {
		score += 2
	} else if len(questionText) > 200 {
		score++
	}

	lower := strings.ToLower(questionText)
	for _, term := range complexTerms {
		if strings.Contains(lower, term) {
			score++
		}
	}

	switch {
	case score >= 4:
		return model.ComplexityAdvanced
	case score >= 2:
		return model.ComplexityIntermediate
	default:
		return model.ComplexityBasic
	}
}

var specialtyKeywords = map[string][]string{
	"Movement Disorders": {"parkinson", "dystonia", "chorea", "tremor", "bradykinesia", "rigidity"},
	"Epilepsy":           {"seizure", "epilep", "convuls", "ictal", "postictal"},
	"Stroke/Vascular":    {"stroke", "hemorrhage", "infarct", "tpa", "thrombo", "ischemic"},
	"Dementia":           {"alzheimer", "dementia", "memory", "cognitive", "confusion"},
	"Headache":           {"headache", "migraine", "cluster", "tension"},
	"Neuromuscular":      {"myasthenia", "neuropathy", "myopathy", "weakness", "muscle"},
}

// SpecialtyConfidence estimates how well the assigned subspecialty
// matches the question vocabulary. 0.5 when no subspecialty is set.
func SpecialtyConfidence(q model.Question) float64 {
	if q.Subspecialty == "" {
		return 0.5
	}

	keywords := specialtyKeywords[q.Subspecialty]
	if len(keywords) == 0 {
		return 0.5
	}

	text := strings.ToLower(q.QuestionText)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}

	confidence := float64(matches) / float64(len(keywords))
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

var capitalizedTermPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

func keyConcepts(q model.Question) []string {
	var concepts []string
	if q.Subspecialty != "" {
		concepts = append(concepts, strings.ToLower(q.Subspecialty))
	}
	terms := capitalizedTermPattern.FindAllString(q.QuestionText, 3)
	concepts = append(concepts, terms...)
	return concepts
}

// demographicsResponse is the structured extraction reply shape.
type demographicsResponse struct {
	AgeDescriptor     string `json:"age_descriptor"`
	Gender            string `json:"gender"`
	RepresentativeAge string `json:"representative_age"`
}

// extractDemographics is a two-tier process: structured LLM extraction
// first, regex fallback on any failure. Errors never cross this
// boundary, only a demographics value.
func (a *Analyzer) extractDemographics(ctx context.Context, questionText string) model.PatientDemographics {
	if a.client != nil {
		if d, ok := a.tryStructuredDemographics(ctx, questionText); ok {
			return d
		}
	}
	return FallbackDemographics(questionText)
}

func (a *Analyzer) tryStructuredDemographics(ctx context.Context, questionText string) (model.PatientDemographics, bool) {
	text, err := a.client.Complete(ctx, []llm.Message{
		{Role: "user", Content: demographicsPrompt(questionText)},
	}, llm.Options{Temperature: 0.1, MaxTokens: 200})
	if err != nil {
		return model.PatientDemographics{}, false
	}

	raw := llm.ExtractJSONObject(text)
	if raw == "" {
		return model.PatientDemographics{}, false
	}

	var resp demographicsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return model.PatientDemographics{}, false
	}

	age, err := strconv.Atoi(strings.TrimSpace(resp.RepresentativeAge))
	if err != nil {
		return model.PatientDemographics{}, false
	}

	gender := normalizeGender(resp.Gender)
	descriptor := resp.AgeDescriptor
	if descriptor == "" {
		descriptor = strconv.Itoa(age)
	}

	return model.PatientDemographics{
		AgeDescriptor: descriptor,
		Age:           age,
		Gender:        gender,
	}, true
}

func normalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "female", "girl", "woman":
		return "female"
	default:
		return "male"
	}
}

var exactAgePattern = regexp.MustCompile(`(?i)(\d+)[-\s]year[-\s]old`)

// Descriptive age buckets with representative ages, checked in order.
var ageBuckets = []struct {
	Pattern    *regexp.Regexp
	Age        int
	Descriptor string
}{
	{regexp.MustCompile(`(?i)\b(infant|baby)\b`), 1, "infant"},
	{regexp.MustCompile(`(?i)\b(child|kid)\b`), 8, "child"},
	{regexp.MustCompile(`(?i)\b(adolescent|teenager|teen)\b`), 16, "adolescent"},
	{regexp.MustCompile(`(?i)\b(young)\b`), 28, "young"},
	{regexp.MustCompile(`(?i)\b(middle[-\s]aged)\b`), 50, "middle-aged"},
	{regexp.MustCompile(`(?i)\b(elderly|old)\b`), 72, "elderly"},
}

// Gender cues in priority order: child descriptors beat adult nouns
// beat pronouns.
var genderCues = []struct {
	Pattern *regexp.Regexp
	Gender  string
}{
	{regexp.MustCompile(`(?i)\bboy\b`), "male"},
	{regexp.MustCompile(`(?i)\bgirl\b`), "female"},
	{regexp.MustCompile(`(?i)\b(woman|female)\b`), "female"},
	{regexp.MustCompile(`(?i)\b(man|male)\b`), "male"},
	{regexp.MustCompile(`(?i)\b(she|her)\b`), "female"},
	{regexp.MustCompile(`(?i)\b(he|his|him)\b`), "male"},
}

// FallbackDemographics extracts patient demographics by regex alone.
// Exact stated ages win over descriptive buckets; the default patient
// is a 45-year-old male.
func FallbackDemographics(questionText string) model.PatientDemographics {
	d := model.PatientDemographics{Age: 45, AgeDescriptor: "45", Gender: "male"}

	if m := exactAgePattern.FindStringSubmatch(questionText); m != nil {
		d.Age, _ = strconv.Atoi(m[1])
		d.AgeDescriptor = m[1]
	} else {
		for _, bucket := range ageBuckets {
			if bucket.Pattern.MatchString(questionText) {
				d.Age = bucket.Age
				d.AgeDescriptor = bucket.Descriptor
				break
			}
		}
	}

	for _, cue := range genderCues {
		if cue.Pattern.MatchString(questionText) {
			d.Gender = cue.Gender
			break
		}
	}

	return d
}

func demographicsPrompt(questionText string) string {
	return fmt.Sprintf(`Extract patient demographic information from this medical question.

Question: %s

Analyze and return ONLY a JSON object with:
{
    "age_descriptor": "exact age (e.g., '7') or descriptive term (e.g., 'young', 'elderly', 'middle-aged')",
    "gender": "male, female, or boy/girl for children",
    "representative_age": "numeric age (use exact age if given, best estimate for descriptive terms)"
}

CRITICAL RULES:
- If EXACT age is given (e.g., "7-year-old", "25-year-old"), use that EXACT number
- If child descriptors used (boy, girl), preserve those and determine gender
- Boy = male, Girl = female
- For gender, prioritize: boy/girl > man/woman > he/she pronouns
- For representative_age: young adult=28, elderly=72, middle-aged=50, adolescent=16, child=8, infant=1
- PRESERVE EXACT AGES - do not change "7-year-old" to "8-year-old"

Examples:
"7-year-old boy" -> {"age_descriptor": "7", "gender": "male", "representative_age": "7"}
"elderly woman" -> {"age_descriptor": "elderly", "gender": "female", "representative_age": "72"}`, questionText)
}
