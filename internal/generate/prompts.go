package generate

import (
	"fmt"
	"strings"

	"github.com/neurocase/neurocase/internal/model"
)

// responseFormatMarker opens the JSON-shape section of the generation
// prompt. Tests key on it to distinguish generation calls from other
// LLM traffic.
const responseFormatMarker = "RESPONSE FORMAT (JSON):"

// buildGenerationPrompt assembles the full case-generation prompt:
// question context, analysis, preservation constraint blocks, and the
// question-type-specific phase guidance.
func buildGenerationPrompt(q model.Question, analysis Analysis, preservationBlock, investigationBlock string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a medical education expert creating an adaptive case-based learning scenario from an MCQ.

ORIGINAL MCQ (ID: %d):
Question: %s
Subspecialty: %s
Correct Answer: %s

ANALYSIS:
- Question Type: %s
- Complexity: %s
- Patient: %s

`, q.ID, q.QuestionText, q.Subspecialty, q.CorrectAnswer,
		analysis.QuestionType, analysis.Complexity, analysis.Demographics.Describe())

	if preservationBlock != "" {
		b.WriteString(preservationBlock)
		b.WriteString("\n")
	}
	if investigationBlock != "" {
		b.WriteString(investigationBlock)
		b.WriteString("\n")
	}

	b.WriteString("CRITICAL TASK: Create a realistic clinical case that teaches the EXACT SAME CONCEPT as this MCQ and intelligently determines the appropriate clinical starting phase.\n\n")
	b.WriteString(questionTypeInstructions(analysis.QuestionType, q.QuestionText))

	fmt.Fprintf(&b, `

ADAPTIVE CASE DESIGN REQUIREMENTS:
1. **INTELLIGENT PHASE SELECTION**: Analyze what the original MCQ tests and choose the most appropriate clinical phase to start from
2. **EXACT CONCEPT ALIGNMENT**: The case must focus on the EXACT same medical concept as the original MCQ
3. **PATIENT DEMOGRAPHICS**: Use the EXACT same patient demographics: %s
4. **CLINICAL REASONING MATCH**: The case should require the same type of clinical reasoning as the original MCQ
5. **DECISION POINT ALIGNMENT**: The case should lead to the same clinical decision point
6. **QUESTION TYPE CONSISTENCY**: %s questions must generate %s scenarios
7. **MEDICAL ACCURACY**: Maintain complete medical accuracy and educational value
8. **AGE DESCRIPTOR PRESERVATION**: If original says "young female", case must describe "young female"
9. **SOURCE VERIFICATION**: Include the source MCQ ID %d in your response
10. **CLINICAL DETAIL PRESERVATION**: Follow ALL clinical preservation requirements above - failure to preserve critical details will compromise educational integrity

%s
{
    "source_mcq_id": %d,
    "clinical_presentation": {
        "chief_complaint": "Main presenting symptom",
        "history_present_illness": "Detailed history of current problem",
        "past_medical_history": ["relevant", "conditions"],
        "medications": ["current", "medications"],
        "physical_examination": "Relevant examination findings",
        "vital_signs": {"bp": "120/80", "hr": "72", "temp": "98.6"}
    },
    "question_prompt": "What is the most appropriate next step?",
    "core_concept_type": "Primary medical concept being tested",
    "learning_objectives": ["objective1", "objective2", "objective3"]
}

IMPORTANT: The source_mcq_id MUST be %d. Generate the case now:`,
		analysis.Demographics.Describe(),
		strings.ToUpper(string(analysis.QuestionType)), strings.ToUpper(string(analysis.QuestionType)),
		q.ID, responseFormatMarker, q.ID, q.ID)

	return b.String()
}

// questionTypeInstructions tells the model which clinical phase the
// case should start from for each question type.
func questionTypeInstructions(qt model.QuestionType, originalQuestion string) string {
	base := fmt.Sprintf(`ORIGINAL QUESTION ANALYSIS: "%s"

ADAPTIVE CASE GENERATION INSTRUCTIONS:
You are an expert medical educator creating a case that teaches the EXACT same clinical concept as this MCQ.
Your task is to intelligently determine the appropriate starting phase of the clinical encounter based on what the original question is testing.

CLINICAL PHASES TO CHOOSE FROM:
1. **INITIAL PRESENTATION** (HPI/Chief Complaint) - Start here for diagnostic challenges
2. **POST-EXAMINATION** (After history/exam) - Start here when some findings are established
3. **POST-INVESTIGATION** (After initial tests) - Start here when diagnosis is suspected
4. **ESTABLISHED DIAGNOSIS** (Condition confirmed) - Start here for management/treatment questions
5. **ONGOING TREATMENT** (Patient on therapy) - Start here for treatment modification questions

INTELLIGENT PHASE SELECTION:
- Analyze what the original MCQ is actually testing
- Choose the most appropriate starting phase that leads to the same clinical decision
- The case should require the same type of clinical reasoning as the original question
`, originalQuestion)

	switch qt {
	case model.TypeManagement:
		return base + `
MANAGEMENT QUESTION - SPECIFIC GUIDANCE:
Since this is a MANAGEMENT question, you should typically start at one of these phases:

**OPTION A - ESTABLISHED DIAGNOSIS** (Most common):
- Patient's condition is already diagnosed/obvious
- Focus: "What is the best treatment/next step?"
- Include: Relevant clinical context that supports the management choice
- Exclude: Unnecessary diagnostic workup

**OPTION B - ONGOING TREATMENT** (For medication switches, second-line therapy):
- Patient is currently on treatment that needs modification
- Focus: "What should be changed/added/switched to?"
- Include: Current treatment details, response, side effects

**OPTION C - POST-INVESTIGATION** (When investigations inform treatment):
- Key test results are available that guide treatment
- Focus: "Based on these findings, what is the next step?"

CHOOSE THE OPTION that best matches what the original MCQ is testing.
`
	case model.TypeDiagnosis:
		return base + `
DIAGNOSIS QUESTION - SPECIFIC GUIDANCE:
Since this is a DIAGNOSIS question, you should typically start at one of these phases:

**OPTION A - INITIAL PRESENTATION** (Classic diagnostic scenario):
- Patient presents with symptoms requiring diagnosis
- Focus: "What is the most likely diagnosis?"
- Include: History, examination findings that point to the diagnosis

**OPTION B - POST-EXAMINATION** (When key findings are present):
- History and examination completed, findings available
- Focus: "Based on these findings, what is the diagnosis?"
- Include: Specific signs/symptoms that narrow differential

**OPTION C - POST-INVESTIGATION** (When test results guide diagnosis):
- Some initial tests done, results available
- Focus: "What do these findings suggest?"
- Include: Test results that clinch the diagnosis

CHOOSE THE OPTION that creates the same diagnostic challenge as the original MCQ.
`
	case model.TypeDifferential:
		return base + `
DIFFERENTIAL DIAGNOSIS QUESTION - SPECIFIC GUIDANCE:
Since this is a DIFFERENTIAL DIAGNOSIS question, you should typically start at:

**OPTION A - POST-EXAMINATION** (Most common):
- History and examination completed with key findings
- Focus: "What is the differential diagnosis?"
- Include: Clinical findings that support multiple possible diagnoses

**OPTION B - INITIAL PRESENTATION** (Complex cases):
- Patient presents with complex symptom pattern
- Focus: "What conditions should be in the differential?"
- Require: Broad clinical reasoning across multiple conditions

CHOOSE THE OPTION that requires the same differential reasoning as the original MCQ.
`
	case model.TypeLocalization:
		return base + `
LOCALIZATION QUESTION - SPECIFIC GUIDANCE:
Since this is a LOCALIZATION question, you should typically start at:

**OPTION A - POST-EXAMINATION** (Most common):
- Neurological examination completed with specific findings
- Focus: "Where is the lesion located?"
- Include: Specific neurological signs that localize to particular anatomy

**OPTION B - POST-INVESTIGATION** (When imaging/tests show findings):
- Test results available showing anatomical abnormalities
- Focus: "What level/location does this represent?"

**OPTION C - CLINICAL CORRELATION** (Signs + anatomy):
- Clinical findings presented with anatomical correlation
- Focus: "What anatomical structure explains these findings?"

CHOOSE THE OPTION that requires the same localization reasoning as the original MCQ.
`
	case model.TypeInvestigation:
		return base + `
INVESTIGATION QUESTION - SPECIFIC GUIDANCE:
Since this is an INVESTIGATION question, you should typically start at one of these phases:

**OPTION A - POST-EXAMINATION** (Most common):
- History and examination completed
- Focus: "What is the most appropriate next test?"
- Include: Clinical findings that justify the specific investigation

**OPTION B - INITIAL PRESENTATION** (When symptoms drive testing):
- Patient presents with specific symptoms
- Focus: "What initial test should be ordered?"

**OPTION C - POST-INITIAL-INVESTIGATION** (For follow-up testing):
- Some tests already done, need additional testing
- Focus: "What further investigation is needed?"

CHOOSE THE OPTION that requires the same investigative reasoning as the original MCQ.
`
	case model.TypePathophysiology:
		return base + `
PATHOPHYSIOLOGY QUESTION - SPECIFIC GUIDANCE:
Since this is a PATHOPHYSIOLOGY question, present a case that:
- Illustrates the underlying mechanism being tested
- Connects clinical findings to pathophysiological processes
- Asks "What explains this finding?" or "What is the mechanism?"
- Links symptoms/signs to the biological process
`
	default:
		return base + `
GENERAL CLINICAL QUESTION - ADAPTIVE GUIDANCE:
Analyze the original MCQ and intelligently choose the appropriate clinical phase:
- Match the type of clinical reasoning required
- Start at the phase that leads to the same decision point
- Ensure the case teaches the same core concept
- Focus on the same aspect of patient care
`
	}
}
