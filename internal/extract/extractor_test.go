package extract

import (
	"reflect"
	"testing"
)

func TestExtract_Lateralization(t *testing.T) {
	text := "A 45-year-old man presents with right sided weakness and left arm numbness."

	findings := Extract(text)

	lat := findings[CategoryLateralization]
	if len(lat) != 2 {
		t.Fatalf("Expected 2 lateralization findings, got %d: %+v", len(lat), lat)
	}
	if lat[0].MatchedText != "right sided" {
		t.Errorf("Expected 'right sided', got %q", lat[0].MatchedText)
	}
	if lat[0].Subtype != "right_sided" {
		t.Errorf("Expected subtype right_sided, got %q", lat[0].Subtype)
	}
	if lat[1].MatchedText != "left arm" {
		t.Errorf("Expected 'left arm', got %q", lat[1].MatchedText)
	}
}

func TestExtract_SpecificSigns(t *testing.T) {
	text := "Examination reveals ptosis, miosis and an ataxia of gait consistent with Horner's syndrome."

	findings := Extract(text)

	signs := findings[CategorySpecificSign]
	want := map[string]bool{
		"Horner's syndrome": false,
		"ptosis":            false,
		"miosis":            false,
		"ataxia":            false,
	}
	for _, f := range signs {
		if _, ok := want[f.CanonicalTerm]; ok {
			want[f.CanonicalTerm] = true
		}
	}
	for term, found := range want {
		if !found {
			t.Errorf("Expected sign %q to be extracted, findings: %+v", term, signs)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	text := `A 7-year-old boy with "figure of 4" posturing after head trauma. EEG shows right temporal spikes. Acute onset, right sided weakness.`

	first := Extract(text)
	second := Extract(text)

	if !reflect.DeepEqual(first, second) {
		t.Error("Extract is not deterministic across calls")
	}
}

func TestExtract_VerbatimSpans(t *testing.T) {
	text := `Sudden onset right sided weakness with Babinski sign. MRI shows a pontine infarct. The "fencing posture" was noted. Romberg test positive.`

	findings := Extract(text)

	total := 0
	for category, fs := range findings {
		for _, f := range fs {
			total++
			if f.MatchedText == "" {
				t.Errorf("%s: empty matched text: %+v", category, f)
				continue
			}
			if got := text[f.Start:f.End]; got != f.MatchedText {
				t.Errorf("%s: span [%d:%d] is %q, want %q", category, f.Start, f.End, got, f.MatchedText)
			}
		}
	}
	if total == 0 {
		t.Fatal("Expected findings from the sample text")
	}
}

func TestExtract_InvestigationResultClause(t *testing.T) {
	text := "EEG shows right temporal spikes. MRI demonstrates a left frontal lesion with edema."

	findings := Extract(text)

	inv := findings[CategoryInvestigation]
	if len(inv) != 2 {
		t.Fatalf("Expected 2 investigation findings, got %d: %+v", len(inv), inv)
	}

	byModality := map[string]string{}
	for _, f := range inv {
		byModality[f.Subtype] = f.CanonicalTerm
	}
	if byModality["EEG"] != "right temporal spikes" {
		t.Errorf("EEG result clause: got %q", byModality["EEG"])
	}
	if byModality["MRI"] != "a left frontal lesion with edema" {
		t.Errorf("MRI result clause: got %q", byModality["MRI"])
	}
}

func TestExtract_CriticalPhrases_QuotedAndEponym(t *testing.T) {
	text := `The child shows "right side nose rubbing" during episodes. Romberg's test was positive, as was figure of 4 posturing.`

	findings := Extract(text)

	phrases := findings[CategoryCriticalPhrase]
	want := map[string]bool{
		"right side nose rubbing": false,
		"Romberg's test":          false,
		"figure of 4":             false,
	}
	for _, f := range phrases {
		if _, ok := want[f.MatchedText]; ok {
			want[f.MatchedText] = true
		}
	}
	for phrase, found := range want {
		if !found {
			t.Errorf("Expected critical phrase %q, got %+v", phrase, phrases)
		}
	}

	// Quoted spans must point at the inner text, not the quotes
	for _, f := range phrases {
		if f.Subtype != "quoted" {
			continue
		}
		if got := text[f.Start:f.End]; got != f.MatchedText {
			t.Errorf("quoted span [%d:%d] is %q, want %q", f.Start, f.End, got, f.MatchedText)
		}
	}
}

func TestExtract_CriticalPhrases_LowercaseEponym(t *testing.T) {
	findings := Extract("Examination demonstrates features of horner's syndrome with miosis.")

	found := false
	for _, f := range findings[CategoryCriticalPhrase] {
		if f.Subtype == "eponym" && f.MatchedText == "horner's syndrome" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected a lowercase eponym capture, got %+v", findings[CategoryCriticalPhrase])
	}
}

func TestExtract_CriticalPhrases_Dedup(t *testing.T) {
	text := `Note the "fencing posture" here and the "fencing posture" again.`

	phrases := Extract(text)[CategoryCriticalPhrase]
	count := 0
	for _, f := range phrases {
		if f.MatchedText == "fencing posture" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected 1 deduplicated phrase, got %d", count)
	}
}

func TestExtract_NoFindings(t *testing.T) {
	findings := Extract("What is the capital of France?")

	for category, fs := range findings {
		if category == CategoryTemporal {
			continue
		}
		if len(fs) != 0 {
			t.Errorf("Unexpected findings in %s: %+v", category, fs)
		}
	}
}

func TestExtract_ContextWindow(t *testing.T) {
	text := "The patient has ptosis on examination."

	signs := Extract(text)[CategorySpecificSign]
	if len(signs) == 0 {
		t.Fatal("Expected ptosis finding")
	}

	f := signs[0]
	if f.Context == "" {
		t.Fatal("Expected non-empty context")
	}
	if len(f.Context) > len(f.MatchedText)+2*contextWindow {
		t.Errorf("Context too wide: %q", f.Context)
	}
}
