package extract

import (
	"strings"
	"testing"
)

func TestBuildRequirements_CoversEveryCategory(t *testing.T) {
	text := `Sudden onset right sided weakness after head trauma. MRI shows an infarct in the frontal lobe. The "fencing posture" was seen.`

	findings := Extract(text)
	reqs := BuildRequirements(findings)

	byCategory := make(map[FindingCategory]Requirement)
	for _, r := range reqs {
		byCategory[r.Category] = r
	}

	for cat, fs := range findings {
		if len(fs) == 0 {
			continue
		}
		r, ok := byCategory[cat]
		if !ok {
			t.Errorf("No requirement for non-empty category %s", cat)
			continue
		}
		for _, f := range fs {
			term := requiredTerm(f)
			found := false
			for _, rt := range r.RequiredTerms {
				if strings.EqualFold(rt, term) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s: term %q missing from requirement %+v", cat, term, r.RequiredTerms)
			}
		}
	}
}

func TestBuildRequirements_TermSelection(t *testing.T) {
	findings := map[FindingCategory][]Finding{
		CategoryLateralization: {
			{Category: CategoryLateralization, MatchedText: "right sided", CanonicalTerm: "right sided"},
		},
		CategorySpecificSign: {
			{Category: CategorySpecificSign, MatchedText: "babinski sign", CanonicalTerm: "Babinski sign"},
		},
		CategoryInvestigation: {
			{Category: CategoryInvestigation, Subtype: "EEG", MatchedText: "EEG shows spikes", CanonicalTerm: "spikes"},
		},
	}

	reqs := BuildRequirements(findings)
	if len(reqs) != 3 {
		t.Fatalf("Expected 3 requirements, got %d", len(reqs))
	}

	if reqs[0].Category != CategoryLateralization || reqs[0].RequiredTerms[0] != "right sided" {
		t.Errorf("Lateralization should require the raw match: %+v", reqs[0])
	}
	if reqs[1].Category != CategorySpecificSign || reqs[1].RequiredTerms[0] != "Babinski sign" {
		t.Errorf("Signs should require the canonical term: %+v", reqs[1])
	}
	if reqs[2].Category != CategoryInvestigation || reqs[2].RequiredTerms[0] != "EEG" {
		t.Errorf("Investigations should require the modality: %+v", reqs[2])
	}
}

func TestBuildRequirements_DedupCaseInsensitive(t *testing.T) {
	findings := map[FindingCategory][]Finding{
		CategorySpecificSign: {
			{Category: CategorySpecificSign, CanonicalTerm: "Ptosis"},
			{Category: CategorySpecificSign, CanonicalTerm: "ptosis"},
			{Category: CategorySpecificSign, CanonicalTerm: "miosis"},
		},
	}

	reqs := BuildRequirements(findings)
	if len(reqs) != 1 {
		t.Fatalf("Expected 1 requirement, got %d", len(reqs))
	}
	if len(reqs[0].RequiredTerms) != 2 {
		t.Fatalf("Expected 2 deduplicated terms, got %v", reqs[0].RequiredTerms)
	}
	if reqs[0].RequiredTerms[0] != "Ptosis" {
		t.Errorf("First-seen casing should win, got %q", reqs[0].RequiredTerms[0])
	}
}

func TestBuildRequirements_OrderIsStable(t *testing.T) {
	findings := map[FindingCategory][]Finding{
		CategoryInvestigation:  {{Category: CategoryInvestigation, Subtype: "MRI"}},
		CategoryLateralization: {{Category: CategoryLateralization, MatchedText: "bilateral"}},
		CategoryAnatomical:     {{Category: CategoryAnatomical, CanonicalTerm: "pons"}},
	}

	reqs := BuildRequirements(findings)
	got := []FindingCategory{reqs[0].Category, reqs[1].Category, reqs[2].Category}
	want := []FindingCategory{CategoryLateralization, CategoryAnatomical, CategoryInvestigation}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Requirement order %v, want %v", got, want)
		}
	}
}

func TestRenderPrompt_Empty(t *testing.T) {
	if got := RenderPrompt(nil); got != "" {
		t.Errorf("Expected empty prompt for no requirements, got %q", got)
	}
}

func TestRenderPrompt_Content(t *testing.T) {
	reqs := []Requirement{
		{
			Category:      CategoryLateralization,
			Directive:     "PRESERVE EXACT LATERALIZATION: Must include specific terms: right sided",
			RequiredTerms: []string{"right sided"},
		},
	}

	prompt := RenderPrompt(reqs)

	for _, want := range []string{
		"CRITICAL CLINICAL DETAIL PRESERVATION REQUIREMENTS:",
		"MANDATORY PRESERVATION REQUIREMENTS:",
		"- PRESERVE EXACT LATERALIZATION: Must include specific terms: right sided",
		"VALIDATION REQUIREMENTS:",
		"Lateralization information is critical and cannot be generalized",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}
