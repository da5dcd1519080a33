package extract

import "strings"

// Requirement is one "must preserve" directive derived from the
// findings of a single category. RequiredTerms are what the validator
// later searches for, case-insensitively.
type Requirement struct {
	Category      FindingCategory
	Directive     string
	RequiredTerms []string
}

var requirementOrder = []FindingCategory{
	CategoryLateralization,
	CategorySpecificSign,
	CategoryClinicalContext,
	CategoryTemporal,
	CategoryAnatomical,
	CategoryCriticalPhrase,
	CategoryInvestigation,
}

var directiveHeads = map[FindingCategory]string{
	CategoryLateralization:  "PRESERVE EXACT LATERALIZATION: Must include specific terms: ",
	CategorySpecificSign:    "PRESERVE SPECIFIC CLINICAL SIGNS: Must include exact terms: ",
	CategoryClinicalContext: "PRESERVE CLINICAL CONTEXT: Must maintain context: ",
	CategoryTemporal:        "PRESERVE TEMPORAL CONTEXT: Must include timing: ",
	CategoryAnatomical:      "PRESERVE ANATOMICAL SPECIFICS: Must include: ",
	CategoryCriticalPhrase:  "PRESERVE CRITICAL PHRASES: Must include exactly: ",
	CategoryInvestigation:   "PRESERVE INVESTIGATION FINDINGS: Must include: ",
}

// BuildRequirements turns extracted findings into one requirement per
// non-empty category. Terms are deduplicated case-insensitively with
// the first-seen casing kept for display.
func BuildRequirements(findings map[FindingCategory][]Finding) []Requirement {
	var reqs []Requirement

	for _, cat := range requirementOrder {
		fs := findings[cat]
		if len(fs) == 0 {
			continue
		}

		var terms []string
		seen := make(map[string]bool)
		for _, f := range fs {
			term := requiredTerm(f)
			key := strings.ToLower(term)
			if term == "" || seen[key] {
				continue
			}
			seen[key] = true
			terms = append(terms, term)
		}
		if len(terms) == 0 {
			continue
		}

		reqs = append(reqs, Requirement{
			Category:      cat,
			Directive:     directiveHeads[cat] + strings.Join(terms, ", "),
			RequiredTerms: terms,
		})
	}

	return reqs
}

// requiredTerm selects what the validator must find in generated text.
// Lateralization and temporal phrasing must survive verbatim, so the
// raw match is required; signs, contexts and anatomy use the canonical
// display term; investigations require only the modality to appear,
// the result clause is checked separately by keyword.
func requiredTerm(f Finding) string {
	switch f.Category {
	case CategoryLateralization, CategoryTemporal, CategoryCriticalPhrase:
		return f.MatchedText
	case CategoryInvestigation:
		return f.Subtype
	default:
		return f.CanonicalTerm
	}
}

// RenderPrompt assembles the preservation constraint block embedded in
// a generation prompt. Pure text assembly.
func RenderPrompt(reqs []Requirement) string {
	if len(reqs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("CRITICAL CLINICAL DETAIL PRESERVATION REQUIREMENTS:\n\n")
	b.WriteString("MANDATORY PRESERVATION REQUIREMENTS:\n")
	for _, r := range reqs {
		b.WriteString("- ")
		b.WriteString(r.Directive)
		b.WriteString("\n")
	}
	b.WriteString(`
VALIDATION REQUIREMENTS:
- The generated case will be validated against these preservation requirements
- Any missing critical details will result in case rejection
- All specific medical terminology must appear verbatim
- Lateralization information is critical and cannot be generalized
- Clinical context (trauma vs non-trauma, acute vs chronic) must be maintained
`)
	return b.String()
}
