package infer

import "strings"

// gateContext is what a suppression predicate sees: the lowercased
// concatenation of narrative and source question text, plus the
// candidate rule's inferred sentence (also lowercased).
type gateContext struct {
	combined string
	inferred string
}

type predicate func(gateContext) bool

var visualAuraIndicators = []string{
	"visual hallucination", "colorful", "circular objects", "moving circles",
	"visual field", "visual phenomena", "sees colors", "perceives",
	"occipital", "benign childhood epilepsy", "occipital paroxysms",
	"visual aura", "simple partial", "focal seizure",
}

var noConsciousnessIndicators = []string{
	"no loss of consciousness", "alert", "awake", "conscious",
	"no impairment of consciousness", "remains conscious",
	"fully aware", "alert during episode", "responsive during",
}

var pediatricIndicators = []string{
	"7-year-old", "8-year-old", "9-year-old", "10-year-old",
	"child", "childhood", "pediatric", "boy", "girl",
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Suppression predicates, each independently testable. True means the
// rule must not fire in this context.
var predicates = map[string]predicate{
	// Visual aura vocabulary alongside explicit preserved consciousness.
	"visual-aura-no-loc": func(g gateContext) bool {
		return containsAny(g.combined, visualAuraIndicators) &&
			containsAny(g.combined, noConsciousnessIndicators)
	},
	// Children with visual hallucinations usually have benign occipital
	// epilepsy without a meaningful post-ictal phase.
	"pediatric-visual-hallucination": func(g gateContext) bool {
		return containsAny(g.combined, pediatricIndicators) &&
			containsAny(g.combined, visualAuraIndicators) &&
			strings.Contains(g.combined, "visual hallucination")
	},
	// Brief visual phenomena point to a simple partial seizure.
	"brief-visual": func(g gateContext) bool {
		return strings.Contains(g.combined, "visual") &&
			(strings.Contains(g.combined, "brief") || strings.Contains(g.combined, "short"))
	},
	"occipital-visual": func(g gateContext) bool {
		return strings.Contains(g.combined, "occipital") &&
			strings.Contains(g.combined, "visual")
	},
	// Interictal examination text only belongs in seizure cases.
	"exam-outside-seizure-case": func(g gateContext) bool {
		return !strings.Contains(g.combined, "seizure") &&
			!strings.Contains(g.combined, "epilep")
	},
	// Visual-examination text needs visual or occipital vocabulary.
	"exam-visual-context-missing": func(g gateContext) bool {
		if !strings.Contains(g.inferred, "visual") {
			return false
		}
		return !containsAny(g.combined, []string{"visual", "hallucination", "occipital"})
	},
	"pediatric-visual-recovery": func(g gateContext) bool {
		return containsAny(g.combined, pediatricIndicators) &&
			strings.Contains(g.combined, "visual")
	},
	"visual-hallucination-consciousness": func(g gateContext) bool {
		return strings.Contains(g.combined, "visual hallucination") &&
			strings.Contains(g.inferred, "consciousness")
	},
}

// suppressedBy attaches predicates to rules declaratively. Adding a new
// exclusion means adding a row here, not editing conditionals.
var suppressedBy = map[string][]string{
	"post-ictal-confusion": {
		"visual-aura-no-loc",
		"pediatric-visual-hallucination",
		"brief-visual",
		"occipital-visual",
		"pediatric-visual-recovery",
	},
	"automatism-consciousness": {"visual-hallucination-consciousness"},
	"interictal-exam-normal":   {"exam-outside-seizure-case"},
	"visual-seizure-exam":      {"exam-outside-seizure-case", "exam-visual-context-missing"},
}

// gateAllows reports whether the rule may apply in this context.
func gateAllows(r Rule, narrative, source string) bool {
	ids := suppressedBy[r.ID]
	if len(ids) == 0 {
		return true
	}
	g := gateContext{
		combined: strings.ToLower(narrative + " " + source),
		inferred: strings.ToLower(r.Inferred),
	}
	for _, id := range ids {
		if predicates[id](g) {
			return false
		}
	}
	return true
}
