package extract

import (
	"regexp"
	"strings"
)

var keywordStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"with": true, "shows": true, "demonstrates": true, "reveals": true,
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

var investigationGroupOrder = []string{
	"neurophysiology", "imaging", "laboratory", "pathology", "clinical_tests",
}

// Investigations returns only the investigation findings for text.
func Investigations(text string) []Finding {
	return Extract(text)[CategoryInvestigation]
}

// InvestigationCheck is the result of comparing a narrative against the
// investigation findings of its source question.
type InvestigationCheck struct {
	Rate      float64
	Preserved []Finding
	Missing   []Finding
}

// CheckInvestigations computes how many of the question's investigation
// findings survive in the narrative. A finding counts as preserved when
// any keyword of its result clause appears in the narrative. With no
// findings at all the rate is 100.
func CheckInvestigations(questionText, narrative string) InvestigationCheck {
	findings := Investigations(questionText)
	check := InvestigationCheck{Rate: 100}
	if len(findings) == 0 {
		return check
	}

	lower := strings.ToLower(narrative)
	for _, f := range findings {
		preserved := false
		for _, kw := range resultKeywords(f.CanonicalTerm) {
			if strings.Contains(lower, kw) {
				preserved = true
				break
			}
		}
		if preserved {
			check.Preserved = append(check.Preserved, f)
		} else {
			check.Missing = append(check.Missing, f)
		}
	}

	check.Rate = float64(len(check.Preserved)) / float64(len(findings)) * 100
	return check
}

// resultKeywords pulls the significant words out of a result clause:
// lowercase, longer than 2 characters, not a stop word.
func resultKeywords(clause string) []string {
	var keywords []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(clause), -1) {
		if len(w) > 2 && !keywordStopWords[w] {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// BuildInvestigationPrompt renders the constraint block listing every
// diagnostic result the generated case must carry over. Empty when the
// question has none.
func BuildInvestigationPrompt(questionText string) string {
	findings := Investigations(questionText)
	if len(findings) == 0 {
		return ""
	}

	byGroup := make(map[string][]Finding)
	for _, f := range findings {
		byGroup[f.groupTag()] = append(byGroup[f.groupTag()], f)
	}

	var b strings.Builder
	b.WriteString("CRITICAL INVESTIGATION PRESERVATION REQUIREMENTS:\n\n")
	b.WriteString("ALL DIAGNOSTIC TEST RESULTS FROM THE SOURCE QUESTION MUST BE PRESERVED EXACTLY:\n")
	for _, group := range investigationGroupOrder {
		gs := byGroup[group]
		if len(gs) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(strings.ToUpper(group))
		b.WriteString(" FINDINGS:\n")
		for _, f := range gs {
			b.WriteString("- MUST INCLUDE: ")
			b.WriteString(f.MatchedText)
			b.WriteString("\n")
		}
	}
	b.WriteString(`
VALIDATION REQUIREMENTS:
- The case MUST include ALL investigation findings mentioned in the source question
- Test results must be presented in the EXACT same format and with the SAME values
- Critical findings (EEG, MRI, CT, biopsy) are MANDATORY for case validity
- These findings directly determine the diagnosis and management approach
`)
	return b.String()
}

// groupTag recovers the test family for an investigation finding by
// looking up its subtype in the catalog.
func (f Finding) groupTag() string {
	for _, p := range investigationPatterns {
		if p.Subtype == f.Subtype {
			return p.Group
		}
	}
	return "clinical_tests"
}

// BackfillInvestigations appends any investigation findings the
// narrative failed to preserve as an explicit "Investigations
// performed" section, inserted ahead of the terminal "Given this"
// question phrase when present.
func BackfillInvestigations(narrative, questionText string) string {
	check := CheckInvestigations(questionText, narrative)
	if len(check.Missing) == 0 {
		return narrative
	}

	var section strings.Builder
	section.WriteString("\n\nInvestigations performed:\n")
	for _, f := range check.Missing {
		section.WriteString("- ")
		section.WriteString(f.MatchedText)
		section.WriteString("\n")
	}

	if idx := strings.Index(narrative, "Given this"); idx >= 0 {
		head := strings.TrimRight(narrative[:idx], " \t\n")
		return head + section.String() + "\n" + narrative[idx:]
	}
	return strings.TrimRight(narrative, " \t\n") + section.String()
}
