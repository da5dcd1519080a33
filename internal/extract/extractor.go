package extract

import "strings"

const contextWindow = 20

// Finding is one clinical fact pulled out of question text. MatchedText
// is always the verbatim substring at [Start:End) of the source.
type Finding struct {
	Category      FindingCategory
	Subtype       string
	MatchedText   string
	CanonicalTerm string
	Start         int
	End           int
	Context       string
}

// Extract runs every catalog pattern against text and returns findings
// grouped by category. Pure function: no state survives between calls,
// and within a category findings keep left-to-right source order per
// pattern.
func Extract(text string) map[FindingCategory][]Finding {
	findings := make(map[FindingCategory][]Finding)

	for _, entry := range catalog {
		for _, p := range entry.Patterns {
			for _, idx := range p.Regexp.FindAllStringSubmatchIndex(text, -1) {
				f := Finding{
					Category:    entry.Category,
					Subtype:     p.Subtype,
					MatchedText: text[idx[0]:idx[1]],
					Start:       idx[0],
					End:         idx[1],
					Context:     contextAround(text, idx[0], idx[1]),
				}
				f.CanonicalTerm = canonicalFor(p, f, text, idx)
				findings[entry.Category] = append(findings[entry.Category], f)
			}
		}
	}

	if phrases := extractCriticalPhrases(text); len(phrases) > 0 {
		findings[CategoryCriticalPhrase] = phrases
	}

	return findings
}

// canonicalFor picks the display term. Investigation patterns with a
// second capture group yield the result clause; everything else falls
// back to the pattern's canonical term or the raw match.
func canonicalFor(p Pattern, f Finding, text string, idx []int) string {
	if f.Category == CategoryInvestigation {
		if len(idx) >= 6 && idx[4] >= 0 {
			return strings.TrimSpace(text[idx[4]:idx[5]])
		}
		return f.MatchedText
	}
	if p.Canonical != "" {
		return p.Canonical
	}
	return f.MatchedText
}

// extractCriticalPhrases unions two passes: quoted substrings, then the
// medical-naming patterns. Duplicates across passes are removed by
// exact string, first occurrence wins.
func extractCriticalPhrases(text string) []Finding {
	var phrases []Finding
	seen := make(map[string]bool)

	add := func(subtype, matched string, start, end int) {
		if matched == "" || seen[matched] {
			return
		}
		seen[matched] = true
		phrases = append(phrases, Finding{
			Category:      CategoryCriticalPhrase,
			Subtype:       subtype,
			MatchedText:   matched,
			CanonicalTerm: matched,
			Start:         start,
			End:           end,
			Context:       contextAround(text, start, end),
		})
	}

	for _, idx := range quotedPhrasePattern.FindAllStringSubmatchIndex(text, -1) {
		// span covers the inner group so the phrase is verbatim at it
		add("quoted", text[idx[2]:idx[3]], idx[2], idx[3])
	}

	for _, p := range medicalPhrasePatterns {
		for _, idx := range p.Regexp.FindAllStringIndex(text, -1) {
			add(p.Subtype, text[idx[0]:idx[1]], idx[0], idx[1])
		}
	}

	return phrases
}

func contextAround(text string, start, end int) string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
