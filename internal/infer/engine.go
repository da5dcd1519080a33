package infer

import (
	"log"
	"regexp"
	"strings"
)

var phraseStopWords = map[string]bool{
	"the": true, "was": true, "were": true, "is": true, "are": true,
	"a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "during": true,
	"noted": true, "observed": true,
}

var nonWordChars = regexp.MustCompile(`[^\w]`)

// Enhance appends inferred clinical consequences to a generated
// narrative. Rules apply in fixed table order; a rule is skipped when
// its trigger does not match, a suppression gate rejects the context,
// its inferred text is empty, or its key phrases are already present.
// Deterministic for a given narrative and source text.
func Enhance(narrative, sourceQuestionText string) string {
	enhanced := narrative
	for _, table := range ruleTables {
		for _, r := range table {
			if !r.Trigger.MatchString(enhanced) {
				continue
			}
			if !gateAllows(r, enhanced, sourceQuestionText) {
				continue
			}
			if r.Inferred == "" {
				// exclusion marker, nothing to insert
				continue
			}
			if alreadyPresent(enhanced, r.Inferred) {
				continue
			}
			enhanced = insertSentence(enhanced, r.Inferred)
		}
	}
	return enhanced
}

// EnhanceCase wraps Enhance with a panic guard: enrichment must never
// sink the pipeline, so any internal failure returns the narrative
// untouched.
func EnhanceCase(narrative, sourceQuestionText string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("clinical inference failed, keeping original narrative: %v", r)
			result = narrative
		}
	}()
	return Enhance(narrative, sourceQuestionText)
}

// alreadyPresent reports whether any key phrase of the inferred
// sentence already occurs in the narrative.
func alreadyPresent(narrative, inferred string) bool {
	lower := strings.ToLower(narrative)
	for _, phrase := range keyPhrases(inferred) {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// keyPhrases extracts runs of at least two consecutive significant
// words (longer than 3 characters, not stop words) from a sentence.
func keyPhrases(s string) []string {
	var phrases []string
	var current []string

	flush := func() {
		if len(current) >= 2 {
			phrases = append(phrases, strings.Join(current, " "))
		}
		current = nil
	}

	for _, word := range strings.Fields(strings.ToLower(s)) {
		clean := nonWordChars.ReplaceAllString(word, "")
		if len(clean) > 3 && !phraseStopWords[clean] {
			current = append(current, clean)
		} else {
			flush()
		}
	}
	flush()

	return phrases
}

// insertSentence places the inferred sentence before the final
// sentence of the narrative, or appends it when the narrative is a
// single sentence.
func insertSentence(narrative, inferred string) string {
	sentences := strings.Split(narrative, ". ")
	if len(sentences) > 1 {
		last := sentences[len(sentences)-1]
		sentences = append(sentences[:len(sentences)-1], strings.TrimRight(inferred, "."), last)
		return strings.Join(sentences, ". ")
	}
	return strings.TrimRight(narrative, ".") + ". " + inferred
}
