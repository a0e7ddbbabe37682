package phrase

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyPhrase is a salient phrase with a heuristic score. Scores are
// non-negative and unbounded; they rank phrases within one document and are
// not comparable across documents.
type KeyPhrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// DefaultMaxPhrases bounds the result when the caller passes no limit.
const DefaultMaxPhrases = 10

// Structural phrase patterns: capitalized multi-word runs, measurements,
// alphanumeric codes, and procedural references.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:[A-Z][a-z]+\s+){1,3}[A-Z][a-z]+\b`),
	regexp.MustCompile(`\b\d+\s*(?:PSI|RPM|°F|°C|GPM|CFM|Hz|mm|cm|inch|ft)\b`),
	regexp.MustCompile(`\b[A-Z]{2,}-\d+\b`),
	regexp.MustCompile(`\b(?:step|procedure|process|method|technique)\s+\d+\b`),
}

// Extract returns the top scored phrases in the text, descending by score,
// truncated to maxPhrases (DefaultMaxPhrases when maxPhrases <= 0).
//
// Deduplication keys on the (phrase, score) pair, not the phrase text alone:
// the same text matched by different patterns can score differently and both
// survive. Callers that need unique phrase texts keep the first occurrence,
// which carries the highest score.
func Extract(text string, maxPhrases int) []KeyPhrase {
	if maxPhrases <= 0 {
		maxPhrases = DefaultMaxPhrases
	}
	if text == "" {
		return nil
	}

	seen := make(map[KeyPhrase]struct{})
	var phrases []KeyPhrase
	for _, pat := range patterns {
		for _, match := range pat.FindAllString(text, -1) {
			p := KeyPhrase{Phrase: match, Score: score(match)}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			phrases = append(phrases, p)
		}
	}

	sort.SliceStable(phrases, func(i, j int) bool {
		return phrases[i].Score > phrases[j].Score
	})

	if len(phrases) > maxPhrases {
		phrases = phrases[:maxPhrases]
	}
	return phrases
}

// score weighs word count and leading capitalization.
func score(match string) float64 {
	words := len(strings.Fields(match))
	capBonus := 0.5
	if first, _ := utf8.DecodeRuneInString(match); unicode.IsUpper(first) {
		capBonus = 1.0
	}
	return float64(words)*0.3 + capBonus
}
