package entity

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kbforge/distill/pkg/distill/catalog"
)

// Entity is a labeled span of source text. Start and End are byte offsets
// into the exact string passed to Recognize; Start < End and End never
// exceeds the source length.
type Entity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Scoring constants for labels in catalog.Scored mode.
const (
	scoreBase    = 0.7
	longBonus    = 0.1  // match longer than 10 runes
	shortPenalty = 0.2  // match shorter than 4 runes
	upperBonus   = 0.1  // first rune is upper case
	boostBonus   = 0.15 // a label boost term occurs in the match
	stopPenalty  = 0.4  // normalized match is a catalog stop term

	// inclusionThreshold drops weak scored candidates. Fixed-confidence
	// labels bypass it: their catalog entry already decided inclusion.
	inclusionThreshold = 0.7
)

// Recognizer applies a pattern catalog to free text. It is stateless apart
// from the immutable catalog and safe for concurrent use.
type Recognizer struct {
	cat *catalog.Catalog
}

// NewRecognizer creates a recognizer over the given catalog.
func NewRecognizer(cat *catalog.Catalog) *Recognizer {
	return &Recognizer{cat: cat}
}

// Recognize extracts entities from text. The result is deterministic for a
// given text and catalog: candidates are generated in catalog order, exact
// duplicates are removed, and overlapping spans are resolved so that no two
// returned entities cover overlapping byte ranges. Empty text yields nil.
func (r *Recognizer) Recognize(text string) []Entity {
	if text == "" {
		return nil
	}

	var candidates []Entity
	for _, label := range r.cat.Labels() {
		for _, pat := range label.Patterns {
			for _, loc := range pat.FindAllStringIndex(text, -1) {
				match := text[loc[0]:loc[1]]

				conf := label.Confidence
				if label.Mode == catalog.Scored {
					conf = r.score(label, match)
					if conf < inclusionThreshold {
						continue
					}
				}

				candidates = append(candidates, Entity{
					Text:       match,
					Label:      label.Name,
					Start:      loc[0],
					End:        loc[1],
					Confidence: conf,
				})
			}
		}
	}

	return resolveOverlaps(dedupe(candidates))
}

// score computes the confidence of a scored candidate, clamped to [0,1].
func (r *Recognizer) score(label catalog.Label, match string) float64 {
	conf := scoreBase

	length := utf8.RuneCountInString(match)
	if length > 10 {
		conf += longBonus
	}
	if length < 4 {
		conf -= shortPenalty
	}

	first, _ := utf8.DecodeRuneInString(match)
	if unicode.IsUpper(first) {
		conf += upperBonus
	}

	lower := strings.ToLower(match)
	for _, term := range label.BoostTerms {
		if strings.Contains(lower, term) {
			conf += boostBonus
			break
		}
	}

	if r.cat.IsStopTerm(strings.TrimSpace(lower)) {
		conf -= stopPenalty
	}

	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// dedupe removes candidates whose (lowercased text, start, end) triple has
// already been seen, preserving first-seen order. Distinct patterns within a
// label routinely produce the same span.
func dedupe(candidates []Entity) []Entity {
	type key struct {
		text       string
		start, end int
	}

	seen := make(map[key]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		k := key{strings.ToLower(c.Text), c.Start, c.End}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// resolveOverlaps sorts candidates by start offset and scans left to right,
// keeping exactly one entity per overlapping region. A later candidate that
// overlaps the last accepted one replaces it only on strictly higher
// confidence, so equal-confidence ties go to the earlier span.
func resolveOverlaps(candidates []Entity) []Entity {
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})

	out := make([]Entity, 0, len(candidates))
	for _, c := range candidates {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		last := &out[len(out)-1]
		if c.Start < last.End {
			if c.Confidence > last.Confidence {
				*last = c
			}
			continue
		}
		out = append(out, c)
	}
	return out
}
