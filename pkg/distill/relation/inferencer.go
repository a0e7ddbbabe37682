package relation

import (
	"github.com/kbforge/distill/pkg/distill/entity"
)

// Relationship links two entities recognized in the same text. Source and
// Target hold the entity texts; Context is a window of the source text around
// the pair.
type Relationship struct {
	Source     string  `json:"source_entity"`
	Target     string  `json:"target_entity"`
	Type       string  `json:"relationship_type"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context"`
}

const (
	// DefaultWindow is the maximum start-offset distance, in bytes, between
	// two entities for them to be considered related.
	DefaultWindow = 50

	// contextPad extends the context window this many bytes on each side of
	// the entity pair.
	contextPad = 25

	// proximityConfidence is assigned to every proximity-inferred
	// relationship.
	proximityConfidence = 0.7
)

// Inferencer derives relationships between entities by proximity and a
// label-pair table. Pure and safe for concurrent use.
type Inferencer struct {
	table  *PairTable
	window int
}

// NewInferencer creates an inferencer with the given pair table and proximity
// window. A nil table selects DefaultPairs; a window of zero or less selects
// DefaultWindow.
func NewInferencer(table *PairTable, window int) *Inferencer {
	if table == nil {
		table = DefaultPairs()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Inferencer{table: table, window: window}
}

// Infer walks every pair of entities (in input order) and emits a
// relationship for pairs that start within the proximity window and whose
// label pair appears in the table. Entity counts per document are small, so
// the quadratic pair walk is fine.
func (in *Inferencer) Infer(text string, entities []entity.Entity) []Relationship {
	var rels []Relationship

	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			a, b := entities[i], entities[j]

			distance := a.Start - b.Start
			if distance < 0 {
				distance = -distance
			}
			if distance >= in.window {
				continue
			}

			relType, ok := in.table.Lookup(a.Label, b.Label)
			if !ok {
				continue
			}

			rels = append(rels, Relationship{
				Source:     a.Text,
				Target:     b.Text,
				Type:       relType,
				Confidence: proximityConfidence,
				Context:    contextWindow(text, a, b),
			})
		}
	}

	return rels
}

// contextWindow slices the text around both entities, clamped to bounds.
func contextWindow(text string, a, b entity.Entity) string {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}

	start -= contextPad
	if start < 0 {
		start = 0
	}
	end += contextPad
	if end > len(text) {
		end = len(text)
	}

	return text[start:end]
}
