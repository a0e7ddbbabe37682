package classify

import (
	"sort"
	"strings"
)

// Category declares one content category and its keyword vocabulary.
// Classification confidence is keyword density: the fraction of the
// vocabulary observed in the text.
type Category struct {
	Name     string
	Keywords []string
}

// ContentCategory is one classification result. Keywords records exactly the
// subset of the category's vocabulary found in the text, in declaration
// order.
type ContentCategory struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

const (
	// minConfidence drops categories at or below this value.
	minConfidence = 0.3
	// maxConfidence caps the density score.
	maxConfidence = 0.95
	// densityScale converts matched fraction into confidence, so matching
	// half the vocabulary already reaches the cap.
	densityScale = 2.0
)

// Classifier assigns content categories by keyword density. The category
// list is ordered: ties in confidence keep declaration order, which keeps
// output deterministic.
type Classifier struct {
	categories []Category
}

// NewClassifier creates a classifier over the given categories.
func NewClassifier(categories []Category) *Classifier {
	return &Classifier{categories: categories}
}

// Classify ranks categories for the text, descending by confidence. Keyword
// matching is case-insensitive substring containment. Empty text yields nil.
func (c *Classifier) Classify(text string) []ContentCategory {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var results []ContentCategory
	for _, cat := range c.categories {
		if len(cat.Keywords) == 0 {
			continue
		}

		var matched []string
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}

		confidence := float64(len(matched)) / float64(len(cat.Keywords)) * densityScale
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
		if confidence <= minConfidence {
			continue
		}

		results = append(results, ContentCategory{
			Category:   cat.Name,
			Confidence: confidence,
			Keywords:   matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	return results
}

// DefaultCategories returns the built-in industrial document taxonomy.
func DefaultCategories() []Category {
	return []Category{
		{Name: "SAFETY_MANUAL", Keywords: []string{
			"safety", "hazard", "PPE", "OSHA", "emergency", "accident", "injury",
			"lockout", "tagout", "confined space", "chemical", "MSDS",
		}},
		{Name: "MAINTENANCE_PROCEDURE", Keywords: []string{
			"maintenance", "repair", "service", "inspection", "lubrication",
			"replacement", "troubleshooting", "preventive", "scheduled",
		}},
		{Name: "OPERATING_INSTRUCTION", Keywords: []string{
			"operation", "startup", "shutdown", "procedure", "step", "instruction",
			"control", "monitor", "adjust", "setting",
		}},
		{Name: "TRAINING_MATERIAL", Keywords: []string{
			"training", "course", "lesson", "certification", "competency",
			"skill", "knowledge", "assessment", "qualification",
		}},
		{Name: "TECHNICAL_SPECIFICATION", Keywords: []string{
			"specification", "technical", "drawing", "schematic", "blueprint",
			"dimension", "tolerance", "material", "standard",
		}},
	}
}
