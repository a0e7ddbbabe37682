package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kbforge/distill/pkg/distill/internalerr"
)

// Mode selects how a label's entity candidates receive their confidence.
type Mode string

const (
	// FixedConfidence assigns the label's declared confidence to every match.
	FixedConfidence Mode = "fixed"
	// Scored runs each match through the recognizer's scoring function and
	// applies the inclusion threshold.
	Scored Mode = "scored"
)

// LabelSpec declares one entity label before compilation.
type LabelSpec struct {
	Name       string
	Mode       Mode
	Confidence float64  // used when Mode is FixedConfidence
	Patterns   []string // compiled case-insensitively
	BoostTerms []string // specialization terms for the scoring bonus
}

// Spec declares a full catalog before compilation.
type Spec struct {
	Labels    []LabelSpec
	StopTerms []string // matches equal to any of these are penalized when scoring
}

// Label is a compiled catalog entry. Label order within a catalog is
// significant: candidate generation iterates labels in declaration order so
// extraction stays deterministic.
type Label struct {
	Name       string
	Mode       Mode
	Confidence float64
	Patterns   []*regexp.Regexp
	BoostTerms []string // lowercased
}

// Catalog is an immutable, compiled pattern catalog. Build one at startup and
// share it freely; all methods are safe for concurrent use.
type Catalog struct {
	labels []Label
	stop   map[string]struct{}
}

// New compiles a catalog from its spec. A pattern that fails to compile, an
// unknown mode, or a fixed confidence outside [0,1] is a configuration error;
// the catalog is process-wide static configuration, so failures surface here
// rather than per extraction call.
func New(spec Spec) (*Catalog, error) {
	c := &Catalog{
		labels: make([]Label, 0, len(spec.Labels)),
		stop:   make(map[string]struct{}, len(spec.StopTerms)),
	}

	for _, term := range spec.StopTerms {
		c.stop[strings.ToLower(strings.TrimSpace(term))] = struct{}{}
	}

	for _, ls := range spec.Labels {
		if strings.TrimSpace(ls.Name) == "" {
			return nil, fmt.Errorf("label with empty name: %w", internalerr.ErrInvalidConfig)
		}

		label := Label{Name: ls.Name, Mode: ls.Mode, Confidence: ls.Confidence}

		switch ls.Mode {
		case FixedConfidence:
			if ls.Confidence < 0 || ls.Confidence > 1 {
				return nil, fmt.Errorf("label %s: confidence %v outside [0,1]: %w",
					ls.Name, ls.Confidence, internalerr.ErrInvalidConfig)
			}
		case Scored:
		default:
			return nil, fmt.Errorf("label %s: unknown mode %q: %w",
				ls.Name, ls.Mode, internalerr.ErrInvalidConfig)
		}

		for _, pat := range ls.Patterns {
			re, err := regexp.Compile("(?i)" + pat)
			if err != nil {
				return nil, fmt.Errorf("label %s: pattern %q: %v: %w",
					ls.Name, pat, err, internalerr.ErrInvalidConfig)
			}
			label.Patterns = append(label.Patterns, re)
		}

		for _, term := range ls.BoostTerms {
			label.BoostTerms = append(label.BoostTerms, strings.ToLower(term))
		}

		c.labels = append(c.labels, label)
	}

	return c, nil
}

// Labels returns the compiled labels in declaration order.
func (c *Catalog) Labels() []Label {
	return c.labels
}

// IsStopTerm reports whether the term belongs to the catalog's stop-word
// set. Comparison is case-insensitive.
func (c *Catalog) IsStopTerm(term string) bool {
	_, ok := c.stop[strings.ToLower(term)]
	return ok
}
