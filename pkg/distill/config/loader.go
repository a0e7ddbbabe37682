package config

import (
	"fmt"

	"github.com/kbforge/distill/pkg/distill/catalog"
	"github.com/kbforge/distill/pkg/distill/classify"
	"github.com/kbforge/distill/pkg/distill/internalerr"
	"github.com/kbforge/distill/pkg/distill/relation"
)

// Loader loads all configuration files and constructs engine components.
// Empty paths fall back to the built-in industrial defaults.
type Loader struct {
	CatalogPath    string
	CategoriesPath string
	PairsPath      string
	TuningPath     string
}

// Components holds the constructed configuration components.
type Components struct {
	Catalog         *catalog.Catalog
	Categories      []classify.Category
	Pairs           *relation.PairTable
	ProximityWindow int
	MaxPhrases      int
}

// Load reads the configuration files and returns initialized components.
// Any parse or compile failure is fatal here: the catalog is process-wide
// static configuration, so bad config never reaches an extraction call.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.CatalogPath != "" {
		cf, err := LoadCatalogFile(l.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		cat, err := buildCatalog(cf)
		if err != nil {
			return nil, fmt.Errorf("build catalog: %w", err)
		}
		comp.Catalog = cat
	} else {
		comp.Catalog = catalog.NewIndustrial()
	}

	if l.CategoriesPath != "" {
		cf, err := LoadCategoriesFile(l.CategoriesPath)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		for _, c := range cf.Categories {
			comp.Categories = append(comp.Categories, classify.Category{
				Name:     c.Name,
				Keywords: c.Keywords,
			})
		}
	} else {
		comp.Categories = classify.DefaultCategories()
	}

	if l.PairsPath != "" {
		pf, err := LoadPairsFile(l.PairsPath)
		if err != nil {
			return nil, fmt.Errorf("load pairs: %w", err)
		}
		table := relation.NewPairTable()
		for _, p := range pf.Pairs {
			if len(p.Labels) != 2 {
				return nil, fmt.Errorf("pair %q needs exactly 2 labels, got %d: %w",
					p.Type, len(p.Labels), internalerr.ErrInvalidConfig)
			}
			table.Add(p.Labels[0], p.Labels[1], p.Type)
		}
		comp.Pairs = table
	} else {
		comp.Pairs = relation.DefaultPairs()
	}

	if l.TuningPath != "" {
		tf, err := LoadTuningFile(l.TuningPath)
		if err != nil {
			return nil, fmt.Errorf("load tuning: %w", err)
		}
		comp.ProximityWindow = tf.ProximityWindow
		comp.MaxPhrases = tf.MaxPhrases
	}

	return comp, nil
}

// buildCatalog converts the file form into a compiled catalog.
func buildCatalog(cf *CatalogFile) (*catalog.Catalog, error) {
	spec := catalog.Spec{StopTerms: cf.StopTerms}
	for _, lf := range cf.Labels {
		spec.Labels = append(spec.Labels, catalog.LabelSpec{
			Name:       lf.Name,
			Mode:       catalog.Mode(lf.Mode),
			Confidence: lf.Confidence,
			Patterns:   lf.Patterns,
			BoostTerms: lf.BoostTerms,
		})
	}
	return catalog.New(spec)
}
