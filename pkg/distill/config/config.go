package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk form of a pattern catalog.
//
// labels:
//   - name: EQUIPMENT
//     mode: fixed
//     confidence: 0.8
//     patterns:
//       - '\b[A-Z]{2,4}-\d{2,6}\b'
//   - name: ORGANIZATION
//     mode: scored
//     boost_terms: [inc, corp]
//     patterns:
//       - '...'
//
// stop_terms: [the, this, that]
type CatalogFile struct {
	StopTerms []string    `yaml:"stop_terms"`
	Labels    []LabelFile `yaml:"labels"`
}

// LabelFile is one catalog label entry.
type LabelFile struct {
	Name       string   `yaml:"name"`
	Mode       string   `yaml:"mode"`
	Confidence float64  `yaml:"confidence"`
	Patterns   []string `yaml:"patterns"`
	BoostTerms []string `yaml:"boost_terms"`
}

// LoadCatalogFile loads a catalog declaration from a YAML file.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// CategoriesFile is the on-disk form of the classifier taxonomy. Category
// order in the file is the tie-break order in results.
type CategoriesFile struct {
	Categories []CategoryFile `yaml:"categories"`
}

// CategoryFile is one classifier category.
type CategoryFile struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// LoadCategoriesFile loads classifier categories from a YAML file.
func LoadCategoriesFile(path string) (*CategoriesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf CategoriesFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// PairsFile is the on-disk form of the relationship pair table.
//
// pairs:
//   - labels: [PERSONNEL, EQUIPMENT]
//     type: OPERATES
type PairsFile struct {
	Pairs []PairFile `yaml:"pairs"`
}

// PairFile is one label-pair rule.
type PairFile struct {
	Labels []string `yaml:"labels"`
	Type   string   `yaml:"type"`
}

// LoadPairsFile loads pair rules from a YAML file.
func LoadPairsFile(path string) (*PairsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pf PairsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return &pf, nil
}

// TuningFile holds the engine's optional tuning knobs. Zero values select the
// documented defaults.
type TuningFile struct {
	ProximityWindow int `yaml:"proximity_window"`
	MaxPhrases      int `yaml:"max_phrases"`
}

// LoadTuningFile loads tuning parameters from a YAML file.
func LoadTuningFile(path string) (*TuningFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tf TuningFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	return &tf, nil
}
