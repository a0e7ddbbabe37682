// Package distill derives structured knowledge from free-form document text:
// labeled entity spans, proximity-inferred relationships between them,
// keyword-density content categories, salient key phrases, and line-level
// document structure.
//
// Every analysis is a pure function of its input text (plus the immutable
// catalogs the engine was built with): no I/O, no shared mutable state, no
// blocking. Different documents may be processed concurrently without
// coordination. Persistence is optional and lives behind the store.Store
// interface.
package distill

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kbforge/distill/pkg/distill/catalog"
	"github.com/kbforge/distill/pkg/distill/classify"
	"github.com/kbforge/distill/pkg/distill/entity"
	"github.com/kbforge/distill/pkg/distill/internalerr"
	"github.com/kbforge/distill/pkg/distill/phrase"
	"github.com/kbforge/distill/pkg/distill/relation"
	"github.com/kbforge/distill/pkg/distill/store"
	"github.com/kbforge/distill/pkg/distill/structure"
)

// Engine is the knowledge extraction facade.
type Engine struct {
	recognizer *entity.Recognizer
	inferencer *relation.Inferencer
	classifier *classify.Classifier
	maxPhrases int
	store      store.Store

	// entropy is shared across Ingest calls, which may run concurrently;
	// the locked reader serializes access to the monotonic source.
	entropy *ulid.LockedMonotonicReader
}

// Options configures an Engine. Zero-value fields select the documented
// defaults: the industrial catalog, its pair table and categories, a
// 50-byte proximity window, and ten key phrases.
type Options struct {
	Catalog         *catalog.Catalog
	Pairs           *relation.PairTable
	Categories      []classify.Category
	ProximityWindow int
	MaxPhrases      int
	Store           store.Store // optional; required only for Ingest/Search/Stats
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.NewIndustrial()
	}
	pairs := opts.Pairs
	if pairs == nil {
		pairs = relation.DefaultPairs()
	}
	categories := opts.Categories
	if categories == nil {
		categories = classify.DefaultCategories()
	}
	maxPhrases := opts.MaxPhrases
	if maxPhrases <= 0 {
		maxPhrases = phrase.DefaultMaxPhrases
	}

	return &Engine{
		recognizer: entity.NewRecognizer(cat),
		inferencer: relation.NewInferencer(pairs, opts.ProximityWindow),
		classifier: classify.NewClassifier(categories),
		maxPhrases: maxPhrases,
		store:      opts.Store,
		entropy:    &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)},
	}
}

// Close releases the store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Extraction is everything the engine derives from one text.
type Extraction struct {
	Entities      []entity.Entity            `json:"entities"`
	Relationships []relation.Relationship    `json:"relationships"`
	Categories    []classify.ContentCategory `json:"categories"`
	KeyPhrases    []phrase.KeyPhrase         `json:"key_phrases"`
	Structure     structure.Structure        `json:"structure"`
}

// Process runs the full extraction over the text. Pure and deterministic;
// empty text yields an Extraction of empty sequences, never an error.
// Relationship inference consumes the recognized entities; the other
// analyses depend only on the text.
func (e *Engine) Process(text string) Extraction {
	entities := e.recognizer.Recognize(text)
	return Extraction{
		Entities:      entities,
		Relationships: e.inferencer.Infer(text, entities),
		Categories:    e.classifier.Classify(text),
		KeyPhrases:    phrase.Extract(text, e.maxPhrases),
		Structure:     structure.Analyze(text),
	}
}

// Doc is a document to be ingested.
type Doc struct {
	Name   string // unique per store; re-ingesting a name replaces the record
	Source string // provenance: file path, URL, "stdin"
	Text   string
}

// Ingest processes the document and persists the result, returning the
// record ID and the extraction so callers don't process twice. Re-ingesting
// an existing name keeps its ID.
func (e *Engine) Ingest(ctx context.Context, d Doc) (string, Extraction, error) {
	if e.store == nil {
		return "", Extraction{}, internalerr.ErrStoreUnavailable
	}

	id := ""
	if d.Name != "" {
		existing, found, err := e.store.GetExtractionByName(ctx, d.Name)
		if err != nil {
			return "", Extraction{}, err
		}
		if found {
			id = existing.ID
		}
	}
	if id == "" {
		id = ulid.MustNew(ulid.Now(), e.entropy).String()
	}

	ext := e.Process(d.Text)
	rec := store.Record{
		ID:            id,
		Name:          d.Name,
		Source:        d.Source,
		Text:          d.Text,
		CreatedAt:     time.Now().UTC(),
		Entities:      ext.Entities,
		Relationships: ext.Relationships,
		Categories:    ext.Categories,
		KeyPhrases:    ext.KeyPhrases,
	}

	if err := e.store.SaveExtraction(ctx, rec); err != nil {
		return "", Extraction{}, err
	}
	return id, ext, nil
}

// Search returns stored records whose text contains the query,
// best-classified first.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]store.Record, error) {
	if e.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	return e.store.SearchExtractions(ctx, query, limit)
}

// Stats summarizes the store's contents.
func (e *Engine) Stats(ctx context.Context) (store.Stats, error) {
	if e.store == nil {
		return store.Stats{}, internalerr.ErrStoreUnavailable
	}
	return e.store.Stats(ctx)
}
