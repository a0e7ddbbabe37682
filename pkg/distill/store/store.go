package store

import (
	"context"
	"time"

	"github.com/kbforge/distill/pkg/distill/classify"
	"github.com/kbforge/distill/pkg/distill/entity"
	"github.com/kbforge/distill/pkg/distill/phrase"
	"github.com/kbforge/distill/pkg/distill/relation"
)

// Record is one persisted extraction: the source text plus everything the
// engine derived from it. ID is assigned by the caller before saving (the
// engine facade uses ULIDs).
type Record struct {
	ID            string
	Name          string // caller-supplied document name, unique per store
	Source        string // where the text came from: file path, URL, "stdin"
	Text          string
	CreatedAt     time.Time
	Entities      []entity.Entity
	Relationships []relation.Relationship
	Categories    []classify.ContentCategory
	KeyPhrases    []phrase.KeyPhrase
}

// TopCategoryConfidence returns the confidence of the record's best content
// category, or zero when unclassified. Categories are stored ranked, so the
// first entry is the best.
func (r Record) TopCategoryConfidence() float64 {
	if len(r.Categories) == 0 {
		return 0
	}
	return r.Categories[0].Confidence
}

// Stats summarizes a store's contents.
type Stats struct {
	TotalDocs        int64
	BySource         map[string]int64
	AvgTopConfidence float64 // mean best-category confidence across records
	TotalEntities    int64
	TotalRelations   int64
}

// Store persists extraction records. Implementations must be safe for
// concurrent use; the engine itself is pure and callers fan documents out.
type Store interface {
	Close() error

	// SaveExtraction inserts the record, replacing any existing record with
	// the same ID. Saving a name that belongs to a different ID fails with
	// internalerr.ErrDuplicate.
	SaveExtraction(ctx context.Context, rec Record) error
	GetExtraction(ctx context.Context, id string) (Record, error)
	GetExtractionByName(ctx context.Context, name string) (Record, bool, error)

	// SearchExtractions returns records whose text contains the query
	// (case-insensitive), best-classified first.
	SearchExtractions(ctx context.Context, query string, limit int) ([]Record, error)

	Stats(ctx context.Context) (Stats, error)
}
