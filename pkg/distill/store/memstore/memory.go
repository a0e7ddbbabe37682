package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kbforge/distill/pkg/distill/internalerr"
	"github.com/kbforge/distill/pkg/distill/store"
)

// Store is an in-memory implementation of store.Store for tests and
// single-shot runs that don't need persistence.
type Store struct {
	mu        sync.RWMutex
	records   map[string]store.Record
	nameIndex map[string]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records:   make(map[string]store.Record),
		nameIndex: make(map[string]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveExtraction inserts or replaces a record by ID.
func (s *Store) SaveExtraction(ctx context.Context, rec store.Record) error {
	if rec.ID == "" {
		return internalerr.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Name != "" {
		if otherID, ok := s.nameIndex[rec.Name]; ok && otherID != rec.ID {
			return fmt.Errorf("name %q already belongs to %s: %w",
				rec.Name, otherID, internalerr.ErrDuplicate)
		}
	}

	if old, ok := s.records[rec.ID]; ok {
		delete(s.nameIndex, old.Name)
	}
	s.records[rec.ID] = copyRecord(rec)
	if rec.Name != "" {
		s.nameIndex[rec.Name] = rec.ID
	}
	return nil
}

// GetExtraction returns the record with the given ID.
func (s *Store) GetExtraction(ctx context.Context, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return store.Record{}, internalerr.ErrNotFound
	}
	return copyRecord(rec), nil
}

// GetExtractionByName returns the record with the given name, if any.
func (s *Store) GetExtractionByName(ctx context.Context, name string) (store.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.nameIndex[name]
	if !ok {
		return store.Record{}, false, nil
	}
	return copyRecord(s.records[id]), true, nil
}

// SearchExtractions returns records whose text contains the query,
// best-classified first.
func (s *Store) SearchExtractions(ctx context.Context, query string, limit int) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(query)
	var hits []store.Record
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Text), lower) {
			hits = append(hits, copyRecord(rec))
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		ci, cj := hits[i].TopCategoryConfidence(), hits[j].TopCategoryConfidence()
		if ci != cj {
			return ci > cj
		}
		return hits[i].ID < hits[j].ID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Stats implements store.Store.
func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := store.Stats{BySource: make(map[string]int64)}
	var confSum float64
	for _, rec := range s.records {
		st.TotalDocs++
		st.BySource[rec.Source]++
		st.TotalEntities += int64(len(rec.Entities))
		st.TotalRelations += int64(len(rec.Relationships))
		confSum += rec.TopCategoryConfidence()
	}
	if st.TotalDocs > 0 {
		st.AvgTopConfidence = confSum / float64(st.TotalDocs)
	}
	return st, nil
}

// copyRecord deep-copies the slices so callers can't mutate stored state.
func copyRecord(rec store.Record) store.Record {
	out := rec
	out.Entities = append(out.Entities[:0:0], rec.Entities...)
	out.Relationships = append(out.Relationships[:0:0], rec.Relationships...)
	out.KeyPhrases = append(out.KeyPhrases[:0:0], rec.KeyPhrases...)
	out.Categories = append(out.Categories[:0:0], rec.Categories...)
	for i := range out.Categories {
		out.Categories[i].Keywords = append(out.Categories[i].Keywords[:0:0], rec.Categories[i].Keywords...)
	}
	return out
}
