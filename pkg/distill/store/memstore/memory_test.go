package memstore

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kbforge/distill/pkg/distill/classify"
	"github.com/kbforge/distill/pkg/distill/entity"
	"github.com/kbforge/distill/pkg/distill/internalerr"
	"github.com/kbforge/distill/pkg/distill/relation"
	"github.com/kbforge/distill/pkg/distill/store"
)

func testRecord(id, name, text string, topConf float64) store.Record {
	rec := store.Record{
		ID:        id,
		Name:      name,
		Source:    "test",
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if topConf > 0 {
		rec.Categories = []classify.ContentCategory{
			{Category: "SAFETY_MANUAL", Confidence: topConf, Keywords: []string{"safety"}},
		}
	}
	return rec
}

func TestSaveAndGet(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	rec := testRecord("01A", "doc-1", "pump safety manual", 0.9)
	rec.Entities = []entity.Entity{{Text: "pump", Label: "EQUIPMENT", Start: 0, End: 4, Confidence: 0.8}}
	rec.Relationships = []relation.Relationship{{Source: "pump", Target: "valve", Type: "CONNECTS_TO", Confidence: 0.7}}

	if err := s.SaveExtraction(ctx, rec); err != nil {
		t.Fatalf("SaveExtraction: %v", err)
	}

	got, err := s.GetExtraction(ctx, "01A")
	if err != nil {
		t.Fatalf("GetExtraction: %v", err)
	}
	if got.Name != "doc-1" || len(got.Entities) != 1 || len(got.Relationships) != 1 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestSaveRejectsEmptyID(t *testing.T) {
	s := New()
	err := s.SaveExtraction(context.Background(), store.Record{Name: "no-id"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSaveRejectsNameCollision(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveExtraction(ctx, testRecord("01A", "manual", "text", 0)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	err := s.SaveExtraction(ctx, testRecord("01B", "manual", "other text", 0))
	if !errors.Is(err, internalerr.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	// Same ID re-saving its own name is fine.
	if err := s.SaveExtraction(ctx, testRecord("01A", "manual", "updated", 0)); err != nil {
		t.Errorf("re-save with own name: %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, err := s.GetExtraction(context.Background(), "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByName(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.SaveExtraction(ctx, testRecord("01A", "manual", "text", 0)); err != nil {
		t.Fatalf("SaveExtraction: %v", err)
	}

	got, ok, err := s.GetExtractionByName(ctx, "manual")
	if err != nil || !ok {
		t.Fatalf("GetExtractionByName = %v/%v", ok, err)
	}
	if got.ID != "01A" {
		t.Errorf("got ID %q, want 01A", got.ID)
	}

	_, ok, err = s.GetExtractionByName(ctx, "absent")
	if err != nil {
		t.Fatalf("GetExtractionByName(absent): %v", err)
	}
	if ok {
		t.Error("absent name should report false, not an error")
	}
}

func TestSaveReplacesByID(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveExtraction(ctx, testRecord("01A", "old-name", "v1", 0)); err != nil {
		t.Fatalf("save v1: %v", err)
	}
	if err := s.SaveExtraction(ctx, testRecord("01A", "new-name", "v2", 0)); err != nil {
		t.Fatalf("save v2: %v", err)
	}

	got, err := s.GetExtraction(ctx, "01A")
	if err != nil {
		t.Fatalf("GetExtraction: %v", err)
	}
	if got.Text != "v2" {
		t.Errorf("text = %q, want v2", got.Text)
	}

	if _, ok, _ := s.GetExtractionByName(ctx, "old-name"); ok {
		t.Error("old name should be unindexed after replacement")
	}
	if _, ok, _ := s.GetExtractionByName(ctx, "new-name"); !ok {
		t.Error("new name should resolve")
	}
}

func TestSearchOrdersByTopConfidence(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.SaveExtraction(ctx, testRecord("01A", "low", "pump inspection notes", 0.4))
	s.SaveExtraction(ctx, testRecord("01B", "high", "pump safety manual", 0.9))
	s.SaveExtraction(ctx, testRecord("01C", "other", "unrelated memo", 0.8))

	hits, err := s.SearchExtractions(ctx, "PUMP", 0)
	if err != nil {
		t.Fatalf("SearchExtractions: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].ID != "01B" || hits[1].ID != "01A" {
		t.Errorf("order = %s, %s; want 01B, 01A", hits[0].ID, hits[1].ID)
	}
}

func TestSearchLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.SaveExtraction(ctx, testRecord("01A", "a", "valve", 0.3))
	s.SaveExtraction(ctx, testRecord("01B", "b", "valve", 0.5))
	s.SaveExtraction(ctx, testRecord("01C", "c", "valve", 0.4))

	hits, err := s.SearchExtractions(ctx, "valve", 2)
	if err != nil {
		t.Fatalf("SearchExtractions: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].ID != "01B" || hits[1].ID != "01C" {
		t.Errorf("limited order = %s, %s; want 01B, 01C", hits[0].ID, hits[1].ID)
	}
}

func TestStats(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec1 := testRecord("01A", "a", "one", 0.8)
	rec1.Entities = make([]entity.Entity, 3)
	rec1.Relationships = make([]relation.Relationship, 1)
	rec2 := testRecord("01B", "b", "two", 0.4)
	rec2.Source = "web"

	s.SaveExtraction(ctx, rec1)
	s.SaveExtraction(ctx, rec2)

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalDocs != 2 {
		t.Errorf("TotalDocs = %d, want 2", st.TotalDocs)
	}
	if st.BySource["test"] != 1 || st.BySource["web"] != 1 {
		t.Errorf("BySource = %v", st.BySource)
	}
	if st.TotalEntities != 3 || st.TotalRelations != 1 {
		t.Errorf("entity/relation totals = %d/%d", st.TotalEntities, st.TotalRelations)
	}
	if math.Abs(st.AvgTopConfidence-0.6) > 1e-9 {
		t.Errorf("AvgTopConfidence = %v, want 0.6", st.AvgTopConfidence)
	}
}

func TestStatsEmpty(t *testing.T) {
	s := New()
	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalDocs != 0 || st.AvgTopConfidence != 0 {
		t.Errorf("empty stats = %+v", st)
	}
}

func TestStoredRecordIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := testRecord("01A", "a", "text", 0.5)
	rec.Entities = []entity.Entity{{Text: "pump", Label: "EQUIPMENT"}}
	s.SaveExtraction(ctx, rec)

	// Mutating the caller's slice after saving must not leak into the store.
	rec.Entities[0].Text = "mutated"

	got, err := s.GetExtraction(ctx, "01A")
	if err != nil {
		t.Fatalf("GetExtraction: %v", err)
	}
	if got.Entities[0].Text != "pump" {
		t.Errorf("stored entity mutated: %+v", got.Entities[0])
	}

	// Mutating a returned record must not leak either.
	got.Entities[0].Text = "mutated"
	again, _ := s.GetExtraction(ctx, "01A")
	if again.Entities[0].Text != "pump" {
		t.Errorf("returned record aliases stored state: %+v", again.Entities[0])
	}
}
