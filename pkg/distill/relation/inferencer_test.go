package relation

import (
	"strings"
	"testing"

	"github.com/kbforge/distill/pkg/distill/entity"
)

func TestPairTableSymmetricLookup(t *testing.T) {
	table := NewPairTable()
	table.Add("EQUIPMENT", "PROCESS", "CONTROLS")

	if rel, ok := table.Lookup("EQUIPMENT", "PROCESS"); !ok || rel != "CONTROLS" {
		t.Errorf("forward lookup = %q, %v", rel, ok)
	}
	if rel, ok := table.Lookup("PROCESS", "EQUIPMENT"); !ok || rel != "CONTROLS" {
		t.Errorf("reverse lookup = %q, %v", rel, ok)
	}
	if _, ok := table.Lookup("PROCESS", "SAFETY"); ok {
		t.Error("unregistered pair should not resolve")
	}
}

func TestInferWithinWindow(t *testing.T) {
	text := "The pump controls the line pressure during startup operations today."
	entities := []entity.Entity{
		{Text: "pump", Label: "EQUIPMENT", Start: 4, End: 8, Confidence: 0.8},
		{Text: "pressure", Label: "PROCESS", Start: 27, End: 35, Confidence: 0.7},
	}

	rels := NewInferencer(DefaultPairs(), 0).Infer(text, entities)
	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %v", rels)
	}

	rel := rels[0]
	if rel.Source != "pump" || rel.Target != "pressure" {
		t.Errorf("endpoints = %q -> %q", rel.Source, rel.Target)
	}
	if rel.Type != "CONTROLS" {
		t.Errorf("type = %q, want CONTROLS", rel.Type)
	}
	if rel.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", rel.Confidence)
	}
	if !strings.Contains(rel.Context, "pump") || !strings.Contains(rel.Context, "pressure") {
		t.Errorf("context %q should span both entities", rel.Context)
	}
}

func TestInferBeyondWindow(t *testing.T) {
	text := strings.Repeat("x", 200)
	entities := []entity.Entity{
		{Text: "pump", Label: "EQUIPMENT", Start: 0, End: 4},
		{Text: "pressure", Label: "PROCESS", Start: 120, End: 128},
	}

	if rels := NewInferencer(DefaultPairs(), 50).Infer(text, entities); len(rels) != 0 {
		t.Errorf("entities 120 bytes apart should not relate, got %v", rels)
	}

	// A wider window admits the same pair.
	if rels := NewInferencer(DefaultPairs(), 150).Infer(text, entities); len(rels) != 1 {
		t.Errorf("window 150 should admit the pair, got %v", rels)
	}
}

func TestInferWindowBoundaryExclusive(t *testing.T) {
	text := strings.Repeat("y", 120)
	entities := []entity.Entity{
		{Text: "a", Label: "EQUIPMENT", Start: 0, End: 1},
		{Text: "b", Label: "EQUIPMENT", Start: 50, End: 51},
	}

	// Distance exactly equal to the window is outside it.
	if rels := NewInferencer(DefaultPairs(), 50).Infer(text, entities); len(rels) != 0 {
		t.Errorf("distance == window should not relate, got %v", rels)
	}
	if rels := NewInferencer(DefaultPairs(), 51).Infer(text, entities); len(rels) != 1 {
		t.Errorf("distance < window should relate, got %v", rels)
	}
}

func TestInferUnknownPairEmitsNothing(t *testing.T) {
	text := "hazard near the pump"
	entities := []entity.Entity{
		{Text: "hazard", Label: "SAFETY", Start: 0, End: 6},
		{Text: "pump", Label: "EQUIPMENT", Start: 16, End: 20},
	}

	// SAFETY/EQUIPMENT has no rule in the default table.
	if rels := NewInferencer(DefaultPairs(), 0).Infer(text, entities); len(rels) != 0 {
		t.Errorf("pair without a rule should emit nothing, got %v", rels)
	}
}

func TestInferReversedLabelsStillMatch(t *testing.T) {
	text := "pressure rises; the pump reacts"
	entities := []entity.Entity{
		{Text: "pressure", Label: "PROCESS", Start: 0, End: 8},
		{Text: "pump", Label: "EQUIPMENT", Start: 20, End: 24},
	}

	rels := NewInferencer(DefaultPairs(), 0).Infer(text, entities)
	if len(rels) != 1 || rels[0].Type != "CONTROLS" {
		t.Errorf("reversed label order should still resolve CONTROLS, got %v", rels)
	}
	// Source keeps input order, not table order.
	if rels[0].Source != "pressure" {
		t.Errorf("source = %q, want pressure", rels[0].Source)
	}
}

func TestInferContextClampedToBounds(t *testing.T) {
	text := "pump pressure"
	entities := []entity.Entity{
		{Text: "pump", Label: "EQUIPMENT", Start: 0, End: 4},
		{Text: "pressure", Label: "PROCESS", Start: 5, End: 13},
	}

	rels := NewInferencer(DefaultPairs(), 0).Infer(text, entities)
	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %v", rels)
	}
	if rels[0].Context != text {
		t.Errorf("context = %q, want the whole (short) text", rels[0].Context)
	}
}

func TestNewInferencerNilTableDefaults(t *testing.T) {
	text := "the pump controls pressure"
	entities := []entity.Entity{
		{Text: "pump", Label: "EQUIPMENT", Start: 4, End: 8},
		{Text: "pressure", Label: "PROCESS", Start: 18, End: 26},
	}

	rels := NewInferencer(nil, 0).Infer(text, entities)
	if len(rels) != 1 || rels[0].Type != "CONTROLS" {
		t.Errorf("nil table should fall back to the default pairs, got %v", rels)
	}
}

func TestInferNoEntities(t *testing.T) {
	if rels := NewInferencer(DefaultPairs(), 0).Infer("some text", nil); len(rels) != 0 {
		t.Errorf("no entities should yield no relationships, got %v", rels)
	}
}

func TestDefaultPairsComplete(t *testing.T) {
	table := DefaultPairs()
	if table.Len() != 6 {
		t.Errorf("default table has %d pairs, want 6", table.Len())
	}
	for _, tc := range [][3]string{
		{"PERSONNEL", "EQUIPMENT", "OPERATES"},
		{"PERSONNEL", "SAFETY", "FOLLOWS"},
		{"EQUIPMENT", "PROCESS", "CONTROLS"},
		{"SAFETY", "PROCESS", "PROTECTS"},
		{"EQUIPMENT", "EQUIPMENT", "CONNECTS_TO"},
		{"PERSONNEL", "PERSONNEL", "REPORTS_TO"},
	} {
		if rel, ok := table.Lookup(tc[0], tc[1]); !ok || rel != tc[2] {
			t.Errorf("Lookup(%s, %s) = %q, %v, want %s", tc[0], tc[1], rel, ok, tc[2])
		}
	}
}
