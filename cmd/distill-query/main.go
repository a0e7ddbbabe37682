// Command distill-query inspects a SQLite extraction store: corpus
// statistics, or a confidence-ordered search over stored document text.
//
// Usage:
//
//	distill-query -db extractions.db -stats
//	distill-query -db extractions.db -search "lockout" -limit 5
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/kbforge/distill/pkg/distill/store"
	"github.com/kbforge/distill/pkg/distill/store/sqlite"
)

func main() {
	var (
		dbPath = flag.String("db", "", "SQLite extraction store (required)")
		stats  = flag.Bool("stats", false, "Print corpus statistics")
		search = flag.String("search", "", "Search stored document text")
		limit  = flag.Int("limit", 10, "Maximum search results")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("-db is required")
	}
	if !*stats && *search == "" {
		log.Fatal("one of -stats or -search is required")
	}

	ctx := context.Background()

	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if *stats {
		s, err := st.Stats(ctx)
		if err != nil {
			log.Fatalf("stats: %v", err)
		}
		printJSON(statsReport{
			TotalDocs:        s.TotalDocs,
			BySource:         s.BySource,
			AvgTopConfidence: s.AvgTopConfidence,
			TotalEntities:    s.TotalEntities,
			TotalRelations:   s.TotalRelations,
		})
		return
	}

	recs, err := st.SearchExtractions(ctx, *search, *limit)
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	printJSON(toSearchResults(recs))
}

type statsReport struct {
	TotalDocs        int64            `json:"total_docs"`
	BySource         map[string]int64 `json:"by_source"`
	AvgTopConfidence float64          `json:"avg_top_confidence"`
	TotalEntities    int64            `json:"total_entities"`
	TotalRelations   int64            `json:"total_relationships"`
}

// searchResult is the trimmed JSON view of a stored record: the full source
// text stays out of the listing.
type searchResult struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Source        string  `json:"source"`
	TopCategory   string  `json:"top_category,omitempty"`
	TopConfidence float64 `json:"top_confidence"`
	Entities      int     `json:"entities"`
	Relationships int     `json:"relationships"`
}

func toSearchResults(recs []store.Record) []searchResult {
	out := make([]searchResult, 0, len(recs))
	for _, rec := range recs {
		res := searchResult{
			ID:            rec.ID,
			Name:          rec.Name,
			Source:        rec.Source,
			TopConfidence: rec.TopCategoryConfidence(),
			Entities:      len(rec.Entities),
			Relationships: len(rec.Relationships),
		}
		if len(rec.Categories) > 0 {
			res.TopCategory = rec.Categories[0].Category
		}
		out = append(out, res)
	}
	return out
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	fmt.Println(string(data))
}
