// Command distill-extract runs the knowledge extraction engine over one
// document and prints the result as JSON. With -db it also persists the
// extraction to a SQLite store.
//
// Usage:
//
//	distill-extract -input manual.txt
//	distill-extract -input page.html -html -catalog organizational
//	cat notes.txt | distill-extract -db extractions.db -name notes
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kbforge/distill/internal/htmltext"
	"github.com/kbforge/distill/pkg/distill"
	"github.com/kbforge/distill/pkg/distill/catalog"
	"github.com/kbforge/distill/pkg/distill/config"
	"github.com/kbforge/distill/pkg/distill/store/sqlite"
)

func main() {
	var (
		input       = flag.String("input", "", "Input file (default: stdin)")
		htmlInput   = flag.Bool("html", false, "Strip HTML markup from the input before extraction")
		catalogName = flag.String("catalog", "industrial", "Catalog: industrial, organizational, or a YAML file path")
		catsPath    = flag.String("categories", "", "Optional classifier categories YAML file")
		pairsPath   = flag.String("pairs", "", "Optional relationship pair table YAML file")
		tuningPath  = flag.String("tuning", "", "Optional tuning YAML file")
		window      = flag.Int("window", 0, "Proximity window in bytes (default 50)")
		maxPhrases  = flag.Int("max-phrases", 0, "Maximum key phrases (default 10)")
		dbPath      = flag.String("db", "", "Optional SQLite store to persist the extraction")
		name        = flag.String("name", "", "Document name for persistence (default: input file base name)")
	)
	flag.Parse()

	ctx := context.Background()

	text, source, err := readInput(*input)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	if *htmlInput {
		text = htmltext.Strip(text)
	}

	opts, err := buildOptions(*catalogName, *catsPath, *pairsPath, *tuningPath)
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	if *window > 0 {
		opts.ProximityWindow = *window
	}
	if *maxPhrases > 0 {
		opts.MaxPhrases = *maxPhrases
	}

	if *dbPath != "" {
		st, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		opts.Store = st
	}

	engine := distill.New(opts)
	defer engine.Close()

	var ext distill.Extraction
	if *dbPath != "" {
		docName := *name
		if docName == "" {
			docName = filepath.Base(source)
		}
		id, ingested, err := engine.Ingest(ctx, distill.Doc{Name: docName, Source: source, Text: text})
		if err != nil {
			log.Fatalf("persist extraction: %v", err)
		}
		ext = ingested
		log.Printf("stored extraction %s as %q", id, docName)
	} else {
		ext = engine.Process(text)
	}

	out, err := json.MarshalIndent(ext, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

// readInput returns the document text and a provenance string.
func readInput(path string) (string, string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}

// buildOptions assembles engine options from the catalog selector and the
// optional configuration files.
func buildOptions(catalogName, catsPath, pairsPath, tuningPath string) (distill.Options, error) {
	loader := config.Loader{
		CategoriesPath: catsPath,
		PairsPath:      pairsPath,
		TuningPath:     tuningPath,
	}

	switch catalogName {
	case "industrial":
		// Loader default.
	case "organizational":
	default:
		loader.CatalogPath = catalogName
	}

	comp, err := loader.Load()
	if err != nil {
		return distill.Options{}, err
	}
	if catalogName == "organizational" {
		comp.Catalog = catalog.NewOrganizational()
	}

	return distill.Options{
		Catalog:         comp.Catalog,
		Pairs:           comp.Pairs,
		Categories:      comp.Categories,
		ProximityWindow: comp.ProximityWindow,
		MaxPhrases:      comp.MaxPhrases,
	}, nil
}
