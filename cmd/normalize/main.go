// Package main provides the normalize command: a raw payload file in, a
// table file out.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"statfetch/internal/fetcher/sources"
	"statfetch/internal/models"
	"statfetch/internal/normalizer"
)

func main() {
	inputPath := flag.String("input", "", "Path to raw payload JSON file")
	outputPath := flag.String("output", "", "Path to output table JSON file")
	mode := flag.String("mode", "flat", "Payload shape: flat or paginated")
	groupKeys := flag.String("group-keys", "", "Comma-separated group key fields (paginated mode)")
	valueField := flag.String("value-field", "value", "Field holding the value of interest (paginated mode)")
	dedup := flag.String("dedup", "first", "Dedup rule: first or last (paginated mode)")
	sortBy := flag.String("sort-by", "", "Comma-separated columns to sort the result by")
	coerce := flag.String("coerce", "", "Column coercions as col=type,col=type (types: string, number)")
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		fmt.Println("Usage: normalize -input <payload.json> -output <table.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(raw))

	var table *models.Table

	switch *mode {
	case "flat":
		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Fatalf("Error decoding payload: %v\n", err)
		}

		table, err = normalizer.NormalizeFlat(payload)
		if err != nil {
			log.Fatalf("Error normalizing flat payload: %v\n", err)
		}

	case "paginated":
		keys := splitList(*groupKeys)
		if len(keys) == 0 {
			log.Fatalln("Paginated mode requires -group-keys")
		}

		rule, err := normalizer.ParseDedupRule(*dedup)
		if err != nil {
			log.Fatalf("Error: %v\n", err)
		}

		page, err := loadPage(raw)
		if err != nil {
			log.Fatalf("Error decoding payload: %v\n", err)
		}

		table, err = normalizer.NormalizePaginated([]models.Page{page}, keys, *valueField, rule)
		if err != nil {
			log.Fatalf("Error normalizing paginated payload: %v\n", err)
		}

	default:
		log.Fatalf("Unknown mode: %s\n", *mode)
	}

	fmt.Printf("📊 Normalized: %d columns, %d rows\n", len(table.Columns), len(table.Rows))

	if *sortBy != "" {
		if err := normalizer.SortRows(table, splitList(*sortBy)); err != nil {
			log.Fatalf("Error sorting: %v\n", err)
		}
	}

	if *coerce != "" {
		types, err := parseCoercions(*coerce)
		if err != nil {
			log.Fatalf("Error: %v\n", err)
		}

		table, err = normalizer.CoerceColumns(table, types)
		if err != nil {
			log.Fatalf("Error coercing columns: %v\n", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
		log.Fatalf("Error creating directory: %v\n", err)
	}

	jsonData, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", *outputPath)
}

// loadPage accepts either a bare array of records or a [meta, records]
// envelope.
func loadPage(raw []byte) (models.Page, error) {
	var records []models.Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return models.Page{Records: records}, nil
	}

	return sources.DecodeEnvelope(raw)
}

func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

func parseCoercions(s string) (map[string]models.CellType, error) {
	types := make(map[string]models.CellType)

	for _, pair := range splitList(s) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("coercion %q is not col=type", pair)
		}

		typ, err := models.ParseCellType(parts[1])
		if err != nil {
			return nil, err
		}

		types[parts[0]] = typ
	}

	return types, nil
}
