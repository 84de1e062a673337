// Package main provides the render command: a table file in, a markdown,
// console, or CSV rendering out. It also signs and verifies provenance on
// saved markdown tables.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"statfetch/internal/formatter"
	"statfetch/internal/models"
	"statfetch/pkg/metadata"
)

func main() {
	inputPath := flag.String("input", "", "Path to table JSON file")
	outputPath := flag.String("output", "", "Path to output file (default stdout)")
	format := flag.String("format", "console", "Output format: console, markdown, or csv")
	sign := flag.String("sign", "", "Sign markdown output with this source URL")
	verifyPath := flag.String("verify", "", "Verify the provenance of a signed markdown file and exit")
	flag.Parse()

	if *verifyPath != "" {
		verify(*verifyPath)

		return
	}

	if *inputPath == "" {
		fmt.Println("Usage: render -input <table.json> [-format console|markdown|csv]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	var table models.Table
	if err := json.Unmarshal(raw, &table); err != nil {
		log.Fatalf("Error decoding table: %v\n", err)
	}

	out := os.Stdout

	if *outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
			log.Fatalf("Error creating directory: %v\n", err)
		}

		f, err := os.Create(*outputPath)
		if err != nil {
			log.Fatalf("Error creating output file: %v\n", err)
		}
		defer f.Close()

		out = f
	}

	switch *format {
	case "console":
		formatter.RenderConsole(&table, out)

	case "markdown":
		rendered := formatter.RenderMarkdown(&table)
		if *sign != "" {
			rendered = metadata.Sign(rendered, *sign) + "\n"
		}

		fmt.Fprint(out, rendered)

	case "csv":
		if err := formatter.WriteCSV(&table, out); err != nil {
			log.Fatalf("Error writing CSV: %v\n", err)
		}

	default:
		log.Fatalf("Unknown format: %s\n", *format)
	}
}

func verify(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	ok, err := metadata.Verify(string(content))
	if err != nil {
		log.Fatalf("❌ Verification failed: %v\n", err)
	}

	if ok {
		prov, _ := metadata.Extract(string(content))
		fmt.Printf("✅ Provenance intact (source: %s, fetched: %s)\n",
			prov.Source, prov.FetchedAt.Format("2006-01-02"))
	}
}
