// Package main provides the unified pipeline command: fetch every enabled
// source, normalize to tables, and write the results.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"statfetch/internal/config"
	"statfetch/internal/credentials"
	"statfetch/internal/fetcher"
	"statfetch/internal/fetcher/sources"
	"statfetch/internal/formatter"
	"statfetch/internal/logger"
	"statfetch/internal/models"
	"statfetch/internal/normalizer"
	"statfetch/pkg/metadata"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to pipeline configuration")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLoggerWithOptions(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	client := fetcher.NewClientWithConfig(cfg.Fetch)
	ctx := context.Background()

	log.Info("🚀 Starting fetch pipeline", "sources", len(cfg.GetEnabledSources()))

	startTime := time.Now()
	failures := 0

	for _, src := range cfg.GetEnabledSources() {
		srcLog := log.With("source", src.Name)

		if err := runSource(ctx, client, cfg, src, srcLog); err != nil {
			srcLog.Error(fmt.Sprintf("❌ Source failed: %v", err))

			failures++
		}
	}

	log.Info("✨ Pipeline complete", "duration", time.Since(startTime), "failures", failures)

	if failures > 0 {
		os.Exit(1)
	}
}

func runSource(ctx context.Context, client *fetcher.Client, cfg *config.Config, src config.SourceConfig, log *logger.Logger) error {
	key, err := resolveKey(src)
	if err != nil {
		return err
	}

	req := buildRequest(src)

	log.Info("📍 Fetching", "url", req.String())

	fetchStart := time.Now()

	var table *models.Table

	if src.IsPaginated() {
		table, err = runPaginated(ctx, client, src, req)
	} else {
		census := sources.NewCensus(client, src.BaseURL, key)
		table, err = census.RowsForRequest(ctx, req)
	}

	if err != nil {
		return err
	}

	log.Info("📊 Normalized", "columns", len(table.Columns), "rows", len(table.Rows),
		"duration", time.Since(fetchStart))

	if len(src.SortBy) > 0 {
		if err := normalizer.SortRows(table, src.SortBy); err != nil {
			return err
		}
	}

	if len(src.Coerce) > 0 {
		types := make(map[string]models.CellType, len(src.Coerce))

		for column, name := range src.Coerce {
			typ, err := models.ParseCellType(name)
			if err != nil {
				return err
			}

			types[column] = typ
		}

		table, err = normalizer.CoerceColumns(table, types)
		if err != nil {
			return err
		}
	}

	outputPath := cfg.GetOutputPath(src.Name)
	if err := writeTable(table, cfg.Output, outputPath, req.String()); err != nil {
		return err
	}

	log.Info("💾 Saved", "path", outputPath)

	return nil
}

// runPaginated fetches every page, normalizes each one, and merges them in
// the configured order with cross-page deduplication.
func runPaginated(ctx context.Context, client *fetcher.Client, src config.SourceConfig, req *fetcher.Request) (*models.Table, error) {
	rule, err := normalizer.ParseDedupRule(dedupOrDefault(src.Dedup))
	if err != nil {
		return nil, err
	}

	order, err := normalizer.ParseMergeOrder(src.PageOrder)
	if err != nil {
		return nil, err
	}

	wb := sources.NewWorldBank(client, src.BaseURL)

	pages, err := wb.Pages(ctx, req)
	if err != nil {
		return nil, err
	}

	fragments := make([]*models.Table, len(pages))

	for i, page := range pages {
		fragment, err := normalizer.NormalizePaginated([]models.Page{page},
			src.GroupKeys, src.ValueField, rule)
		if err != nil {
			return nil, err
		}

		fragments[i] = fragment
	}

	return normalizer.MergePagesDedup(fragments, order, src.GroupKeys, rule)
}

func dedupOrDefault(rule string) string {
	if rule == "" {
		return "first"
	}

	return rule
}

func buildRequest(src config.SourceConfig) *fetcher.Request {
	req := fetcher.NewRequest(src.BaseURL).Segment(src.Segments...)

	hasFormat := false

	for _, p := range src.Params {
		req.Param(p.Name, p.Value)

		if p.Name == "format" {
			hasFormat = true
		}
	}

	if src.IsPaginated() {
		// The envelope contract only holds for the JSON rendering.
		if !hasFormat {
			req.Param("format", "json")
		}

		if src.PerPage > 0 {
			req.Param("per_page", strconv.Itoa(src.PerPage))
		}
	}

	return req
}

func resolveKey(src config.SourceConfig) (string, error) {
	switch {
	case src.KeyFile != "":
		return credentials.LoadKeyFile(src.KeyFile)
	case src.KeyEnv != "":
		return credentials.LoadEnv(src.KeyEnv)
	}

	return "", nil
}

func writeTable(table *models.Table, out config.OutputConfig, path, source string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var data []byte

	switch out.Format {
	case "json":
		encoded, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal table: %w", err)
		}

		data = encoded

	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		return formatter.WriteCSV(table, f)

	case "markdown":
		rendered := formatter.RenderMarkdown(table)
		if out.Sign {
			rendered = metadata.Sign(rendered, source) + "\n"
		}

		data = []byte(rendered)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
