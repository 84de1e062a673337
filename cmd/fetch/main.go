// Package main provides the fetch command: one API call, raw JSON saved to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"statfetch/internal/config"
	"statfetch/internal/credentials"
	"statfetch/internal/fetcher"
	"statfetch/internal/logger"
)

// paramFlags collects repeated -param name=value flags in order.
type paramFlags []string

func (p *paramFlags) String() string {
	return strings.Join(*p, ",")
}

func (p *paramFlags) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("param %q is not name=value", value)
	}

	*p = append(*p, value)

	return nil
}

func main() {
	baseURL := flag.String("base", "", "Base URL of the API")
	path := flag.String("path", "", "Slash-separated path segments (e.g. 2019/acs/acs1)")
	forClause := flag.String("for", "", "Value of the query parameter named 'for'")
	keyFile := flag.String("key-file", "", "Path to a file holding the API key")
	keyEnv := flag.String("key-env", "", "Environment variable holding the API key")
	timeoutSec := flag.Int("timeout", 30, "Request timeout in seconds")
	outputPath := flag.String("output", "", "Path to output JSON file (default stdout)")

	var params paramFlags
	flag.Var(&params, "param", "Query parameter as name=value (repeatable, order preserved)")

	flag.Parse()

	log := logger.NewLogger("info")

	if *baseURL == "" {
		log.Error("Please provide a base URL with -base")
		flag.PrintDefaults()
		os.Exit(1)
	}

	req := fetcher.NewRequest(*baseURL)

	if *path != "" {
		req.Segment(strings.Split(strings.Trim(*path, "/"), "/")...)
	}

	for _, p := range params {
		parts := strings.SplitN(p, "=", 2)
		req.Param(parts[0], parts[1])
	}

	if *forClause != "" {
		req.For(*forClause)
	}

	switch {
	case *keyFile != "":
		key, err := credentials.LoadKeyFile(*keyFile)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Failed to load key: %v", err))
			os.Exit(1)
		}

		req.Key(key)
	case *keyEnv != "":
		key, err := credentials.LoadEnv(*keyEnv)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Failed to load key: %v", err))
			os.Exit(1)
		}

		req.Key(key)
	}

	client := fetcher.NewClientWithConfig(config.FetchConfig{TimeoutSec: *timeoutSec})

	log.Info(fmt.Sprintf("📍 Fetching %s", req))

	body, status, err := client.Fetch(context.Background(), req)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Fetch failed (status %d): %v", status, err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Fetched %d bytes (status %d)", len(body), status))

	if *outputPath == "" {
		fmt.Println(string(body))

		return
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
		log.Error(fmt.Sprintf("❌ Failed to create output directory: %v", err))
		os.Exit(1)
	}

	if err := os.WriteFile(*outputPath, body, 0644); err != nil {
		log.Error(fmt.Sprintf("❌ Failed to write output: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("💾 Saved to %s", *outputPath))
}
