package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"statfetch/internal/fetcher"
	"statfetch/internal/fetcher/sources"
	"statfetch/internal/formatter"
	"statfetch/internal/models"
	"statfetch/internal/normalizer"
)

func TestFlatFlow_CensusToMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "testkey" {
			t.Errorf("Expected key=testkey, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			["NAME","B01001_001E","state"],
			["Alabama","4903185","01"],
			["Alaska","731545","02"]
		]`))
	}))
	defer server.Close()

	// 1. Fetch and normalize
	client := fetcher.NewClient()
	census := sources.NewCensus(client, server.URL, "testkey")

	req := fetcher.NewRequest(server.URL).
		Param("get", "NAME,B01001_001E").
		For("state:*")

	table, err := census.RowsForRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("RowsForRequest failed: %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}

	// 2. Coerce the population column to numbers
	table, err = normalizer.CoerceColumns(table, map[string]models.CellType{
		"B01001_001E": models.TypeNumber,
	})
	if err != nil {
		t.Fatalf("CoerceColumns failed: %v", err)
	}

	cell, ok := table.Get(0, "B01001_001E")
	if !ok {
		t.Fatal("Expected B01001_001E cell")
	}

	if cell.Kind != models.KindNumber || cell.Num != 4903185 {
		t.Errorf("Expected number 4903185, got %+v", cell)
	}

	// 3. Render
	rendered := formatter.RenderMarkdown(table)

	if !strings.Contains(rendered, "| Alabama | 4903185     | 01    |") {
		t.Errorf("Unexpected markdown output:\n%s", rendered)
	}
}

func TestFlatFlow_RaggedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[["A","B"],["1"]]`))
	}))
	defer server.Close()

	client := fetcher.NewClient()
	census := sources.NewCensus(client, server.URL, "")

	_, err := census.RowsForRequest(context.Background(), fetcher.NewRequest(server.URL))
	if err == nil {
		t.Fatal("Expected error for ragged payload")
	}

	if !strings.Contains(err.Error(), "row 0") {
		t.Errorf("Expected row index in error, got: %v", err)
	}
}
