package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"statfetch/internal/fetcher"
)

func TestWorldBank_Indicator_MultiPage(t *testing.T) {
	pageBodies := map[string]string{
		"1": `[{"page":1,"pages":2,"per_page":"2","total":3},
			[{"indicator":{"id":"SP.POP.TOTL"},"date":"2019","value":328239523},
			 {"indicator":{"id":"SP.POP.TOTL"},"date":"2018","value":326687501}]]`,
		"2": `[{"page":2,"pages":2,"per_page":"2","total":3},
			[{"indicator":{"id":"SP.POP.TOTL"},"date":"2017","value":325122128}]]`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/country/us/indicator/SP.POP.TOTL" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		if r.URL.Query().Get("format") != "json" {
			t.Errorf("Missing format=json: %s", r.URL.RawQuery)
		}

		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}

		fmt.Fprint(w, pageBodies[page])
	}))
	defer server.Close()

	wb := NewWorldBank(fetcher.NewClient(), server.URL)

	pages, err := wb.Indicator(context.Background(), "us", "SP.POP.TOTL", 2)
	if err != nil {
		t.Fatalf("Indicator returned unexpected error: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}

	if pages[0].Number != 1 || pages[0].Total != 2 {
		t.Errorf("Page 1 metadata = %d/%d, want 1/2", pages[0].Number, pages[0].Total)
	}

	if len(pages[0].Records) != 2 || len(pages[1].Records) != 1 {
		t.Errorf("Record counts = %d, %d", len(pages[0].Records), len(pages[1].Records))
	}

	date, ok := pages[1].Records[0].Field("date")
	if !ok || date != "2017" {
		t.Errorf("Page 2 record date = %v", date)
	}
}

func TestWorldBank_Indicator_SinglePage(t *testing.T) {
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++

		fmt.Fprint(w, `[{"page":1,"pages":1,"total":1},[{"date":"2019","value":null}]]`)
	}))
	defer server.Close()

	wb := NewWorldBank(fetcher.NewClient(), server.URL)

	pages, err := wb.Indicator(context.Background(), "us", "NY.GDP.MKTP.CD", 0)
	if err != nil {
		t.Fatalf("Indicator returned unexpected error: %v", err)
	}

	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(pages))
	}

	if requests != 1 {
		t.Errorf("Expected 1 request, got %d", requests)
	}

	// A null observation value is present in the record.
	v, ok := pages[0].Records[0].Field("value")
	if !ok || v != nil {
		t.Errorf("Field(value) = %v, %v; want nil, true", v, ok)
	}
}

func TestWorldBank_BadEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Not an array", body: `{"message":"error"}`},
		{name: "One element", body: `[{"page":1}]`},
		{name: "Records not objects", body: `[{"page":1,"pages":1},["oops"]]`},
		{name: "Metadata not an object", body: `["meta",[]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			wb := NewWorldBank(fetcher.NewClient(), server.URL)

			_, err := wb.Indicator(context.Background(), "us", "X", 0)
			if !errors.Is(err, ErrBadEnvelope) {
				t.Errorf("Indicator error = %v, want ErrBadEnvelope", err)
			}
		})
	}
}

func TestDecodeEnvelope_StringCounts(t *testing.T) {
	page, err := DecodeEnvelope([]byte(`[{"page":"3","pages":"7"},[]]`))
	if err != nil {
		t.Fatalf("DecodeEnvelope returned unexpected error: %v", err)
	}

	if page.Number != 3 || page.Total != 7 {
		t.Errorf("Counts = %d/%d, want 3/7", page.Number, page.Total)
	}
}
