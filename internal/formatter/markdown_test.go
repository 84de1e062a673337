package formatter

import (
	"bytes"
	"strings"
	"testing"

	"statfetch/internal/models"
)

func sampleTable() *models.Table {
	t := models.NewTable([]models.Column{
		{Name: "NAME", Type: models.TypeString},
		{Name: "pop", Type: models.TypeNumber},
	})
	t.AppendRow(models.Row{models.StringCell("Alabama"), models.NumberCell(4903185)})
	t.AppendRow(models.Row{models.StringCell("Alaska"), models.NullCell()})

	return t
}

func TestRenderMarkdown(t *testing.T) {
	got := RenderMarkdown(sampleTable())

	want := strings.Join([]string{
		"| NAME    | pop     |",
		"| ------- | ------- |",
		"| Alabama | 4903185 |",
		"| Alaska  |         |",
		"",
	}, "\n")

	if got != want {
		t.Errorf("RenderMarkdown mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderMarkdown_WideRunes(t *testing.T) {
	table := models.NewTable([]models.Column{{Name: "name", Type: models.TypeString}})
	table.AppendRow(models.Row{models.StringCell("東京")})
	table.AppendRow(models.Row{models.StringCell("NY")})

	lines := strings.Split(strings.TrimRight(RenderMarkdown(table), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d", len(lines))
	}

	// 東京 displays as 4 columns wide; every row pads to the same width.
	if lines[2] != "| 東京 |" {
		t.Errorf("Wide-rune row = %q", lines[2])
	}

	if lines[3] != "| NY   |" {
		t.Errorf("Padded row = %q, want 4-wide padding", lines[3])
	}
}

func TestRenderMarkdown_EscapesPipes(t *testing.T) {
	table := models.NewTable([]models.Column{{Name: "v", Type: models.TypeString}})
	table.AppendRow(models.Row{models.StringCell("a|b")})

	got := RenderMarkdown(table)
	if !strings.Contains(got, `a\|b`) {
		t.Errorf("Pipe not escaped:\n%s", got)
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	if got := RenderMarkdown(models.NewTable(nil)); got != "" {
		t.Errorf("RenderMarkdown(empty) = %q, want empty", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(sampleTable(), &buf); err != nil {
		t.Fatalf("WriteCSV returned unexpected error: %v", err)
	}

	want := "NAME,pop\nAlabama,4903185\nAlaska,\n"
	if buf.String() != want {
		t.Errorf("WriteCSV = %q, want %q", buf.String(), want)
	}
}

func TestRenderConsole(t *testing.T) {
	var buf bytes.Buffer
	RenderConsole(sampleTable(), &buf)

	out := buf.String()
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "Alabama") {
		t.Errorf("Console output missing content:\n%s", out)
	}
}
