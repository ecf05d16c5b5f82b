package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_RowsBecomeParagraphs(t *testing.T) {
	input := "name,mood\nMonday,tired\nTuesday, <fine>\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "moods.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "moods" {
		t.Errorf("expected title %q, got %q", "moods", doc.Title)
	}
	if doc.Paragraphs != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", doc.Paragraphs)
	}
	want := "<p><b>name</b>: Monday<br><b>mood</b>: tired</p>" +
		"<p><b>name</b>: Tuesday<br><b>mood</b>: &lt;fine&gt;</p>"
	if doc.Body != want {
		t.Errorf("expected body %q, got %q", want, doc.Body)
	}
}

func TestCSVParser_RaggedAndBlankRows(t *testing.T) {
	input := "a,b\n1,2,3\n,\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "ragged.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<p><b>a</b>: 1<br><b>b</b>: 2<br>3</p>"
	if doc.Body != want {
		t.Errorf("expected body %q, got %q", want, doc.Body)
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader("a,b\n"), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Paragraphs != 0 || doc.Body != "" {
		t.Errorf("expected empty body, got %q", doc.Body)
	}
}
