package format

import (
	"testing"

	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/selection"
)

func setup(t *testing.T, content string, start, end int) (*doctree.Document, *Executor, selection.Selection) {
	t.Helper()
	doc, err := doctree.New("Title", content)
	if err != nil {
		t.Fatalf("doctree.New: %v", err)
	}
	sel, err := selection.FromOffsets(doc.Content, start, end)
	if err != nil {
		t.Fatalf("FromOffsets: %v", err)
	}
	return doc, NewExecutor(doc), sel
}

func classify(t *testing.T, sel selection.Selection) selection.NodeNameSet {
	t.Helper()
	names, err := selection.Classify(sel.Anchor())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	return names
}

func TestToggleBold(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   int
		end     int
		want    string
	}{
		{"wrap", "<p>Hello world</p>", 6, 11, "<p>Hello <b>world</b></p>"},
		{"unwrap", "<p>Hello <b>world</b></p>", 6, 11, "<p>Hello world</p>"},
		{"unwrap part", "<p><b>Hello world</b></p>", 0, 5, "<p>Hello<b> world</b></p>"},
		{"mixed becomes bold", "<p>ab<b>cd</b>ef</p>", 0, 6, "<p><b>abcdef</b></p>"},
		{"inside italic", "<p><i>slanted</i></p>", 0, 7, "<p><i><b>slanted</b></i></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ex, sel := setup(t, tt.content, tt.start, tt.end)
			before := doctree.TextContent(doc.Content)

			next, err := ex.ToggleBold(sel)
			if err != nil {
				t.Fatalf("ToggleBold: %v", err)
			}
			if got := doc.Markup(doctree.FieldContent); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if after := doctree.TextContent(doc.Content); after != before {
				t.Errorf("text changed: %q -> %q", before, after)
			}
			start, end, err := selection.Offsets(doc.Content, next)
			if err != nil || start != tt.start || end != tt.end {
				t.Errorf("expected range (%d, %d), got (%d, %d) err %v", tt.start, tt.end, start, end, err)
			}
		})
	}
}

func TestToggleBold_Twice(t *testing.T) {
	doc, ex, sel := setup(t, "<p>one two three</p>", 4, 7)
	sel, err := ex.ToggleBold(sel)
	if err != nil {
		t.Fatal(err)
	}
	if !classify(t, sel).Bold() {
		t.Error("expected selection to classify as bold")
	}
	if _, err := ex.ToggleBold(sel); err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != "<p>one two three</p>" {
		t.Errorf("expected original markup, got %q", got)
	}
}

func TestToggleItalic(t *testing.T) {
	doc, ex, sel := setup(t, "<p><b>bold</b> text</p>", 0, 4)
	if _, err := ex.ToggleItalic(sel); err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != "<p><b><i>bold</i></b> text</p>" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestCollapsedIsNoop(t *testing.T) {
	doc, ex, sel := setup(t, "<p>Hello</p>", 2, 2)
	for _, cmd := range []func(selection.Selection) (selection.Selection, error){ex.ToggleBold, ex.ToggleItalic, ex.Unlink} {
		if _, err := cmd(sel); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ex.CreateLink(sel, "/"); err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != "<p>Hello</p>" {
		t.Errorf("expected unchanged markup, got %q", got)
	}
}

func TestToggleQuote(t *testing.T) {
	doc, ex, sel := setup(t, "<p>Hello</p>", 2, 2)

	sel, err := ex.ToggleQuote(sel, classify(t, sel))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != "<blockquote>Hello</blockquote>" {
		t.Errorf("expected blockquote, got %q", got)
	}
	names := classify(t, sel)
	if !names.Quote() {
		t.Fatal("expected selection inside the quote")
	}

	if _, err := ex.ToggleQuote(sel, names); err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != "<p>Hello</p>" {
		t.Errorf("expected paragraph, got %q", got)
	}
}

func TestToggleQuote_BareText(t *testing.T) {
	doc, ex, sel := setup(t, "Hello <b>there</b>", 0, 0)
	if _, err := ex.ToggleQuote(sel, classify(t, sel)); err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != "<blockquote>Hello <b>there</b></blockquote>" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestToggleQuote_Outdent(t *testing.T) {
	doc, ex, sel := setup(t, "<blockquote><p>one</p><p>two</p></blockquote>", 4, 4)
	if _, err := ex.ToggleQuote(sel, classify(t, sel)); err != nil {
		t.Fatal(err)
	}
	want := "<blockquote><p>one</p></blockquote><p>two</p>"
	if got := doc.Markup(doctree.FieldContent); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLinks(t *testing.T) {
	doc, ex, sel := setup(t, "<p>Hello world</p>", 6, 11)

	sel, err := ex.CreateLink(sel, "/")
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != `<p>Hello <a href="/">world</a></p>` {
		t.Errorf("unexpected markup %q", got)
	}
	if names := classify(t, sel); !names.Link() || names.URL != "/" {
		t.Errorf("expected link to /, got %v %q", names.Names(), names.URL)
	}

	sel, err = ex.ApplyLink(sel, "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != `<p>Hello <a href="http://example.com">world</a></p>` {
		t.Errorf("unexpected markup %q", got)
	}

	if _, err := ex.ApplyLink(sel, ""); err != nil {
		t.Fatal(err)
	}
	if got := doc.Markup(doctree.FieldContent); got != "<p>Hello world</p>" {
		t.Errorf("expected link removed, got %q", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"example.com", "http://example.com"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"ftp://example.com", "http://ftp://example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
