package doctree

import (
	"errors"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestNewParsesFields(t *testing.T) {
	doc, err := New("<h1>Title</h1>", "<p>Hello <b>world</b></p>")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := doc.Markup(FieldHeader); got != "<h1>Title</h1>" {
		t.Errorf("expected header markup %q, got %q", "<h1>Title</h1>", got)
	}
	if got := doc.Markup(FieldContent); got != "<p>Hello <b>world</b></p>" {
		t.Errorf("expected content markup, got %q", got)
	}
	if doc.Root.Parent != nil {
		t.Error("root should have no parent")
	}
	if doc.Content.Parent != doc.Root || doc.Header.Parent != doc.Root {
		t.Error("fields should hang off the root")
	}
}

func TestFieldOf(t *testing.T) {
	doc, _ := New("Title", "<p>one <i>two</i></p>")
	texts := TextNodes(doc.Content)
	field, err := doc.FieldOf(texts[1])
	if err != nil {
		t.Fatalf("FieldOf: %v", err)
	}
	if field != doc.Content {
		t.Error("expected content field")
	}

	field, err = doc.FieldOf(TextNodes(doc.Header)[0])
	if err != nil || field != doc.Header {
		t.Errorf("expected header field, got %v (err %v)", field, err)
	}

	if _, err := doc.FieldOf(&html.Node{Type: html.TextNode, Data: "loose"}); !errors.Is(err, ErrNotInDocument) {
		t.Errorf("expected ErrNotInDocument, got %v", err)
	}
}

func TestAncestorsSkipsRoot(t *testing.T) {
	doc, _ := New("", "<blockquote><b>x</b></blockquote>")
	var names []string
	err := Ancestors(TextNodes(doc.Content)[0], func(n *html.Node) bool {
		names = append(names, NodeName(n))
		return true
	})
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	want := []string{"#text", "B", "BLOCKQUOTE", "ARTICLE"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestAncestorsDepthBound(t *testing.T) {
	root := NewElement(atom.Body)
	cur := root
	for i := 0; i < MaxDepth+10; i++ {
		child := NewElement(atom.Span)
		cur.AppendChild(child)
		cur = child
	}
	err := Ancestors(cur, func(*html.Node) bool { return true })
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestVisibleText(t *testing.T) {
	doc, _ := New("", "  <p>Hello <!-- hidden --><b>world</b></p>  ")
	if got := VisibleText(doc.Content); got != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", got)
	}
}

func TestBlockText(t *testing.T) {
	doc, _ := New("", "<p>one</p><p>two<br>three</p>")
	if got := BlockText(doc.Content); got != "\none\ntwo\nthree" {
		t.Errorf("expected %q, got %q", "\none\ntwo\nthree", got)
	}
}

func TestLocateAndOffsetOf(t *testing.T) {
	doc, _ := New("", "<p>Hé <b>wörld</b></p>")

	tests := []struct {
		offset     int
		preferNext bool
		wantText   string
		wantByte   int
	}{
		{0, false, "Hé ", 0},
		{2, false, "Hé ", 3},
		{3, false, "Hé ", 4},
		{3, true, "wörld", 0},
		{8, false, "wörld", 6},
		{8, true, "wörld", 6},
	}
	for _, tt := range tests {
		pos, err := Locate(doc.Content, tt.offset, tt.preferNext)
		if err != nil {
			t.Fatalf("Locate(%d): %v", tt.offset, err)
		}
		if pos.Node.Data != tt.wantText || pos.Offset != tt.wantByte {
			t.Errorf("Locate(%d, %v): expected (%q, %d), got (%q, %d)",
				tt.offset, tt.preferNext, tt.wantText, tt.wantByte, pos.Node.Data, pos.Offset)
		}
		back, err := OffsetOf(doc.Content, pos)
		if err != nil {
			t.Fatalf("OffsetOf: %v", err)
		}
		if back != tt.offset {
			t.Errorf("round trip: expected %d, got %d", tt.offset, back)
		}
	}

	if _, err := Locate(doc.Content, 9, false); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestLocateEmptyField(t *testing.T) {
	doc, _ := New("", "")
	pos, err := Locate(doc.Content, 0, false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if pos.Node != doc.Content {
		t.Error("expected caret on the field element")
	}
}

func TestClosestAndEnclosingBlock(t *testing.T) {
	doc, _ := New("", "<blockquote><p><b><i>x</i></b></p></blockquote>")
	text := TextNodes(doc.Content)[0]
	if b := Closest(text, doc.Content, atom.B); b == nil || b.Data != "b" {
		t.Errorf("expected <b>, got %v", b)
	}
	if a := Closest(text, doc.Content, atom.A); a != nil {
		t.Errorf("expected no anchor, got %v", a)
	}
	if blk := EnclosingBlock(text, doc.Content); blk == nil || blk.DataAtom != atom.P {
		t.Errorf("expected <p>, got %v", blk)
	}
}

func TestSetAttr(t *testing.T) {
	a := NewElement(atom.A)
	SetAttr(a, "href", "/")
	SetAttr(a, "href", "http://example.com")
	if len(a.Attr) != 1 || Attr(a, "href") != "http://example.com" {
		t.Errorf("expected a single updated href, got %v", a.Attr)
	}
}
