package doctree

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrOffsetOutOfRange = errors.New("offset out of range")

// Position is a point inside the tree: a text node and a byte offset into
// its data. A caret in an empty field sits on the field element at offset 0.
type Position struct {
	Node   *html.Node
	Offset int
}

// TextContent concatenates the data of all text nodes under n depth-first,
// skipping comments.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// VisibleText is TextContent with surrounding whitespace trimmed.
func VisibleText(n *html.Node) string {
	return strings.TrimSpace(TextContent(n))
}

// BlockText is TextContent with a newline emitted before every block
// element and for every <br>.
func BlockText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				b.WriteByte('\n')
				return
			}
			if IsBlock(n) {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return b.String()
}

// TextNodes returns the text nodes under n in document order.
func TextNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// TextLen is the number of runes of text under field.
func TextLen(field *html.Node) int {
	return utf8.RuneCountInString(TextContent(field))
}

// Locate maps a rune offset into field's text to a Position. At a boundary
// between two text nodes preferNext picks the start of the later node,
// otherwise the end of the earlier one.
func Locate(field *html.Node, offset int, preferNext bool) (Position, error) {
	if offset < 0 {
		return Position{}, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
	}
	texts := TextNodes(field)
	if len(texts) == 0 {
		if offset == 0 {
			return Position{Node: field}, nil
		}
		return Position{}, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
	}
	remaining := offset
	for i, t := range texts {
		n := utf8.RuneCountInString(t.Data)
		last := i == len(texts)-1
		if remaining < n || (remaining == n && (!preferNext || last)) {
			return Position{Node: t, Offset: ByteIndex(t.Data, remaining)}, nil
		}
		remaining -= n
	}
	return Position{}, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
}

// OffsetOf maps a Position back to a rune offset into field's text.
func OffsetOf(field *html.Node, pos Position) (int, error) {
	if pos.Node == field {
		return 0, nil
	}
	total := 0
	for _, t := range TextNodes(field) {
		if t == pos.Node {
			if pos.Offset < 0 || pos.Offset > len(t.Data) {
				return 0, fmt.Errorf("%w: byte %d", ErrOffsetOutOfRange, pos.Offset)
			}
			return total + utf8.RuneCountInString(t.Data[:pos.Offset]), nil
		}
		total += utf8.RuneCountInString(t.Data)
	}
	return 0, ErrNotInDocument
}

// ByteIndex converts a rune offset within s to a byte offset.
func ByteIndex(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	i := 0
	for pos := range s {
		if i == runes {
			return pos
		}
		i++
	}
	return len(s)
}
