package doctree

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxDepth bounds every ancestor walk. Editor markup never nests anywhere
// near this deep, so reaching it means the parent chain is broken.
const MaxDepth = 512

var (
	ErrDepthExceeded = errors.New("ancestor chain exceeds max depth")
	ErrUnknownField  = errors.New("unknown field")
	ErrNotInDocument = errors.New("node is not inside an editable field")
)

// Field names one of the two editable regions of a document.
type Field string

const (
	FieldHeader  Field = "header"
	FieldContent Field = "content"
)

// Document is the live editor surface: a parentless root holding the header
// field and the content field. There is no separate model; every query walks
// this tree as it is right now.
type Document struct {
	Root    *html.Node // synthetic <body>, the only node without a parent
	Header  *html.Node // <header class="header">
	Content *html.Node // <article class="content">
}

// New builds a document from the header and content markup.
func New(headerMarkup, contentMarkup string) (*Document, error) {
	root := NewElement(atom.Body)
	header := NewElement(atom.Header, html.Attribute{Key: "class", Val: "header"})
	content := NewElement(atom.Article, html.Attribute{Key: "class", Val: "content"})
	root.AppendChild(header)
	root.AppendChild(content)

	doc := &Document{Root: root, Header: header, Content: content}
	if err := doc.SetMarkup(FieldHeader, headerMarkup); err != nil {
		return nil, err
	}
	if err := doc.SetMarkup(FieldContent, contentMarkup); err != nil {
		return nil, err
	}
	return doc, nil
}

// Field returns the element backing a field.
func (d *Document) Field(f Field) (*html.Node, error) {
	switch f {
	case FieldHeader:
		return d.Header, nil
	case FieldContent, "":
		return d.Content, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// SetMarkup replaces a field's children with the parsed markup.
func (d *Document) SetMarkup(f Field, markup string) error {
	el, err := d.Field(f)
	if err != nil {
		return err
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), el)
	if err != nil {
		return fmt.Errorf("parse %s markup: %w", f, err)
	}
	for c := el.FirstChild; c != nil; {
		next := c.NextSibling
		el.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		el.AppendChild(n)
	}
	return nil
}

// Markup renders a field's inner HTML.
func (d *Document) Markup(f Field) string {
	el, err := d.Field(f)
	if err != nil {
		return ""
	}
	return InnerHTML(el)
}

// FieldOf returns the field element that contains n (n may be the field itself).
func (d *Document) FieldOf(n *html.Node) (*html.Node, error) {
	var field *html.Node
	err := Ancestors(n, func(a *html.Node) bool {
		if a == d.Header || a == d.Content {
			field = a
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, ErrNotInDocument
	}
	return field, nil
}

// Ancestors calls visit for n and then for each ancestor, stopping before the
// first node that has no parent (the root is never visited) or when visit
// returns false. The walk is bounded by MaxDepth.
func Ancestors(n *html.Node, visit func(*html.Node) bool) error {
	for depth := 0; n != nil && n.Parent != nil; n = n.Parent {
		if depth >= MaxDepth {
			return fmt.Errorf("%w (%d)", ErrDepthExceeded, MaxDepth)
		}
		depth++
		if !visit(n) {
			return nil
		}
	}
	return nil
}

// Closest returns the nearest strict ancestor of n matching a, without
// climbing past stop.
func Closest(n, stop *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	if n == nil {
		return nil
	}
	_ = Ancestors(n.Parent, func(p *html.Node) bool {
		if p == stop {
			return false
		}
		if p.Type == html.ElementNode && p.DataAtom == a {
			found = p
			return false
		}
		return true
	})
	return found
}

// EnclosingBlock returns the nearest block-level ancestor of n below stop.
func EnclosingBlock(n, stop *html.Node) *html.Node {
	var found *html.Node
	_ = Ancestors(n, func(p *html.Node) bool {
		if p == stop {
			return false
		}
		if IsBlock(p) {
			found = p
			return false
		}
		return true
	})
	return found
}

// NodeName reports a node's name the way the DOM's nodeName does.
func NodeName(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		return strings.ToUpper(n.Data)
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DocumentNode:
		return "#document"
	}
	return ""
}

var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Blockquote: true, atom.Div: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.Header: true, atom.Article: true, atom.Section: true,
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && blockAtoms[n.DataAtom]
}

// NewElement returns a detached element for a.
func NewElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

// Attr returns the value of an attribute, or "" when absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return b.String()
		}
	}
	return b.String()
}

// ParseFragment parses markup as the children of a <div>.
func ParseFragment(markup string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(markup), NewElement(atom.Div))
}
