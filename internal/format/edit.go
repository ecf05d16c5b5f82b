package format

import (
	"unicode/utf8"

	"github.com/dgallion1/notepen/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Low-level tree edits. None of them change the concatenated text of the
// field they operate in.

// overlapping returns the text nodes under field that intersect the rune
// range [start, end).
func overlapping(field *html.Node, start, end int) []*html.Node {
	var out []*html.Node
	pos := 0
	for _, t := range doctree.TextNodes(field) {
		n := utf8.RuneCountInString(t.Data)
		lo, hi := pos, pos+n
		pos = hi
		if n == 0 || hi <= start || lo >= end {
			continue
		}
		out = append(out, t)
	}
	return out
}

// splitRange splits the text nodes at the range boundaries and returns the
// nodes lying wholly inside [start, end), in document order.
func splitRange(field *html.Node, start, end int) []*html.Node {
	var out []*html.Node
	pos := 0
	for _, t := range doctree.TextNodes(field) {
		n := utf8.RuneCountInString(t.Data)
		lo, hi := pos, pos+n
		pos = hi
		if n == 0 || hi <= start || lo >= end {
			continue
		}
		seg := t
		if start > lo {
			seg = splitText(seg, start-lo)
			lo = start
		}
		if end < hi {
			splitText(seg, end-lo)
		}
		out = append(out, seg)
	}
	return out
}

// splitText cuts t at a rune offset. t keeps the left part; the new right
// part is inserted after it and returned.
func splitText(t *html.Node, runes int) *html.Node {
	b := doctree.ByteIndex(t.Data, runes)
	right := &html.Node{Type: html.TextNode, Data: t.Data[b:]}
	t.Data = t.Data[:b]
	t.Parent.InsertBefore(right, t.NextSibling)
	return right
}

// isolate splits every element from n's parent up to anc so that the path
// to n carries nothing else. Siblings move into shallow clones placed before
// and after, keeping their formatting.
func isolate(anc, n *html.Node) {
	child := n
	for p := n.Parent; p != nil && p.Parent != nil; p = p.Parent {
		splitAround(p, child)
		if p == anc {
			return
		}
		child = p
	}
}

func splitAround(p, child *html.Node) {
	if child.PrevSibling != nil {
		before := shallowClone(p)
		for c := p.FirstChild; c != child; {
			next := c.NextSibling
			p.RemoveChild(c)
			before.AppendChild(c)
			c = next
		}
		p.Parent.InsertBefore(before, p)
	}
	if child.NextSibling != nil {
		after := shallowClone(p)
		for c := child.NextSibling; c != nil; {
			next := c.NextSibling
			p.RemoveChild(c)
			after.AppendChild(c)
			c = next
		}
		p.Parent.InsertBefore(after, p.NextSibling)
	}
}

func shallowClone(n *html.Node) *html.Node {
	return &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
}

// unwrap replaces el with its children.
func unwrap(el *html.Node) {
	parent := el.Parent
	for c := el.FirstChild; c != nil; {
		next := c.NextSibling
		el.RemoveChild(c)
		parent.InsertBefore(c, el)
		c = next
	}
	parent.RemoveChild(el)
}

// wrap puts n inside el, in n's place.
func wrap(n, el *html.Node) {
	n.Parent.InsertBefore(el, n)
	n.Parent.RemoveChild(n)
	el.AppendChild(n)
}

func rename(el *html.Node, a atom.Atom) {
	el.DataAtom = a
	el.Data = a.String()
}

// wrapRun wraps the maximal run of inline siblings around the top-level
// child of field that contains n.
func wrapRun(field, n *html.Node, a atom.Atom) *html.Node {
	top := n
	for top.Parent != field {
		top = top.Parent
	}
	first, last := top, top
	for first.PrevSibling != nil && !doctree.IsBlock(first.PrevSibling) {
		first = first.PrevSibling
	}
	for last.NextSibling != nil && !doctree.IsBlock(last.NextSibling) {
		last = last.NextSibling
	}
	el := doctree.NewElement(a)
	field.InsertBefore(el, first)
	for c := first; ; {
		next := c.NextSibling
		field.RemoveChild(c)
		el.AppendChild(c)
		if c == last {
			break
		}
		c = next
	}
	return el
}

var inlineAtoms = map[atom.Atom]bool{
	atom.B: true, atom.I: true, atom.A: true,
	atom.Strong: true, atom.Em: true, atom.U: true, atom.Span: true,
}

func mergeable(a, b *html.Node) bool {
	if a.Type != html.ElementNode || b.Type != html.ElementNode {
		return false
	}
	if a.DataAtom != b.DataAtom || a.Data != b.Data || !inlineAtoms[a.DataAtom] {
		return false
	}
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for i := range a.Attr {
		if a.Attr[i] != b.Attr[i] {
			return false
		}
	}
	return true
}

// normalize merges adjacent text nodes and adjacent identical inline
// elements, and drops empty text and empty inline elements.
func normalize(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.TextNode && c.Data == "":
			n.RemoveChild(c)
		case c.Type == html.ElementNode:
			normalize(c)
			if inlineAtoms[c.DataAtom] && c.FirstChild == nil {
				n.RemoveChild(c)
			}
		}
		c = next
	}

	for c := n.FirstChild; c != nil && c.NextSibling != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.TextNode && next.Type == html.TextNode:
			c.Data += next.Data
			n.RemoveChild(next)
			continue
		case mergeable(c, next):
			for gc := next.FirstChild; gc != nil; {
				g := gc.NextSibling
				next.RemoveChild(gc)
				c.AppendChild(gc)
				gc = g
			}
			n.RemoveChild(next)
			normalize(c)
			continue
		}
		c = next
	}
}
