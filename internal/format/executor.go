package format

import (
	"fmt"
	"strings"

	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/selection"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Executor runs formatting commands against one document. Every command
// leaves the field's text unchanged and returns the same range, re-anchored
// in the edited tree.
type Executor struct {
	doc *doctree.Document
}

func NewExecutor(doc *doctree.Document) *Executor {
	return &Executor{doc: doc}
}

// ToggleBold removes bold when every selected character is already bold and
// applies it otherwise.
func (e *Executor) ToggleBold(sel selection.Selection) (selection.Selection, error) {
	return e.toggleInline(sel, atom.B)
}

// ToggleItalic is ToggleBold for italics.
func (e *Executor) ToggleItalic(sel selection.Selection) (selection.Selection, error) {
	return e.toggleInline(sel, atom.I)
}

func (e *Executor) toggleInline(sel selection.Selection, tag atom.Atom) (selection.Selection, error) {
	return e.editRange(sel, func(field *html.Node, texts []*html.Node) {
		all := true
		for _, t := range texts {
			if doctree.Closest(t, field, tag) == nil {
				all = false
				break
			}
		}
		for _, t := range texts {
			anc := doctree.Closest(t, field, tag)
			switch {
			case all:
				isolate(anc, t)
				unwrap(anc)
			case anc == nil:
				wrap(t, doctree.NewElement(tag))
			}
		}
	})
}

// ToggleQuote turns the blocks touched by sel into quotes, or, when names
// says the selection is already quoted, back into paragraphs and out of any
// enclosing quote. Unlike the inline commands it also acts on a caret.
func (e *Executor) ToggleQuote(sel selection.Selection, names selection.NodeNameSet) (selection.Selection, error) {
	field, start, end, err := e.resolve(sel)
	if err != nil {
		return sel, err
	}

	var nodes []*html.Node
	if start == end {
		p, err := doctree.Locate(field, start, false)
		if err != nil {
			return sel, err
		}
		nodes = []*html.Node{p.Node}
	} else {
		nodes = overlapping(field, start, end)
	}

	for _, n := range nodes {
		if n == field {
			continue
		}
		blk := doctree.EnclosingBlock(n, field)
		if names.Quote() {
			if blk == nil {
				continue
			}
			if blk.DataAtom != atom.P {
				rename(blk, atom.P)
			}
			if bq := doctree.Closest(blk, field, atom.Blockquote); bq != nil {
				isolate(bq, blk)
				unwrap(bq)
			}
			continue
		}
		if blk == nil {
			wrapRun(field, n, atom.Blockquote)
			continue
		}
		rename(blk, atom.Blockquote)
	}

	normalize(field)
	return selection.FromOffsets(field, start, end)
}

// Unlink removes every anchor touching the selection.
func (e *Executor) Unlink(sel selection.Selection) (selection.Selection, error) {
	return e.editRange(sel, func(field *html.Node, texts []*html.Node) {
		for _, t := range texts {
			if a := doctree.Closest(t, field, atom.A); a != nil {
				unwrap(a)
			}
		}
	})
}

// CreateLink points the selection at href, reusing anchors already present.
func (e *Executor) CreateLink(sel selection.Selection, href string) (selection.Selection, error) {
	return e.editRange(sel, func(field *html.Node, texts []*html.Node) {
		for _, t := range texts {
			if a := doctree.Closest(t, field, atom.A); a != nil {
				doctree.SetAttr(a, "href", href)
				continue
			}
			wrap(t, doctree.NewElement(atom.A, html.Attribute{Key: "href", Val: href}))
		}
	})
}

// ApplyLink replaces any links in sel with one to url. An empty url only
// unlinks.
func (e *Executor) ApplyLink(sel selection.Selection, url string) (selection.Selection, error) {
	sel, err := e.Unlink(sel)
	if err != nil || url == "" {
		return sel, err
	}
	return e.CreateLink(sel, NormalizeURL(url))
}

// NormalizeURL adds an http:// scheme unless url already has http or https.
func NormalizeURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "http://" + url
}

// editRange splits the selection out into its own text nodes, hands them to
// fn, normalizes the field and re-anchors the range. A collapsed selection
// is left alone.
func (e *Executor) editRange(sel selection.Selection, fn func(field *html.Node, texts []*html.Node)) (selection.Selection, error) {
	if sel.IsZero() || sel.Collapsed() {
		return sel, nil
	}
	field, start, end, err := e.resolve(sel)
	if err != nil {
		return sel, err
	}
	if start == end {
		return sel, nil
	}
	fn(field, splitRange(field, start, end))
	normalize(field)
	return selection.FromOffsets(field, start, end)
}

func (e *Executor) resolve(sel selection.Selection) (*html.Node, int, int, error) {
	if sel.IsZero() {
		return nil, 0, 0, fmt.Errorf("format: empty selection")
	}
	field, err := e.doc.FieldOf(sel.Anchor())
	if err != nil {
		return nil, 0, 0, fmt.Errorf("format: %w", err)
	}
	start, end, err := selection.Offsets(field, sel)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("format: %w", err)
	}
	return field, start, end, nil
}
