package session

import (
	"unicode/utf8"

	"github.com/dgallion1/notepen/internal/bubble"
	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/selection"
	"golang.org/x/net/html"
)

// Target names what holds focus, or where an event came from.
type Target string

const (
	TargetDocument Target = "document"
	TargetHeader   Target = "header"
	TargetURLInput Target = "url-input"
	TargetToolbar  Target = "toolbar"
)

// Platform is the host the editor runs in: it owns the live selection, the
// geometry and focus.
type Platform interface {
	Selection() selection.Selection
	SetSelection(selection.Selection)
	BoundingRect(selection.Selection) bubble.Rect
	ScrollY() float64
	SetScrollY(float64)
	Focus(Target)
	Focused() Target
}

// Headless lays text out on a fixed-pitch grid: every rune is CharWidth
// wide and every block starts a new line LineHeight tall.
type Headless struct {
	doc        *doctree.Document
	sel        selection.Selection
	scrollY    float64
	focused    Target
	CharWidth  float64
	LineHeight float64
}

func NewHeadless(doc *doctree.Document) *Headless {
	return &Headless{
		doc:        doc,
		focused:    TargetDocument,
		CharWidth:  8,
		LineHeight: 24,
	}
}

func (h *Headless) Selection() selection.Selection { return h.sel }
func (h *Headless) SetSelection(s selection.Selection) { h.sel = s }
func (h *Headless) ScrollY() float64 { return h.scrollY }
func (h *Headless) SetScrollY(y float64) { h.scrollY = y }
func (h *Headless) Focus(t Target) { h.focused = t }
func (h *Headless) Focused() Target { return h.focused }

// BoundingRect returns the viewport box covering the selection.
func (h *Headless) BoundingRect(s selection.Selection) bubble.Rect {
	if s.IsZero() {
		return bubble.Rect{}
	}
	l := h.layout()
	sl, sc := l.place(s.Start)
	el, ec := l.place(s.End)

	r := bubble.Rect{
		Top:    float64(sl)*h.LineHeight - h.scrollY,
		Bottom: float64(el+1)*h.LineHeight - h.scrollY,
	}
	if sl == el {
		r.Left = float64(sc) * h.CharWidth
		r.Right = float64(ec) * h.CharWidth
	} else {
		r.Left = 0
		r.Right = float64(l.widest) * h.CharWidth
	}
	return r
}

type lineLayout struct {
	starts map[*html.Node][2]int // text node -> line, column of its first rune
	blocks map[*html.Node]int    // block element -> line
	widest int
}

func (l lineLayout) place(p doctree.Position) (line, col int) {
	if at, ok := l.starts[p.Node]; ok {
		return at[0], at[1] + utf8.RuneCountInString(p.Node.Data[:p.Offset])
	}
	if line, ok := l.blocks[p.Node]; ok {
		return line, 0
	}
	return 0, 0
}

func (h *Headless) layout() lineLayout {
	l := lineLayout{starts: make(map[*html.Node][2]int), blocks: make(map[*html.Node]int)}
	line, col := -1, 0
	newLine := func() {
		line++
		col = 0
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			if line < 0 {
				newLine()
			}
			l.starts[n] = [2]int{line, col}
			col += utf8.RuneCountInString(n.Data)
			l.widest = max(l.widest, col)
			return
		case n.Type == html.ElementNode && n.Data == "br":
			newLine()
			return
		case doctree.IsBlock(n):
			newLine()
			l.blocks[n] = line
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(h.doc.Root)
	return l
}
