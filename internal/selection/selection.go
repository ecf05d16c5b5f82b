package selection

import (
	"errors"

	"github.com/dgallion1/notepen/internal/doctree"
	"golang.org/x/net/html"
)

var ErrNothingSaved = errors.New("no saved selection")

// Selection is a range in the live tree. Start doubles as the anchor that
// classification walks up from.
type Selection struct {
	Start doctree.Position
	End   doctree.Position
}

// Caret returns a collapsed selection at p.
func Caret(p doctree.Position) Selection {
	return Selection{Start: p, End: p}
}

func (s Selection) IsZero() bool { return s.Start.Node == nil }

func (s Selection) Collapsed() bool { return s.Start == s.End }

// Anchor is the node the selection starts in.
func (s Selection) Anchor() *html.Node { return s.Start.Node }

// FromOffsets builds a selection from rune offsets into field's text. The
// start of a non-empty range leans onto the following node so a selection
// of formatted text anchors inside the formatting.
func FromOffsets(field *html.Node, start, end int) (Selection, error) {
	if start > end {
		start, end = end, start
	}
	if start == end {
		p, err := doctree.Locate(field, start, false)
		if err != nil {
			return Selection{}, err
		}
		return Caret(p), nil
	}
	sp, err := doctree.Locate(field, start, true)
	if err != nil {
		return Selection{}, err
	}
	ep, err := doctree.Locate(field, end, false)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Start: sp, End: ep}, nil
}

// Offsets maps a selection back to rune offsets into field's text.
func Offsets(field *html.Node, s Selection) (start, end int, err error) {
	start, err = doctree.OffsetOf(field, s.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = doctree.OffsetOf(field, s.End)
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		start, end = end, start
	}
	return start, end, nil
}

// Saved is the single slot holding the selection to restore after focus
// leaves the document. It keeps offsets rather than node pointers, since the
// tree is renormalized between save and restore.
type Saved struct {
	field      *html.Node
	start, end int
	ok         bool
}

// Save overwrites the slot.
func (s *Saved) Save(field *html.Node, sel Selection) error {
	start, end, err := Offsets(field, sel)
	if err != nil {
		return err
	}
	s.field, s.start, s.end, s.ok = field, start, end, true
	return nil
}

// Restore rebuilds the saved selection against the current tree.
func (s *Saved) Restore() (Selection, error) {
	if !s.ok {
		return Selection{}, ErrNothingSaved
	}
	return FromOffsets(s.field, s.start, s.end)
}

func (s *Saved) Clear() { *s = Saved{} }

func (s *Saved) Ok() bool { return s.ok }
