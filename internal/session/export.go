package session

import (
	"github.com/dgallion1/notepen/internal/bubble"
	"github.com/dgallion1/notepen/internal/convert"
	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/selection"
	"github.com/dgallion1/notepen/internal/wordcount"
)

// Export is a rendered document ready to download.
type Export struct {
	Filename string         `json:"filename"`
	Format   convert.Format `json:"format"`
	Text     string         `json:"text"`
}

// Export renders the document in the named format. An empty name raises the
// export error indicator and converts nothing.
func (s *Session) Export(formatName string) (Export, error) {
	f, err := convert.ParseFormat(formatName)
	if err != nil {
		s.exportError = true
		return Export{}, err
	}
	s.exportError = false

	header := convert.ExportHeader(s.doc.Markup(doctree.FieldHeader))
	text, err := convert.Convert(f, header, s.doc.Markup(doctree.FieldContent))
	if err != nil {
		return Export{}, err
	}
	return Export{Filename: s.basename + ".txt", Format: f, Text: text}, nil
}

// Selected reports the current selection as rune offsets into its field.
type Selected struct {
	Field     doctree.Field `json:"field"`
	Start     int           `json:"start"`
	End       int           `json:"end"`
	Collapsed bool          `json:"collapsed"`
}

// View is a snapshot of everything a client renders.
type View struct {
	Bubble      bubble.View        `json:"bubble"`
	Header      string             `json:"header"`
	Content     string             `json:"content"`
	Selection   *Selected          `json:"selection,omitempty"`
	Progress    wordcount.Progress `json:"progress"`
	DarkLayout  bool               `json:"dark_layout"`
	Composing   bool               `json:"composing"`
	ExportError bool               `json:"export_error"`
	URLInput    string             `json:"url_input"`
	Focused     Target             `json:"focused"`
	Storage     bool               `json:"storage"`
}

func (s *Session) View() View {
	v := View{
		Bubble:      s.bubble.View(),
		Header:      s.doc.Markup(doctree.FieldHeader),
		Content:     s.doc.Markup(doctree.FieldContent),
		Progress:    s.tracker.Progress(),
		DarkLayout:  s.darkLayout,
		Composing:   s.composing,
		ExportError: s.exportError,
		URLInput:    s.urlInput,
		Focused:     s.platform.Focused(),
		Storage:     s.storageOK,
	}
	if sel := s.platform.Selection(); !sel.IsZero() {
		if sd, ok := s.selected(sel); ok {
			v.Selection = &sd
		}
	}
	return v
}

func (s *Session) selected(sel selection.Selection) (Selected, bool) {
	field, err := s.doc.FieldOf(sel.Anchor())
	if err != nil {
		return Selected{}, false
	}
	start, end, err := selection.Offsets(field, sel)
	if err != nil {
		return Selected{}, false
	}
	name := doctree.FieldContent
	if field == s.doc.Header {
		name = doctree.FieldHeader
	}
	return Selected{Field: name, Start: start, End: end, Collapsed: sel.Collapsed()}, true
}
