package selection

import (
	"fmt"
	"sort"

	"github.com/dgallion1/notepen/internal/doctree"
	"golang.org/x/net/html"
)

// Node names the toolbar cares about.
const (
	NameBold     = "B"
	NameItalic   = "I"
	NameQuote    = "BLOCKQUOTE"
	NameLink     = "A"
	NameDocument = "ARTICLE"
	NameHeader   = "HEADER"
)

// NodeNameSet is the set of node names found on the walk from a selection's
// anchor to the root, plus the href of the nearest enclosing link.
type NodeNameSet struct {
	names map[string]bool
	URL   string
}

func (s NodeNameSet) Has(name string) bool { return s.names[name] }

func (s NodeNameSet) Bold() bool { return s.names[NameBold] }
func (s NodeNameSet) Italic() bool { return s.names[NameItalic] }
func (s NodeNameSet) Quote() bool { return s.names[NameQuote] }
func (s NodeNameSet) Link() bool { return s.names[NameLink] }
func (s NodeNameSet) InDocument() bool { return s.names[NameDocument] }
func (s NodeNameSet) InHeader() bool { return s.names[NameHeader] }

// Names returns the recorded names, sorted.
func (s NodeNameSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Classify walks from anchor up to (not including) the parentless root and
// records every node name on the way. The first <a> met supplies URL.
func Classify(anchor *html.Node) (NodeNameSet, error) {
	set := NodeNameSet{names: make(map[string]bool)}
	linkSeen := false
	err := doctree.Ancestors(anchor, func(n *html.Node) bool {
		name := doctree.NodeName(n)
		set.names[name] = true
		if name == NameLink && !linkSeen {
			set.URL = doctree.Attr(n, "href")
			linkSeen = true
		}
		return true
	})
	if err != nil {
		return NodeNameSet{}, fmt.Errorf("classify selection: %w", err)
	}
	return set, nil
}
