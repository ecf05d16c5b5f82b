package convert

import (
	"regexp"
	"strings"

	"github.com/dgallion1/notepen/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Stage is one named text rewrite.
type Stage struct {
	Name  string
	Apply func(string) string
}

// Pipeline runs its stages in order.
type Pipeline []Stage

func (p Pipeline) Run(s string) string {
	for _, st := range p {
		s = st.Apply(s)
	}
	return s
}

func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, st := range p {
		names[i] = st.Name
	}
	return names
}

var (
	lineBreaksRe    = regexp.MustCompile(`\r\n+|\r+|\n+|\t+`)
	boldRe          = regexp.MustCompile(`<b>|</b>`)
	italicRe        = regexp.MustCompile(`<i>|</i>`)
	quoteOpenRe     = regexp.MustCompile(`<blockquote>`)
	quoteCloseRe    = regexp.MustCompile(`</blockquote>`)
	paragraphRe     = regexp.MustCompile(`(?i)<p>|</p>`)
	breakRe         = regexp.MustCompile(`<br\s*/?>`)
	anchorRe        = regexp.MustCompile(`<a href="(.+?)">(.+?)</a>`)
	tripleNewlineRe = regexp.MustCompile(`\n{3}`)
)

var (
	TagStrip = Stage{"tag-strip", func(s string) string {
		nodes, err := doctree.ParseFragment(s)
		if err != nil {
			return s
		}
		var b strings.Builder
		for _, n := range nodes {
			b.WriteString(doctree.TextContent(n))
		}
		return b.String()
	}}

	BlockText = Stage{"block-text", func(s string) string {
		nodes, err := doctree.ParseFragment(s)
		if err != nil {
			return s
		}
		holder := doctree.NewElement(atom.Div)
		for _, n := range nodes {
			holder.AppendChild(n)
		}
		return doctree.BlockText(holder)
	}}

	TabStrip = Stage{"tab-strip", func(s string) string {
		return strings.ReplaceAll(s, "\t", "")
	}}

	LineStrip = Stage{"line-strip", func(s string) string {
		return lineBreaksRe.ReplaceAllString(s, "")
	}}

	BoldMap = Stage{"bold-map", func(s string) string {
		return boldRe.ReplaceAllString(s, "**")
	}}

	ItalicMap = Stage{"italic-map", func(s string) string {
		return italicRe.ReplaceAllString(s, "_")
	}}

	BlockMap = Stage{"block-map", func(s string) string {
		s = quoteOpenRe.ReplaceAllString(s, "> ")
		s = quoteCloseRe.ReplaceAllString(s, "")
		s = paragraphRe.ReplaceAllString(s, "\n")
		return breakRe.ReplaceAllString(s, "\n")
	}}

	LinkExtract = Stage{"link-extract", extractLinks}

	// EntityDecode turns the character references the tree renderer emits
	// back into plain characters.
	EntityDecode = Stage{"entity-decode", html.UnescapeString}

	TripleNewline = Stage{"triple-newline", func(s string) string {
		return tripleNewlineRe.ReplaceAllString(s, "\n")
	}}

	LeadingNewline = Stage{"leading-newline", func(s string) string {
		return strings.TrimPrefix(s, "\n")
	}}

	TrailingNewline = Stage{"trailing-newline", func(s string) string {
		return strings.TrimSuffix(s, "\n")
	}}

	TrimNewlines = Stage{"trim-newlines", func(s string) string {
		return strings.Trim(s, "\n")
	}}
)

// extractLinks rewrites every anchor as [text](href). Text and href are
// re-escaped after parsing so the entity-decode stage decodes the whole
// body exactly once.
func extractLinks(s string) string {
	matches := anchorRe.FindAllString(s, -1)
	for _, m := range matches {
		href, text, ok := parseAnchor(m)
		if !ok {
			continue
		}
		s = strings.Replace(s, m, "["+text+"]("+href+")", 1)
	}
	return s
}

func parseAnchor(markup string) (href, text string, ok bool) {
	nodes, err := doctree.ParseFragment(markup)
	if err != nil {
		return "", "", false
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			return html.EscapeString(doctree.Attr(n, "href")), html.EscapeString(doctree.TextContent(n)), true
		}
	}
	return "", "", false
}
