package parser

import (
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings become bold
// paragraphs; the first level-one heading also supplies the title.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Imported, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var out bodyBuilder
	title := ""
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && title == "" {
			title = strings.TrimSpace(plainInline(h, src))
		}
		writeMarkdownBlock(&out, n, src)
	}

	if title == "" {
		title = baseTitle(filename)
	}
	return out.imported(title), nil
}

func writeMarkdownBlock(out *bodyBuilder, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		out.block("p", "<b>"+inlineMarkup(node, src)+"</b>")
	case *ast.Paragraph, *ast.TextBlock:
		out.block("p", inlineMarkup(node, src))
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			out.block("blockquote", inlineMarkup(c, src))
		}
	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				writeMarkdownBlock(out, c, src)
			}
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := node.Lines()
		var code []string
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code = append(code, strings.TrimRight(string(seg.Value(src)), "\n"))
		}
		out.block("p", linesMarkup(code))
	case *ast.ThematicBreak, *ast.HTMLBlock:
		// nothing the editor can show
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeMarkdownBlock(out, c, src)
		}
	}
}

// inlineMarkup renders the inline children of n as editor markup.
func inlineMarkup(n ast.Node, src []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.WriteString(html.EscapeString(string(node.Segment.Value(src))))
			switch {
			case node.HardLineBreak():
				buf.WriteString("<br>")
			case node.SoftLineBreak():
				buf.WriteString(" ")
			}
		case *ast.String:
			buf.WriteString(html.EscapeString(string(node.Value)))
		case *ast.Emphasis:
			tag := "i"
			if node.Level >= 2 {
				tag = "b"
			}
			buf.WriteString("<" + tag + ">" + inlineMarkup(node, src) + "</" + tag + ">")
		case *ast.Link:
			buf.WriteString(`<a href="` + html.EscapeString(string(node.Destination)) + `">` + inlineMarkup(node, src) + "</a>")
		case *ast.AutoLink:
			url := html.EscapeString(string(node.URL(src)))
			buf.WriteString(`<a href="` + url + `">` + html.EscapeString(string(node.Label(src))) + "</a>")
		case *ast.RawHTML:
			// dropped
		default:
			buf.WriteString(inlineMarkup(c, src))
		}
	}
	return buf.String()
}

// plainInline is the text of n's inline children without markup.
func plainInline(n ast.Node, src []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		default:
			buf.WriteString(plainInline(c, src))
		}
	}
	return buf.String()
}
