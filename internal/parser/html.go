package parser

import (
	"fmt"
	stdhtml "html"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Block elements become paragraphs or
// quotes, headings become bold paragraphs, and only b/i/a/br survive inside
// them.
type HTMLParser struct{}

var spaceRun = regexp.MustCompile(`\s+`)

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Imported, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := baseTitle(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}

	var out bodyBuilder
	var loose strings.Builder
	flushLoose := func() {
		out.block("p", strings.TrimSpace(loose.String()))
		loose.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				switch c.Data {
				case "script", "style", "nav", "footer", "header", "noscript", "head":
					continue
				case "h1", "h2", "h3", "h4", "h5", "h6":
					flushLoose()
					out.block("p", "<b>"+strings.TrimSpace(inlineHTML(c))+"</b>")
					continue
				case "blockquote":
					flushLoose()
					out.block("blockquote", strings.TrimSpace(inlineHTML(c)))
					continue
				case "p", "li", "td", "th", "dt", "dd", "pre":
					flushLoose()
					out.block("p", strings.TrimSpace(inlineHTML(c)))
					continue
				case "div", "section", "article", "main", "ul", "ol", "table", "tbody", "thead", "tr", "body", "dl":
					flushLoose()
					walk(c)
					flushLoose()
					continue
				}
			}
			writeInline(&loose, c)
		}
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}
	walk(body)
	flushLoose()

	return out.imported(title), nil
}

// inlineHTML renders n's children, keeping only the inline formatting the
// editor understands.
func inlineHTML(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(&buf, c)
	}
	return buf.String()
}

func writeInline(buf *strings.Builder, c *html.Node) {
	switch c.Type {
	case html.TextNode:
		buf.WriteString(stdhtml.EscapeString(spaceRun.ReplaceAllString(c.Data, " ")))
	case html.ElementNode:
		switch c.Data {
		case "script", "style":
		case "b", "strong":
			buf.WriteString("<b>" + inlineHTML(c) + "</b>")
		case "i", "em":
			buf.WriteString("<i>" + inlineHTML(c) + "</i>")
		case "a":
			href := ""
			for _, a := range c.Attr {
				if a.Key == "href" {
					href = a.Val
				}
			}
			if href == "" {
				buf.WriteString(inlineHTML(c))
				return
			}
			buf.WriteString(`<a href="` + stdhtml.EscapeString(href) + `">` + inlineHTML(c) + "</a>")
		case "br":
			buf.WriteString("<br>")
		case "p", "div", "li":
			buf.WriteString(" " + inlineHTML(c) + " ")
		default:
			buf.WriteString(inlineHTML(c))
		}
	}
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
