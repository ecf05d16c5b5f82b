package convert

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

type Format string

const (
	Plain    Format = "plain"
	Markdown Format = "markdown"
	HTML     Format = "html"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoFormat      = errors.New("no export format selected")
)

// Formats lists the supported formats.
func Formats() []Format { return []Format{Plain, Markdown, HTML} }

// ParseFormat resolves a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", ErrNoFormat
	}
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

var (
	plainHeader = Pipeline{TagStrip, TabStrip}
	plainBody   = Pipeline{BlockText, TabStrip, TripleNewline, LeadingNewline}

	markdownHeader = Pipeline{TagStrip, TabStrip, TrailingNewline}
	markdownBody   = Pipeline{TabStrip, LineStrip, BoldMap, ItalicMap, BlockMap, LinkExtract, TrimNewlines, EntityDecode}
)

// ExportHeader flattens header markup to the single newline-terminated
// line the header pipelines expect.
func ExportHeader(markup string) string {
	return strings.ReplaceAll(markup, "\n", "") + "\n"
}

// Convert renders header and body markup in format f.
func Convert(f Format, header, body string) (string, error) {
	switch f {
	case Plain:
		return plainHeader.Run(header) + plainBody.Run(body), nil
	case Markdown:
		return "#" + markdownHeader.Run(header) + "#\n\n" + markdownBody.Run(body), nil
	case HTML:
		return TabStrip.Apply("<h1>" + header + "</h1>" + body), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// RenderPreview renders markdown as HTML.
func RenderPreview(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}
