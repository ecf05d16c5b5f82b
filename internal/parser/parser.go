package parser

import (
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"
)

// Imported is an uploaded file converted to editor body markup. The markup
// only uses what the editor itself produces: p, blockquote, b, i, a and br.
type Imported struct {
	Title      string
	Body       string
	Paragraphs int
}

// Parser converts raw document bytes into editor markup.
type Parser interface {
	Parse(r io.Reader, filename string) (*Imported, error)
}

// Options tunes parser selection.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".csv":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// bodyBuilder accumulates top-level blocks.
type bodyBuilder struct {
	b      strings.Builder
	blocks int
}

// block writes <tag>inner</tag> unless inner has no visible content.
func (w *bodyBuilder) block(tag, inner string) {
	if strings.TrimSpace(strings.ReplaceAll(inner, "<br>", "")) == "" {
		return
	}
	w.b.WriteString("<" + tag + ">" + inner + "</" + tag + ">")
	w.blocks++
}

func (w *bodyBuilder) imported(title string) *Imported {
	return &Imported{Title: title, Body: w.b.String(), Paragraphs: w.blocks}
}

// linesMarkup escapes each line and joins them with <br>.
func linesMarkup(lines []string) string {
	escaped := make([]string, 0, len(lines))
	for _, l := range lines {
		escaped = append(escaped, html.EscapeString(l))
	}
	return strings.Join(escaped, "<br>")
}
