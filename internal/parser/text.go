package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Blank lines separate paragraphs;
// single newlines inside a paragraph become <br>.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Imported, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out bodyBuilder
	var current []string
	flush := func() {
		if len(current) > 0 {
			out.block("p", linesMarkup(current))
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.ReplaceAll(scanner.Text(), "\t", "    ")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out.imported(baseTitle(filename)), nil
}
