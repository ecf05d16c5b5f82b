package parser

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"
)

// CSVParser handles CSV files. The first record names the columns; every
// following record becomes one paragraph with a bold label per field.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Imported, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var out bodyBuilder
	if len(records) == 0 {
		return out.imported(baseTitle(filename)), nil
	}

	headers := records[0]
	for _, row := range records[1:] {
		fields := make([]string, 0, len(row))
		for j, cell := range row {
			cell = html.EscapeString(strings.TrimSpace(cell))
			if cell == "" {
				continue
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				cell = "<b>" + html.EscapeString(strings.TrimSpace(headers[j])) + "</b>: " + cell
			}
			fields = append(fields, cell)
		}
		out.block("p", strings.Join(fields, "<br>"))
	}
	return out.imported(baseTitle(filename)), nil
}
