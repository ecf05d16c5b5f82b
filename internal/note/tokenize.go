package note

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rawText holds the elements whose bodies the tokenizer passes through
// without entity decoding. textarea and title are decoded, so they are not
// listed.
var rawText = map[atom.Atom]bool{
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
}

// TokenizeHTML rewrites markup into canonical token form: tag and attribute
// names lowercased, attribute values quoted, text escaped, and comments and
// doctypes dropped. Running it twice gives the same result as running it
// once.
func TokenizeHTML(markup string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	raw := atom.Atom(0)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", fmt.Errorf("tokenize html: %w", z.Err())
		case html.CommentToken, html.DoctypeToken:
			continue
		}

		tok := z.Token()
		switch tt {
		case html.StartTagToken:
			if rawText[tok.DataAtom] {
				raw = tok.DataAtom
			}
		case html.EndTagToken:
			if tok.DataAtom == raw {
				raw = 0
			}
		case html.TextToken:
			// raw text was never decoded, so it must not be re-escaped
			if raw != 0 {
				b.WriteString(tok.Data)
				continue
			}
		}
		b.WriteString(tok.String())
	}
}

// TokenizeBody is the pre-save hook that canonicalizes a note's markup.
func TokenizeBody(n *Note) error {
	body, err := TokenizeHTML(n.Body)
	if err != nil {
		return err
	}
	header, err := TokenizeHTML(n.Header)
	if err != nil {
		return err
	}
	n.Body, n.Header = body, header
	return nil
}
