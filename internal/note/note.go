package note

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinTitleLength is the shortest title, in characters, a note may carry.
const MinTitleLength = 5

var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooShort = fmt.Errorf("title must be at least %d characters", MinTitleLength)
	ErrNotFound      = errors.New("note not found")
)

type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Header     string    `json:"header"`
	Body       string    `json:"body"`
	Goal       int       `json:"goal"`
	DarkLayout bool      `json:"dark_layout"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the title.
func (n *Note) Validate() error {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) < MinTitleLength {
		return ErrTitleTooShort
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) || errors.Is(err, ErrTitleTooShort)
}
