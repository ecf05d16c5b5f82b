package wordcount

import (
	"strings"

	"github.com/dgallion1/notepen/internal/doctree"
	"golang.org/x/net/html"
)

// Count returns the number of whitespace-separated runs in text.
func Count(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// CountNode counts the visible text under n.
func CountNode(n *html.Node) int {
	return Count(doctree.VisibleText(n))
}

// Progress is the goal meter's state.
type Progress struct {
	Count    int     `json:"count"`
	Goal     int     `json:"goal"`
	Active   bool    `json:"active"`
	Fraction float64 `json:"fraction"`
	Fill     float64 `json:"fill"` // percent of the meter drawn, at most 100
	Complete bool    `json:"complete"`
}

// Tracker holds the goal and the latest count. A goal of zero means no goal.
type Tracker struct {
	goal  int
	count int
}

// SetGoal sets the goal; n <= 0 deactivates tracking.
func (t *Tracker) SetGoal(n int) {
	if n < 0 {
		n = 0
	}
	t.goal = n
}

func (t *Tracker) Goal() int { return t.goal }
func (t *Tracker) Active() bool { return t.goal > 0 }

func (t *Tracker) Update(count int) { t.count = count }

func (t *Tracker) Progress() Progress {
	p := Progress{Count: t.count, Goal: t.goal, Active: t.Active()}
	if !p.Active {
		return p
	}
	p.Fraction = float64(t.count) / float64(t.goal)
	p.Fill = min(p.Fraction*100, 100)
	p.Complete = p.Fraction >= 1
	return p
}
