package session

import "github.com/dgallion1/notepen/internal/doctree"

// EventKind names an input event.
type EventKind string

const (
	EventSelect           EventKind = "select"
	EventMouseDown        EventKind = "mousedown"
	EventMouseUp          EventKind = "mouseup"
	EventKeyUp            EventKind = "keyup"
	EventScroll           EventKind = "scroll"
	EventResize           EventKind = "resize"
	EventCompositionStart EventKind = "compositionstart"
	EventCompositionEnd   EventKind = "compositionend"
	EventClick            EventKind = "click"
	EventURLInput         EventKind = "urlinput"
	EventURLKeyDown       EventKind = "urlkeydown"
	EventURLBlur          EventKind = "urlblur"
	EventHeaderEnter      EventKind = "headerenter"
	EventSetGoal          EventKind = "setgoal"
	EventToggleTheme      EventKind = "toggletheme"
)

// Button names a toolbar button.
type Button string

const (
	ButtonBold   Button = "bold"
	ButtonItalic Button = "italic"
	ButtonQuote  Button = "quote"
	ButtonURL    Button = "url"
)

// Event is one input event. Which fields matter depends on Kind:
//
//	select       Field, Start, End (rune offsets)
//	mouse*/keyup Target, plus Field/Markup on a keyup that edited text
//	scroll       ScrollY
//	click        Button
//	urlinput     Value
//	urlkeydown   Key
//	setgoal      Goal
type Event struct {
	Kind    EventKind     `json:"kind"`
	Target  Target        `json:"target,omitempty"`
	Button  Button        `json:"button,omitempty"`
	Field   doctree.Field `json:"field,omitempty"`
	Start   int           `json:"start,omitempty"`
	End     int           `json:"end,omitempty"`
	Markup  *string       `json:"markup,omitempty"`
	Key     string        `json:"key,omitempty"`
	Value   string        `json:"value,omitempty"`
	ScrollY float64       `json:"scroll_y,omitempty"`
	Goal    int           `json:"goal,omitempty"`
}
