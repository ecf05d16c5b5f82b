package bubble

import "github.com/dgallion1/notepen/internal/selection"

type State int

const (
	Hidden State = iota
	Fading
	Active
)

func (s State) String() string {
	switch s {
	case Fading:
		return "fading"
	case Active:
		return "active"
	}
	return "hidden"
}

type Mode int

const (
	ModeNormal Mode = iota
	ModeURL
)

func (m Mode) String() string {
	if m == ModeURL {
		return "url-mode"
	}
	return "normal"
}

// VerticalGap is how far above the selection the bubble's anchor sits.
const VerticalGap = 5

// Rect is a selection's bounding box in viewport coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// Point is the bubble's document position.
type Point struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Offscreen parks a hidden bubble.
var Offscreen = Point{Top: -999, Left: -999}

// Place centres the bubble horizontally over r and just above it.
func Place(r Rect, scrollY float64) Point {
	return Point{
		Top:  r.Top - VerticalGap + scrollY,
		Left: (r.Left + r.Right) / 2,
	}
}

// Buttons records which toolbar buttons are lit.
type Buttons struct {
	Bold   bool `json:"bold"`
	Italic bool `json:"italic"`
	Quote  bool `json:"quote"`
	Link   bool `json:"url"`
}

// ButtonsFor lights the buttons matching the classified ancestors.
func ButtonsFor(names selection.NodeNameSet) Buttons {
	return Buttons{
		Bold:   names.Bold(),
		Italic: names.Italic(),
		Quote:  names.Quote(),
		Link:   names.Link(),
	}
}

// View is the bubble as a client renders it.
type View struct {
	State    string  `json:"state"`
	Position Point   `json:"position"`
	Buttons  Buttons `json:"buttons"`
	Mode     string  `json:"mode"`
}

// Controller is the bubble state machine. It has no timers of its own; the
// session decides when a fade completes.
type Controller struct {
	state   State
	pos     Point
	buttons Buttons
	mode    Mode
}

func New() *Controller {
	return &Controller{pos: Offscreen}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Position() Point { return c.pos }
func (c *Controller) Buttons() Buttons { return c.buttons }
func (c *Controller) Mode() Mode { return c.mode }

// Activate shows the bubble over r with buttons lit for names.
func (c *Controller) Activate(names selection.NodeNameSet, r Rect, scrollY float64) {
	c.Refresh(names)
	c.pos = Place(r, scrollY)
	c.state = Active
}

// Refresh only relights the buttons.
func (c *Controller) Refresh(names selection.NodeNameSet) {
	c.buttons = ButtonsFor(names)
}

// Reposition moves the bubble without touching its state.
func (c *Controller) Reposition(r Rect, scrollY float64) {
	c.pos = Place(r, scrollY)
}

// BeginFade starts hiding an active bubble. It reports whether a fade began.
func (c *Controller) BeginFade() bool {
	if c.state != Active {
		return false
	}
	c.state = Fading
	return true
}

// CompleteFade hides the bubble if it is still fading. A bubble reactivated
// during the fade is left alone.
func (c *Controller) CompleteFade() bool {
	if c.state != Fading {
		return false
	}
	c.state = Hidden
	c.pos = Offscreen
	return true
}

func (c *Controller) SetMode(m Mode) { c.mode = m }

// ToggleMode flips between normal and URL entry and returns the new mode.
func (c *Controller) ToggleMode() Mode {
	if c.mode == ModeURL {
		c.mode = ModeNormal
	} else {
		c.mode = ModeURL
	}
	return c.mode
}

func (c *Controller) View() View {
	return View{
		State:    c.state.String(),
		Position: c.pos,
		Buttons:  c.buttons,
		Mode:     c.mode.String(),
	}
}
