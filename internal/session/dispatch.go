package session

import (
	"context"
	"fmt"

	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/selection"
	"golang.org/x/net/html"
)

// Handler reacts to one kind of event.
type Handler func(ctx context.Context, s *Session, ev Event) error

// Dispatcher maps event kinds to handlers.
type Dispatcher struct {
	handlers map[EventKind]Handler
}

// NewDispatcher returns a dispatcher with every editor event registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[EventKind]Handler{
		EventSelect:           handleSelect,
		EventMouseDown:        handleMouseDown,
		EventMouseUp:          handleMouseUp,
		EventKeyUp:            handleKeyUp,
		EventScroll:           handleScroll,
		EventResize:           handleResize,
		EventCompositionStart: handleCompositionStart,
		EventCompositionEnd:   handleCompositionEnd,
		EventClick:            handleClick,
		EventURLInput:         handleURLInput,
		EventURLKeyDown:       handleURLKeyDown,
		EventURLBlur:          handleURLBlur,
		EventHeaderEnter:      handleHeaderEnter,
		EventSetGoal:          handleSetGoal,
		EventToggleTheme:      handleToggleTheme,
	}}
}

// Register adds or replaces the handler for kind.
func (d *Dispatcher) Register(kind EventKind, h Handler) {
	d.handlers[kind] = h
}

func (d *Dispatcher) Dispatch(ctx context.Context, s *Session, ev Event) error {
	h, ok := d.handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return h(ctx, s, ev)
}

// handleSelect moves the platform selection to the given rune offsets of a
// field, then runs the highlight check as a host would after a drag.
func handleSelect(_ context.Context, s *Session, ev Event) error {
	field, err := s.doc.Field(ev.Field)
	if err != nil {
		return err
	}
	if err := s.selectOffsets(field, ev.Start, ev.End); err != nil {
		return err
	}
	if ev.Field == doctree.FieldHeader {
		s.platform.Focus(TargetHeader)
	} else {
		s.platform.Focus(TargetDocument)
	}
	return s.checkHighlighting(ev.Target)
}

func handleMouseDown(ctx context.Context, s *Session, ev Event) error {
	// the url button acts on mousedown so the selection is still intact
	if ev.Target == TargetToolbar && ev.Button == ButtonURL {
		if err := s.toggleLinkMode(ctx); err != nil {
			return err
		}
	}
	return s.checkHighlighting(ev.Target)
}

func handleMouseUp(_ context.Context, s *Session, ev Event) error {
	target := ev.Target
	s.sched.Schedule(slotMouseUp, s.timings.MouseUp, func() {
		if err := s.checkHighlighting(target); err != nil {
			s.log.Error("check highlighting", "error", err)
		}
	})
	return nil
}

// handleKeyUp optionally applies typed text, then rechecks the bubble and
// saves. A keyup carrying Markup replaces that field's markup and places a
// caret or selection at Start..End.
func handleKeyUp(ctx context.Context, s *Session, ev Event) error {
	if ev.Markup != nil {
		f := ev.Field
		if f == "" {
			f = doctree.FieldContent
		}
		if err := s.doc.SetMarkup(f, *ev.Markup); err != nil {
			return err
		}
		field, err := s.doc.Field(f)
		if err != nil {
			return err
		}
		n := doctree.TextLen(field)
		if err := s.selectOffsets(field, clamp(ev.Start, n), clamp(ev.End, n)); err != nil {
			return err
		}
	}
	if err := s.checkHighlighting(ev.Target); err != nil {
		return err
	}
	s.saveContent(ctx)
	s.updateCount()
	return nil
}

func handleScroll(_ context.Context, s *Session, ev Event) error {
	s.platform.SetScrollY(ev.ScrollY)
	s.scroll.Trigger()
	return nil
}

func handleResize(_ context.Context, s *Session, _ Event) error {
	s.reposition()
	return nil
}

func handleCompositionStart(_ context.Context, s *Session, _ Event) error {
	s.composing = true
	return nil
}

func handleCompositionEnd(_ context.Context, s *Session, _ Event) error {
	s.composing = false
	return nil
}

func handleClick(ctx context.Context, s *Session, ev Event) error {
	switch ev.Button {
	case ButtonBold:
		return s.applyFormat(ctx, s.exec.ToggleBold)
	case ButtonItalic:
		return s.applyFormat(ctx, s.exec.ToggleItalic)
	case ButtonQuote:
		return s.applyFormat(ctx, func(sel selection.Selection) (selection.Selection, error) {
			names, err := selection.Classify(sel.Anchor())
			if err != nil {
				return sel, err
			}
			return s.exec.ToggleQuote(sel, names)
		})
	case ButtonURL:
		return s.toggleLinkMode(ctx)
	}
	return fmt.Errorf("%w: %q", ErrUnknownButton, ev.Button)
}

func handleURLInput(_ context.Context, s *Session, ev Event) error {
	s.urlInput = ev.Value
	return nil
}

func handleURLKeyDown(ctx context.Context, s *Session, ev Event) error {
	if ev.Key != "Enter" {
		return nil
	}
	return s.commitURL(ctx)
}

func handleURLBlur(ctx context.Context, s *Session, _ Event) error {
	return s.commitURL(ctx)
}

// handleHeaderEnter moves focus from the title to the body.
func handleHeaderEnter(_ context.Context, s *Session, _ Event) error {
	field := s.doc.Content
	n := doctree.TextLen(field)
	if err := s.selectOffsets(field, n, n); err != nil {
		return err
	}
	s.platform.Focus(TargetDocument)
	return nil
}

func handleSetGoal(ctx context.Context, s *Session, ev Event) error {
	s.tracker.SetGoal(ev.Goal)
	s.updateCount()
	s.saveGoal(ctx)
	return nil
}

func handleToggleTheme(ctx context.Context, s *Session, _ Event) error {
	s.darkLayout = !s.darkLayout
	s.saveTheme(ctx)
	return nil
}

func (s *Session) selectOffsets(field *html.Node, start, end int) error {
	sel, err := selection.FromOffsets(field, start, end)
	if err != nil {
		return err
	}
	s.platform.SetSelection(sel)
	return nil
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
