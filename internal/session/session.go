// Package session is one open editor: the live document, its selection, the
// formatting bubble and the timers that drive it. A Session is not safe for
// concurrent use; Runner serializes access to it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgallion1/notepen/internal/bubble"
	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/format"
	"github.com/dgallion1/notepen/internal/schedule"
	"github.com/dgallion1/notepen/internal/selection"
	"github.com/dgallion1/notepen/internal/store"
	"github.com/dgallion1/notepen/internal/wordcount"
)

// Scheduler slots.
const (
	slotFade      = "fade"
	slotScroll    = "scroll"
	slotLinkInput = "link-input"
	slotMouseUp   = "mouseup"
)

// MarkerHref is the placeholder target given to a selection while the user
// types its real URL.
const MarkerHref = "/"

// DefaultExportBasename names exported files when nothing else is configured.
const DefaultExportBasename = "notepen"

var (
	ErrUnknownEvent  = errors.New("unknown event kind")
	ErrUnknownButton = errors.New("unknown toolbar button")
)

// Timings are the UI delays.
type Timings struct {
	Fade           time.Duration
	ScrollThrottle time.Duration
	LinkInput      time.Duration
	MouseUp        time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Fade:           260 * time.Millisecond,
		ScrollThrottle: 250 * time.Millisecond,
		LinkInput:      100 * time.Millisecond,
		MouseUp:        time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.Fade <= 0 {
		t.Fade = d.Fade
	}
	if t.ScrollThrottle <= 0 {
		t.ScrollThrottle = d.ScrollThrottle
	}
	if t.LinkInput <= 0 {
		t.LinkInput = d.LinkInput
	}
	if t.MouseUp <= 0 {
		t.MouseUp = d.MouseUp
	}
	return t
}

// Options configure a new session. Every field is optional.
type Options struct {
	Store          store.KV
	NewPlatform    func(*doctree.Document) Platform
	Clock          schedule.Clock
	Logger         *slog.Logger
	Timings        Timings
	ExportBasename string
	Goal           int
	DarkLayout     bool
}

type Session struct {
	doc      *doctree.Document
	platform Platform
	sched    *schedule.Scheduler
	scroll   *schedule.Throttle
	bubble   *bubble.Controller
	exec     *format.Executor
	dispatch *Dispatcher
	saved    selection.Saved
	tracker  wordcount.Tracker

	composing     bool
	lastCollapsed bool
	darkLayout    bool
	exportError   bool
	urlInput      string

	kv        store.KV
	storageOK bool

	timings     Timings
	basename    string
	repositions int
	log         *slog.Logger
}

// New opens a session over the given markup. Values persisted in opts.Store
// take precedence over the markup and the goal and theme options.
func New(ctx context.Context, header, content string, opts Options) (*Session, error) {
	doc, err := doctree.New(header, content)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ExportBasename == "" {
		opts.ExportBasename = DefaultExportBasename
	}
	var platform Platform
	if opts.NewPlatform != nil {
		platform = opts.NewPlatform(doc)
	} else {
		platform = NewHeadless(doc)
	}

	s := &Session{
		doc:           doc,
		platform:      platform,
		sched:         schedule.New(opts.Clock),
		bubble:        bubble.New(),
		exec:          format.NewExecutor(doc),
		dispatch:      NewDispatcher(),
		lastCollapsed: true,
		darkLayout:    opts.DarkLayout,
		kv:            opts.Store,
		timings:       opts.Timings.withDefaults(),
		basename:      opts.ExportBasename,
		log:           opts.Logger,
	}
	s.scroll = schedule.NewThrottle(s.sched, slotScroll, s.timings.ScrollThrottle, s.reposition)
	s.tracker.SetGoal(opts.Goal)

	s.storageOK = store.Available(ctx, s.kv)
	if s.kv != nil && !s.storageOK {
		s.log.Warn("store unavailable, running without persistence")
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	s.tracker.Update(wordcount.CountNode(s.doc.Content))
	return s, nil
}

// Dispatch runs the handler registered for ev.Kind.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	if err := s.dispatch.Dispatch(ctx, s, ev); err != nil {
		s.log.Error("dispatch event", "kind", ev.Kind, "error", err)
		return err
	}
	return nil
}

// SetExecutor routes fired timers through exec; see schedule.Scheduler.
func (s *Session) SetExecutor(exec func(func())) { s.sched.SetExecutor(exec) }

func (s *Session) Document() *doctree.Document { return s.doc }
func (s *Session) Platform() Platform { return s.platform }
func (s *Session) Bubble() *bubble.Controller { return s.bubble }
func (s *Session) Progress() wordcount.Progress { return s.tracker.Progress() }
func (s *Session) Repositions() int { return s.repositions }
func (s *Session) StorageAvailable() bool { return s.storageOK }

// checkHighlighting decides what the bubble should do after any event that
// may have changed the selection.
func (s *Session) checkHighlighting(target Target) error {
	sel := s.platform.Selection()

	// interacting with the toolbar keeps the selection; only relight buttons
	if target == TargetURLInput || target == TargetToolbar {
		if sel.IsZero() {
			return nil
		}
		names, err := selection.Classify(sel.Anchor())
		if err != nil {
			return err
		}
		s.bubble.Refresh(names)
		return nil
	}

	collapsed := sel.IsZero() || sel.Collapsed()
	if collapsed && !s.lastCollapsed {
		s.fade()
	}
	if !collapsed && !s.composing {
		names, err := selection.Classify(sel.Anchor())
		if err != nil {
			return err
		}
		if names.InDocument() {
			s.sched.Invalidate(slotFade)
			s.bubble.Activate(names, s.platform.BoundingRect(sel), s.platform.ScrollY())
		}
	}
	s.lastCollapsed = collapsed
	return nil
}

func (s *Session) fade() {
	if !s.bubble.BeginFade() {
		return
	}
	s.sched.Schedule(slotFade, s.timings.Fade, func() {
		s.bubble.CompleteFade()
	})
}

// reposition follows the selection after a scroll or resize.
func (s *Session) reposition() {
	if s.bubble.State() == bubble.Hidden {
		return
	}
	sel := s.platform.Selection()
	if sel.IsZero() {
		return
	}
	s.bubble.Reposition(s.platform.BoundingRect(sel), s.platform.ScrollY())
	s.repositions++
}

// applyFormat runs a formatting command on the current selection, then
// relights the buttons and persists the result.
func (s *Session) applyFormat(ctx context.Context, cmd func(selection.Selection) (selection.Selection, error)) error {
	sel := s.platform.Selection()
	if sel.IsZero() {
		return nil
	}
	next, err := cmd(sel)
	if err != nil {
		return err
	}
	s.platform.SetSelection(next)
	if err := s.refreshButtons(); err != nil {
		return err
	}
	s.saveContent(ctx)
	return nil
}

func (s *Session) refreshButtons() error {
	sel := s.platform.Selection()
	if sel.IsZero() {
		return nil
	}
	names, err := selection.Classify(sel.Anchor())
	if err != nil {
		return err
	}
	s.bubble.Refresh(names)
	return nil
}

// toggleLinkMode flips URL entry. Entering it arms the link-input slot,
// which prepares the link once the click has settled. Leaving it while the
// URL input has focus blurs the input, which commits whatever was typed and
// drops the marker link when nothing was.
func (s *Session) toggleLinkMode(ctx context.Context) error {
	if s.bubble.ToggleMode() == bubble.ModeNormal {
		s.sched.Invalidate(slotLinkInput)
		return s.commitURL(ctx)
	}
	s.sched.Schedule(slotLinkInput, s.timings.LinkInput, func() {
		if err := s.prepareLinkInput(); err != nil {
			s.log.Error("prepare link input", "error", err)
		}
	})
	return nil
}

func (s *Session) prepareLinkInput() error {
	if s.bubble.Mode() != bubble.ModeURL {
		return nil
	}
	sel := s.platform.Selection()
	if sel.IsZero() {
		return nil
	}
	names, err := selection.Classify(sel.Anchor())
	if err != nil {
		return err
	}
	if names.Link() {
		s.urlInput = names.URL
	} else {
		next, err := s.exec.CreateLink(sel, MarkerHref)
		if err != nil {
			return err
		}
		s.platform.SetSelection(next)
		sel = next
	}

	field, err := s.doc.FieldOf(sel.Anchor())
	if err != nil {
		return err
	}
	if err := s.saved.Save(field, sel); err != nil {
		return err
	}
	s.lastCollapsed = false
	s.platform.Focus(TargetURLInput)
	return nil
}

// commitURL leaves URL entry, linking the saved selection to whatever was
// typed. It only acts while the URL input has focus, so the blur that
// follows an Enter is ignored.
func (s *Session) commitURL(ctx context.Context) error {
	if s.platform.Focused() != TargetURLInput {
		return nil
	}
	url := s.urlInput
	s.bubble.SetMode(bubble.ModeNormal)
	s.sched.Invalidate(slotLinkInput)
	s.urlInput = ""
	s.platform.Focus(TargetDocument)

	sel, err := s.saved.Restore()
	if err != nil {
		return err
	}
	s.platform.SetSelection(sel)
	return s.applyFormat(ctx, func(sel selection.Selection) (selection.Selection, error) {
		return s.exec.ApplyLink(sel, url)
	})
}

// updateCount recounts the body when a goal is set.
func (s *Session) updateCount() {
	if s.tracker.Active() {
		s.tracker.Update(wordcount.CountNode(s.doc.Content))
	}
}
