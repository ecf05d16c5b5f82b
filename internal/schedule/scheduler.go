package schedule

import "time"

// Token identifies one scheduled task. Tokens only increase.
type Token uint64

type slot struct {
	token Token
	timer Timer
}

// Scheduler runs deferred work in named slots. Each slot holds at most one
// live task: scheduling again, or invalidating the slot, makes any earlier
// task a no-op when its timer fires.
//
// Scheduler is not safe for concurrent use. Fired tasks are handed to the
// executor, which is expected to run them on the goroutine that owns the
// scheduler.
type Scheduler struct {
	clock Clock
	exec  func(func())
	next  Token
	slots map[string]*slot
}

func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = Real()
	}
	return &Scheduler{clock: clock, slots: make(map[string]*slot)}
}

// SetExecutor routes fired tasks through exec. Without one, tasks run on
// the timer's goroutine.
func (s *Scheduler) SetExecutor(exec func(func())) {
	s.exec = exec
}

func (s *Scheduler) Clock() Clock { return s.clock }

// Schedule arms fn in the named slot after d, superseding whatever the slot
// held before.
func (s *Scheduler) Schedule(name string, d time.Duration, fn func()) Token {
	sl := s.slot(name)
	if sl.timer != nil {
		sl.timer.Stop()
	}
	s.next++
	tok := s.next
	sl.token = tok
	exec := s.exec
	sl.timer = s.clock.AfterFunc(d, func() {
		task := func() { s.fire(name, tok, fn) }
		if exec == nil {
			task()
			return
		}
		exec(task)
	})
	return tok
}

// Invalidate cancels the slot's pending task, if any.
func (s *Scheduler) Invalidate(name string) {
	sl := s.slot(name)
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
	s.next++
	sl.token = s.next
}

// Pending reports whether the slot holds a task that has not fired.
func (s *Scheduler) Pending(name string) bool {
	sl, ok := s.slots[name]
	return ok && sl.timer != nil
}

// Current returns the slot's live token.
func (s *Scheduler) Current(name string) Token {
	if sl, ok := s.slots[name]; ok {
		return sl.token
	}
	return 0
}

func (s *Scheduler) fire(name string, tok Token, fn func()) {
	sl, ok := s.slots[name]
	if !ok || sl.token != tok {
		return
	}
	sl.timer = nil
	fn()
}

func (s *Scheduler) slot(name string) *slot {
	sl, ok := s.slots[name]
	if !ok {
		sl = &slot{}
		s.slots[name] = sl
	}
	return sl
}

// Throttle coalesces a burst of triggers into one trailing call: the first
// trigger opens a window, later triggers inside it are dropped, and fn runs
// once when the window closes.
type Throttle struct {
	s      *Scheduler
	name   string
	window time.Duration
	fn     func()
	open   bool
}

func NewThrottle(s *Scheduler, name string, window time.Duration, fn func()) *Throttle {
	return &Throttle{s: s, name: name, window: window, fn: fn}
}

// Trigger reports whether this call opened a new window.
func (t *Throttle) Trigger() bool {
	if t.open {
		return false
	}
	t.open = true
	t.s.Schedule(t.name, t.window, func() {
		t.open = false
		t.fn()
	})
	return true
}

// Cancel drops any pending call and closes the window.
func (t *Throttle) Cancel() {
	t.s.Invalidate(t.name)
	t.open = false
}
