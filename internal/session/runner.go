package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrClosed = errors.New("session closed")

// Runner owns a Session on a single goroutine. Events from callers and
// fired timers are queued on the same channel, so the session never sees
// two things at once.
type Runner struct {
	ID     string
	NoteID string // the note the session was opened from, if any
	sess   *Session

	tasks chan func()
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup

	mu       sync.Mutex
	lastUsed time.Time
}

// NewRunner starts the loop for sess. The loop exits when ctx is cancelled
// or Close is called.
func NewRunner(ctx context.Context, id string, sess *Session) *Runner {
	r := &Runner{
		ID:       id,
		sess:     sess,
		tasks:    make(chan func(), 64),
		done:     make(chan struct{}),
		lastUsed: time.Now(),
	}
	sess.SetExecutor(r.post)
	r.wg.Add(1)
	go r.loop(ctx)
	return r
}

func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-r.done:
			return
		case task := <-r.tasks:
			task()
		}
	}
}

// post queues a fired timer. Timers that fire after Close are dropped.
func (r *Runner) post(task func()) {
	select {
	case r.tasks <- task:
	case <-r.done:
	}
}

// Do runs fn on the session goroutine and waits for it.
func (r *Runner) Do(ctx context.Context, fn func(*Session) error) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	r.touch()
	errc := make(chan error, 1)
	task := func() { errc <- fn(r.sess) }
	select {
	case r.tasks <- task:
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch delivers ev and returns the view right after it was handled.
// The view is returned even when the handler failed.
func (r *Runner) Dispatch(ctx context.Context, ev Event) (View, error) {
	var v View
	var herr error
	err := r.Do(ctx, func(s *Session) error {
		herr = s.Dispatch(ctx, ev)
		v = s.View()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return v, herr
}

// View snapshots the session.
func (r *Runner) View(ctx context.Context) (View, error) {
	var v View
	err := r.Do(ctx, func(s *Session) error {
		v = s.View()
		return nil
	})
	return v, err
}

// Export renders the document and returns the view alongside it so the
// caller can see the export error indicator.
func (r *Runner) Export(ctx context.Context, formatName string) (Export, View, error) {
	var out Export
	var v View
	var xerr error
	err := r.Do(ctx, func(s *Session) error {
		out, xerr = s.Export(formatName)
		v = s.View()
		return nil
	})
	if err != nil {
		return Export{}, View{}, err
	}
	return out, v, xerr
}

// Close stops the loop. Pending timers become no-ops.
func (r *Runner) Close() {
	r.once.Do(func() { close(r.done) })
}

// Wait blocks until the loop has exited.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) touch() {
	r.mu.Lock()
	r.lastUsed = time.Now()
	r.mu.Unlock()
}

func (r *Runner) idleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastUsed
}
