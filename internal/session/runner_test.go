package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/notepen/internal/doctree"
)

func newTestRunner(t *testing.T, id string) *Runner {
	t.Helper()
	s, err := New(context.Background(), "Title", "<p>hello world</p>", Options{
		Logger:  quietLogger(),
		Timings: Timings{Fade: 20 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := NewRunner(context.Background(), id, s)
	t.Cleanup(func() {
		r.Close()
		r.Wait()
	})
	return r
}

func TestRunner_Dispatch(t *testing.T) {
	r := newTestRunner(t, "s1")
	ctx := context.Background()

	v, err := r.Dispatch(ctx, Event{Kind: EventSelect, Field: doctree.FieldContent, Start: 0, End: 5})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if v.Bubble.State != "active" {
		t.Fatalf("expected active bubble, got %q", v.Bubble.State)
	}
	if v.Selection == nil || v.Selection.Start != 0 || v.Selection.End != 5 {
		t.Errorf("expected selection 0..5, got %+v", v.Selection)
	}

	v, err = r.Dispatch(ctx, Event{Kind: EventClick, Button: ButtonBold})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if v.Content != "<p><b>hello</b> world</p>" {
		t.Errorf("expected bold content, got %q", v.Content)
	}

	if _, err := r.Dispatch(ctx, Event{Kind: "nope"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestRunner_TimerRunsOnLoop(t *testing.T) {
	r := newTestRunner(t, "s1")
	ctx := context.Background()

	r.Dispatch(ctx, Event{Kind: EventSelect, Field: doctree.FieldContent, Start: 0, End: 5})
	v, _ := r.Dispatch(ctx, Event{Kind: EventSelect, Field: doctree.FieldContent, Start: 2, End: 2})
	if v.Bubble.State != "fading" {
		t.Fatalf("expected fading, got %q", v.Bubble.State)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := r.View(ctx)
		if err != nil {
			t.Fatalf("View: %v", err)
		}
		if v.Bubble.State == "hidden" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected bubble to finish fading")
}

func TestRunner_Export(t *testing.T) {
	r := newTestRunner(t, "s1")

	_, v, err := r.Export(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for missing format")
	}
	if !v.ExportError {
		t.Error("expected export error in view")
	}

	out, _, err := r.Export(context.Background(), "html")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out.Text != "<h1>Title\n</h1><p>hello world</p>" {
		t.Errorf("expected html export, got %q", out.Text)
	}
}

func TestRunner_Closed(t *testing.T) {
	r := newTestRunner(t, "s1")
	r.Close()
	r.Wait()

	if _, err := r.Dispatch(context.Background(), Event{Kind: EventResize}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(time.Hour)
	a := newTestRunner(t, "a")
	b := newTestRunner(t, "b")
	reg.Put(a)
	reg.Put(b)

	if reg.Len() != 2 {
		t.Fatalf("expected 2 runners, got %d", reg.Len())
	}
	if reg.Get("a") != a {
		t.Error("expected to get runner a")
	}
	if !reg.Delete("a") {
		t.Error("expected Delete to report an existing runner")
	}
	if reg.Delete("a") {
		t.Error("expected second Delete to report nothing")
	}
	if _, err := a.View(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected deleted runner closed, got %v", err)
	}
	if n := reg.Cleanup(); n != 0 {
		t.Errorf("expected nothing evicted, got %d", n)
	}
}

func TestRegistry_CleanupIdle(t *testing.T) {
	reg := NewRegistry(time.Millisecond)
	r := newTestRunner(t, "idle")
	reg.Put(r)

	time.Sleep(5 * time.Millisecond)
	if n := reg.Cleanup(); n != 1 {
		t.Fatalf("expected 1 evicted, got %d", n)
	}
	if reg.Get("idle") != nil {
		t.Error("expected idle runner gone")
	}
}

func TestRegistry_RunClosesOnCancel(t *testing.T) {
	reg := NewRegistry(time.Hour)
	r := newTestRunner(t, "x")
	reg.Put(r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	if reg.Len() != 0 {
		t.Errorf("expected registry emptied, got %d", reg.Len())
	}
}
