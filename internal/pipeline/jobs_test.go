package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello world", "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}
	for _, tt := range tests {
		if got := ContentHashHex([]byte(tt.in)); got != tt.want {
			t.Errorf("ContentHashHex(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
	if ContentHashHex([]byte("<p>a</p>")) == ContentHashHex([]byte("<p>b</p>")) {
		t.Error("expected different bodies to hash differently")
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("j1", "draft.md", "My draft", []byte("# hi"))
	snap := job.Snapshot()
	if snap.Status != StatusQueued || snap.Phase != "queued" {
		t.Errorf("expected queued job, got %q/%q", snap.Status, snap.Phase)
	}
	if snap.Filename != "draft.md" || snap.Title != "My draft" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if string(job.FileData()) != "# hi" {
		t.Errorf("expected file data kept, got %q", job.FileData())
	}
	if job.CreatedAt.IsZero() || !job.CreatedAt.Equal(job.UpdatedAt) {
		t.Error("expected matching non-zero timestamps")
	}
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob("j2", "notes.txt", "", []byte("a b"))

	phases := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusBuilding, "building"},
		{StatusStoring, "storing"},
		{StatusCompleted, "done"},
	}
	for _, p := range phases {
		before := job.updatedAt()
		time.Sleep(time.Millisecond)
		job.SetStatus(p.status, p.phase)

		snap := job.Snapshot()
		if snap.Status != p.status || snap.Phase != p.phase {
			t.Errorf("expected %q/%q, got %q/%q", p.status, p.phase, snap.Status, snap.Phase)
		}
		if !job.updatedAt().After(before) {
			t.Errorf("expected UpdatedAt to advance on %q", p.status)
		}
	}

	job.SetCounts(1, 2)
	job.SetNoteID("01NOTE")
	job.SetContentHash("abc")
	snap := job.Snapshot()
	if snap.Progress.Paragraphs != 1 || snap.Progress.Words != 2 {
		t.Errorf("expected 1 paragraph and 2 words, got %+v", snap.Progress)
	}
	if snap.NoteID != "01NOTE" || snap.ContentHash != "abc" {
		t.Errorf("expected note id and hash in snapshot, got %+v", snap)
	}
}

func TestJob_Errors(t *testing.T) {
	job := NewJob("j3", "a.pdf", "", nil)
	if errs := job.Snapshot().Progress.Errors; errs == nil || len(errs) != 0 {
		t.Errorf("expected empty non-nil errors, got %v", errs)
	}

	job.AddError("parse: no text layer")
	snap := job.Snapshot()
	job.AddError("store: timeout")

	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected snapshot to be unaffected by later errors, got %v", snap.Progress.Errors)
	}
	if got := job.Snapshot().Progress.Errors; len(got) != 2 || got[1] != "store: timeout" {
		t.Errorf("expected both errors, got %v", got)
	}
}

func TestJobStore(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Put(NewJob("j4", "a.txt", "", nil))
	if store.Get("j4") == nil {
		t.Fatal("expected to get job back")
	}
	if store.Get("missing") != nil {
		t.Error("expected nil for missing job")
	}
	NewJobStore(time.Hour).Cleanup()
}

func TestJobStore_CleanupUsesLastUpdate(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	idle := NewJob("idle", "a.txt", "", nil)
	busy := NewJob("busy", "b.txt", "", nil)
	store.Put(idle)
	store.Put(busy)

	time.Sleep(80 * time.Millisecond)
	busy.SetStatus(StatusParsing, "parsing")
	store.Cleanup()

	if store.Get("idle") != nil {
		t.Error("expected idle job to be evicted")
	}
	if store.Get("busy") == nil {
		t.Error("expected recently updated job to survive")
	}
}
