package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/notepen/internal/config"
	"github.com/dgallion1/notepen/internal/note"
	"github.com/dgallion1/notepen/internal/pipeline"
	"github.com/dgallion1/notepen/internal/session"
	"github.com/dgallion1/notepen/internal/store"
)

const testKey = "secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		NotepenAPIKey:  testKey,
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		ExportBasename: "draft",
	}
	ctx, cancel := context.WithCancel(context.Background())
	st := store.NewMemory()
	repo := note.NewRepository(st)
	orch := pipeline.NewOrchestrator(cfg, repo, log)
	orch.Start(ctx)
	sessions := session.NewRegistry(time.Hour)

	srv := httptest.NewServer(NewServer(ctx, orch, repo, st, sessions, log, cfg))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		orch.Stop()
	})
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+testKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong key", "Bearer nope"},
		{"wrong scheme", "Basic " + testKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/notes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestNotes_CRUD(t *testing.T) {
	srv := newTestServer(t)

	var errResp map[string]string
	if code := call(t, srv, http.MethodPost, "/api/notes", map[string]any{"title": "abc"}, &errResp); code != http.StatusBadRequest {
		t.Errorf("expected 400 for short title, got %d", code)
	}

	var created note.Note
	code := call(t, srv, http.MethodPost, "/api/notes", map[string]any{"title": "Morning pages", "body": "<p>hi</p>"}, &created)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if created.ID == "" || created.Header != "Morning pages" {
		t.Errorf("unexpected note %+v", created)
	}

	var list struct {
		Notes []note.Note `json:"notes"`
	}
	call(t, srv, http.MethodGet, "/api/notes", nil, &list)
	if len(list.Notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(list.Notes))
	}

	if code := call(t, srv, http.MethodDelete, "/api/notes/"+created.ID, nil, nil); code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", code)
	}
	if code := call(t, srv, http.MethodGet, "/api/notes/"+created.ID, nil, &errResp); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestSession_Flow(t *testing.T) {
	srv := newTestServer(t)

	var n note.Note
	call(t, srv, http.MethodPost, "/api/notes", map[string]any{"title": "Title", "body": "<p>hello world</p>"}, &n)

	var opened struct {
		SessionID string       `json:"session_id"`
		View      session.View `json:"view"`
	}
	if code := call(t, srv, http.MethodPost, "/api/notes/"+n.ID+"/sessions", nil, &opened); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if opened.View.Content != "<p>hello world</p>" {
		t.Errorf("expected note body in session, got %q", opened.View.Content)
	}
	base := "/api/sessions/" + opened.SessionID

	var v session.View
	call(t, srv, http.MethodPost, base+"/events", session.Event{Kind: session.EventSelect, Field: "content", Start: 0, End: 5}, &v)
	if v.Bubble.State != "active" {
		t.Fatalf("expected active bubble, got %q", v.Bubble.State)
	}
	call(t, srv, http.MethodPost, base+"/events", session.Event{Kind: session.EventClick, Button: session.ButtonBold}, &v)
	if v.Content != "<p><b>hello</b> world</p>" || !v.Bubble.Buttons.Bold {
		t.Errorf("expected bold applied, got %q buttons=%+v", v.Content, v.Bubble.Buttons)
	}

	var out session.Export
	if code := call(t, srv, http.MethodPost, base+"/export", map[string]string{"format": "markdown"}, &out); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if out.Text != "#Title#\n\n**hello** world" || out.Filename != "draft.txt" {
		t.Errorf("unexpected export %+v", out)
	}

	var bad struct {
		Error string       `json:"error"`
		View  session.View `json:"view"`
	}
	if code := call(t, srv, http.MethodPost, base+"/export", map[string]string{"format": ""}, &bad); code != http.StatusBadRequest {
		t.Errorf("expected 400 without format, got %d", code)
	}
	if !bad.View.ExportError {
		t.Error("expected export_error in view")
	}

	var committed note.Note
	if code := call(t, srv, http.MethodPost, base+"/commit", nil, &committed); code != http.StatusOK {
		t.Fatalf("expected 200 on commit, got %d", code)
	}
	if committed.Body != "<p><b>hello</b> world</p>" {
		t.Errorf("expected committed body, got %q", committed.Body)
	}

	var errResp map[string]string
	if code := call(t, srv, http.MethodPost, base+"/events", session.Event{Kind: "drag"}, &errResp); code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown event, got %d", code)
	}

	if code := call(t, srv, http.MethodDelete, base, nil, nil); code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", code)
	}
	if code := call(t, srv, http.MethodGet, base, nil, &errResp); code != http.StatusNotFound {
		t.Errorf("expected 404 after close, got %d", code)
	}
}

func TestSession_Preview(t *testing.T) {
	srv := newTestServer(t)
	var n note.Note
	call(t, srv, http.MethodPost, "/api/notes", map[string]any{"title": "Title", "body": "<p><b>bold</b> move</p>"}, &n)
	var opened struct {
		SessionID string `json:"session_id"`
	}
	call(t, srv, http.MethodPost, "/api/notes/"+n.ID+"/sessions", nil, &opened)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/sessions/"+opened.SessionID+"/preview", nil)
	req.Header.Set("Authorization", "Bearer "+testKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<strong>bold</strong>") {
		t.Errorf("expected rendered markdown, got %q", body)
	}
}

func TestConvert(t *testing.T) {
	srv := newTestServer(t)

	var out struct {
		Text string `json:"text"`
	}
	req := map[string]string{"format": "plain", "header": "Title\n", "body": "<p>one</p><p>two</p>"}
	if code := call(t, srv, http.MethodPost, "/api/convert", req, &out); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if out.Text != "Title\none\ntwo" {
		t.Errorf("expected plain text, got %q", out.Text)
	}

	var errResp map[string]string
	if code := call(t, srv, http.MethodPost, "/api/convert", map[string]string{"format": "rtf"}, &errResp); code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", code)
	}
}

func TestImport(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "journal.txt")
	fw.Write([]byte("first paragraph\n\nsecond one"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/import", &buf)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	json.NewDecoder(resp.Body).Decode(&accepted)
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	var snap pipeline.JobSnapshot
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		call(t, srv, http.MethodGet, "/api/import/"+accepted.JobID+"/status", nil, &snap)
		if snap.Status == pipeline.StatusCompleted || snap.Status == pipeline.StatusFailed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("expected completed, got %q (%v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Paragraphs != 2 {
		t.Errorf("expected 2 paragraphs, got %d", snap.Progress.Paragraphs)
	}

	var n note.Note
	if code := call(t, srv, http.MethodGet, "/api/notes/"+snap.NoteID, nil, &n); code != http.StatusOK {
		t.Fatalf("expected imported note, got %d", code)
	}
	if n.Body != "<p>first paragraph</p><p>second one</p>" {
		t.Errorf("unexpected body %q", n.Body)
	}
}

func TestImport_UnsupportedType(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "sheet.xlsx")
	fw.Write([]byte("x"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/import", &buf)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"notes.md", "notes.md"},
		{"../../etc/passwd", "passwd"},
		{"a..b.txt", "a_b.txt"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
