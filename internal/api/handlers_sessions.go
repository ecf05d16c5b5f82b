package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/notepen/internal/convert"
	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/note"
	"github.com/dgallion1/notepen/internal/session"
	"github.com/dgallion1/notepen/internal/store"
	"github.com/go-chi/chi/v5"
)

func sessionStore(st store.Store, noteID string) store.Store {
	return store.Namespace(st, "sessions/"+noteID+"/")
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	n, err := s.notes.Get(r.Context(), noteID)
	if err != nil {
		s.noteError(w, "open session", err)
		return
	}

	id := note.NewID()
	log := s.log.With("session_id", id, "note_id", noteID)
	sess, err := session.New(r.Context(), n.Header, n.Body, session.Options{
		Store:  sessionStore(s.store, noteID),
		Logger: log,
		Timings: session.Timings{
			Fade:           s.cfg.FadeDelay,
			ScrollThrottle: s.cfg.ScrollThrottle,
			LinkInput:      s.cfg.LinkInputDelay,
		},
		ExportBasename: s.cfg.ExportBasename,
		Goal:           n.Goal,
		DarkLayout:     n.DarkLayout,
	})
	if err != nil {
		log.Error("create session", "error", err)
		jsonError(w, "create session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	runner := session.NewRunner(s.baseCtx, id, sess)
	runner.NoteID = noteID
	s.sessions.Put(runner)
	log.Info("session opened")

	v, err := runner.View(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": id,
		"note_id":    noteID,
		"view":       v,
	})
}

// runner resolves the session in the URL or writes a 404.
func (s *Server) runner(w http.ResponseWriter, r *http.Request) *session.Runner {
	id := chi.URLParam(r, "sessionID")
	rn := s.sessions.Get(id)
	if rn == nil {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return rn
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	rn := s.runner(w, r)
	if rn == nil {
		return
	}
	v, err := rn.View(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	rn := s.runner(w, r)
	if rn == nil {
		return
	}
	var ev session.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	v, err := rn.Dispatch(r.Context(), ev)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type exportRequest struct {
	Format string `json:"format"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rn := s.runner(w, r)
	if rn == nil {
		return
	}
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	out, v, err := rn.Export(r.Context(), req.Format)
	switch {
	case errors.Is(err, convert.ErrNoFormat), errors.Is(err, convert.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": err.Error(),
			"view":  v,
		})
	case err != nil:
		s.sessionError(w, err)
	default:
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rn := s.runner(w, r)
	if rn == nil {
		return
	}
	out, _, err := rn.Export(r.Context(), string(convert.Markdown))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	page, err := convert.RenderPreview(out.Text)
	if err != nil {
		s.log.Error("render preview", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// handleCommit copies the session's document, goal and theme into its note.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	rn := s.runner(w, r)
	if rn == nil {
		return
	}
	var header, body, title string
	var v session.View
	err := rn.Do(r.Context(), func(sess *session.Session) error {
		doc := sess.Document()
		header = doc.Markup(doctree.FieldHeader)
		body = doc.Markup(doctree.FieldContent)
		title = doctree.VisibleText(doc.Header)
		v = sess.View()
		return nil
	})
	if err != nil {
		s.sessionError(w, err)
		return
	}
	n, err := s.notes.Get(r.Context(), rn.NoteID)
	if err != nil {
		s.noteError(w, "commit session", err)
		return
	}
	if t := strings.TrimSpace(title); t != "" {
		n.Title = t
	}
	n.Header = header
	n.Body = body
	n.Goal = v.Progress.Goal
	n.DarkLayout = v.DarkLayout
	if err := s.notes.Save(r.Context(), n); err != nil {
		s.noteError(w, "commit session", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// sessionError maps session failures onto status codes.
func (s *Server) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		jsonError(w, err.Error(), http.StatusGone)
	case errors.Is(err, session.ErrUnknownEvent),
		errors.Is(err, session.ErrUnknownButton),
		errors.Is(err, doctree.ErrUnknownField),
		errors.Is(err, doctree.ErrOffsetOutOfRange):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("session", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
