package api

import (
	"encoding/json"
	"errors"
	"html"
	"net/http"

	"github.com/dgallion1/notepen/internal/note"
	"github.com/go-chi/chi/v5"
)

type noteRequest struct {
	Title      string `json:"title"`
	Header     string `json:"header"`
	Body       string `json:"body"`
	Goal       int    `json:"goal"`
	DarkLayout bool   `json:"dark_layout"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	n := &note.Note{
		Title:      req.Title,
		Header:     req.Header,
		Body:       req.Body,
		Goal:       max(req.Goal, 0),
		DarkLayout: req.DarkLayout,
	}
	if n.Header == "" {
		n.Header = html.EscapeString(n.Title)
	}
	if err := s.notes.Save(r.Context(), n); err != nil {
		s.noteError(w, "save note", err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.notes.List(r.Context())
	if err != nil {
		s.noteError(w, "list notes", err)
		return
	}
	if notes == nil {
		notes = []*note.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.Get(r.Context(), chi.URLParam(r, "noteID"))
	if err != nil {
		s.noteError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if err := s.notes.Delete(r.Context(), noteID); err != nil {
		s.noteError(w, "delete note", err)
		return
	}

	// Drop the editor state saved for this note.
	ns := sessionStore(s.store, noteID)
	keys, err := ns.List(r.Context(), "")
	if err != nil {
		s.log.Warn("list session state", "note_id", noteID, "error", err)
	}
	for _, k := range keys {
		if err := ns.Delete(r.Context(), k); err != nil {
			s.log.Warn("delete session state", "note_id", noteID, "key", k, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// noteError maps repository errors onto status codes.
func (s *Server) noteError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, note.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case note.IsValidationError(err):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error(op, "error", err)
		jsonError(w, op+": "+err.Error(), http.StatusInternalServerError)
	}
}
