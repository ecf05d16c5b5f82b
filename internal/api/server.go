package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/notepen/internal/config"
	"github.com/dgallion1/notepen/internal/note"
	"github.com/dgallion1/notepen/internal/pipeline"
	"github.com/dgallion1/notepen/internal/session"
	"github.com/dgallion1/notepen/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for notepen.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	notes        *note.Repository
	store        store.Store
	sessions     *session.Registry
	log          *slog.Logger
	cfg          config.Config

	// baseCtx outlives requests; session loops run under it.
	baseCtx context.Context
}

// NewServer creates and configures the HTTP server.
func NewServer(ctx context.Context, orch *pipeline.Orchestrator, notes *note.Repository, st store.Store, sessions *session.Registry, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		notes:        notes,
		store:        st,
		sessions:     sessions,
		log:          log,
		cfg:          cfg,
		baseCtx:      ctx,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.NotepenAPIKey, s.log))

		r.Route("/api/notes", func(r chi.Router) {
			r.Post("/", s.handleCreateNote)
			r.Get("/", s.handleListNotes)
			r.Get("/{noteID}", s.handleGetNote)
			r.Delete("/{noteID}", s.handleDeleteNote)
			r.Post("/{noteID}/sessions", s.handleOpenSession)
		})

		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleCloseSession)
			r.Post("/events", s.handleEvent)
			r.Post("/export", s.handleExport)
			r.Get("/preview", s.handlePreview)
			r.Post("/commit", s.handleCommit)
		})

		r.Post("/api/convert", s.handleConvert)

		r.Post("/api/import", s.handleImport)
		r.Post("/api/import/batch", s.handleBatchImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"sessions":    s.sessions.Len(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
