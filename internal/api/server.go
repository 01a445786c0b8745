package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyayalink/lexdraft/internal/assistant"
	"github.com/nyayalink/lexdraft/internal/config"
	"github.com/nyayalink/lexdraft/internal/draft"
	"github.com/nyayalink/lexdraft/internal/session"
)

// Server is the HTTP API server for lexdraft.
type Server struct {
	router    chi.Router
	store     draft.Store
	handoff   *draft.Handoff
	sessions  *session.Registry
	assistant *assistant.Client
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(store draft.Store, sessions *session.Registry, ai *assistant.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:     store,
		handoff:   draft.NewHandoff(),
		sessions:  sessions,
		assistant: ai,
		log:       log,
		cfg:       cfg,
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

	// API endpoints; bearer auth only when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/documents", s.handleListDrafts)
		r.Delete("/api/documents/{draftID}", s.handleDeleteDraft)
		r.Get("/api/documents/{draftID}/download", s.handleDownloadDraft)
		r.Post("/api/documents/{draftID}/edit", s.handleEditDraft)

		r.Post("/api/sessions", s.handleCreateSession)
		r.Get("/api/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/api/sessions/{sessionID}", s.handleCancelSession)
		r.Put("/api/sessions/{sessionID}/fields", s.handleSetFields)
		r.Post("/api/sessions/{sessionID}/next", s.handleNextStep)
		r.Post("/api/sessions/{sessionID}/prev", s.handlePrevStep)
		r.Post("/api/sessions/{sessionID}/generate", s.handleGenerate)
		r.Post("/api/sessions/{sessionID}/return", s.handleReturnToForm)
		r.Put("/api/sessions/{sessionID}/document", s.handleSetDocument)
		r.Post("/api/sessions/{sessionID}/save", s.handleSaveDraft)
		r.Get("/api/sessions/{sessionID}/export.pdf", s.handleExportPDF)
		r.Post("/api/sessions/{sessionID}/details", s.handleImportDetails)

		r.Post("/api/chat", s.handleChat)
		r.Post("/api/generate", s.handleRemoteGenerate)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
