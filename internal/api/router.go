package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/halloran/voxnote/internal/artifact"
	"github.com/halloran/voxnote/internal/notestore"
	"github.com/halloran/voxnote/internal/pipeline"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(artifacts *artifact.Store, orch *pipeline.Orchestrator, notes notestore.Store, authEnabled bool, token string) chi.Router {
	h := NewHandler(artifacts, orch, notes)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Pipeline entry points.
	r.Post("/upload", h.Upload)
	r.Post("/summarize", h.Summarize)

	// Notes collection.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	return r
}
