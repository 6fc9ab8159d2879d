package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halloran/voxnote/internal/apperr"
	"github.com/halloran/voxnote/internal/artifact"
	"github.com/halloran/voxnote/internal/notestore"
	"github.com/halloran/voxnote/internal/pipeline"
)

const maxUploadBytes = artifact.MaxUploadBytes

// Handler holds API route handlers.
type Handler struct {
	artifacts *artifact.Store
	orch      *pipeline.Orchestrator
	notes     notestore.Store
}

// NewHandler creates a new Handler.
func NewHandler(artifacts *artifact.Store, orch *pipeline.Orchestrator, notes notestore.Store) *Handler {
	return &Handler{artifacts: artifacts, orch: orch, notes: notes}
}

// Upload handles POST /api/upload (multipart/form-data, field "audio").
// On success it responds with the transcript; the transient artifact is
// removed by the pipeline regardless of outcome.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("No audio file uploaded"))
		return
	}
	defer file.Close()

	art, err := h.artifacts.Save(file, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transcript, err := h.orch.Transcribe(r.Context(), art)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TranscriptionResponse{Transcription: transcript, Success: true})
}

// Summarize handles POST /api/summarize. The caller supplies raw text
// directly; this entry point shares the pipeline tail with uploads but is
// otherwise independent.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("No text provided"))
		return
	}

	note, err := h.orch.Summarize(r.Context(), pipeline.SummarizeInput{
		Text:     req.Text,
		Title:    req.Title,
		Email:    req.Email,
		Duration: req.Duration,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SummarizeResponse{
		Success: true,
		Summary: note.Summary,
		Message: "Note created successfully",
	})
}

// ListNotes handles GET /api/notes, most recent creation first.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /api/notes/{id}. Only title and content are
// mutable after creation.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == nil && req.Content == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("title or content is required"))
		return
	}

	note, err := h.notes.Update(r.Context(), chi.URLParam(r, "id"), notestore.UpdateFields{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}. Deletion is permanent.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}

// writeError translates the error taxonomy into the stable response shape.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var procErr *apperr.ProcessError

	switch {
	case errors.Is(err, apperr.ErrInvalidArtifact):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
	case errors.As(err, &procErr):
		writeJSON(w, http.StatusInternalServerError,
			errorDetailBody(procErr.Name+" failed", procErr.Stderr))
	case errors.Is(err, apperr.ErrStorageUnavailable):
		slog.Error("storage fault", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("storage unavailable"))
	default:
		slog.Error("unhandled error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
