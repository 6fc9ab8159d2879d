package api

import "github.com/halloran/voxnote/internal/notestore"

// TranscriptionResponse is returned by the upload entry point.
type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
	Success       bool   `json:"success"`
}

// SummarizeRequest is the body of the summarization entry point. Only Text
// is required; omitted fields receive pipeline defaults.
type SummarizeRequest struct {
	Text     string `json:"text"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// SummarizeResponse is returned after a successful summarization run.
type SummarizeResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
	Message string `json:"message"`
}

// UpdateNoteRequest is the point-update body; nil fields are left untouched.
type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Note is the API representation of a stored note.
type Note = notestore.Note
