// Package pipeline orchestrates the capture-to-note flow: artifact
// validation, transcription, summarization, note commit, and decoupled
// notification.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/halloran/voxnote/internal/artifact"
	"github.com/halloran/voxnote/internal/engine"
	"github.com/halloran/voxnote/internal/notestore"
	"github.com/halloran/voxnote/internal/notify"
)

// Defaults applied when the caller omits note metadata.
const (
	DefaultTitle    = "Untitled Meeting"
	DefaultEmail    = "anonymous@example.com"
	DefaultDuration = "N/A"
)

// SummarizeInput is the summarization entry point's payload. Only Text is
// required.
type SummarizeInput struct {
	Text     string
	Title    string
	Email    string
	Duration string
}

// Orchestrator sequences the pipeline stages. Each request owns its own
// artifact and invocation state; the only shared resource is the store.
type Orchestrator struct {
	artifacts   *artifact.Store
	runner      engine.Invoker
	notes       notestore.Store
	notifier    notify.Notifier
	transcriber string
	summarizer  string
	logger      *slog.Logger
}

// New creates an orchestrator bound to the given engines and collaborators.
func New(artifacts *artifact.Store, runner engine.Invoker, notes notestore.Store, notifier notify.Notifier, transcriber, summarizer string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		artifacts:   artifacts,
		runner:      runner,
		notes:       notes,
		notifier:    notifier,
		transcriber: transcriber,
		summarizer:  summarizer,
		logger:      logger,
	}
}

// Transcribe runs the transcription engine against the artifact and returns
// the transcript text. The artifact file is removed on every exit path;
// removal failures are logged, never escalated.
func (o *Orchestrator) Transcribe(ctx context.Context, art *artifact.Artifact) (string, error) {
	res, err := o.runner.Run(ctx, o.transcriber, art.Path)

	if rmErr := o.artifacts.Remove(art.Path); rmErr != nil {
		o.logger.Warn("transcribe: artifact cleanup failed",
			slog.String("path", art.Path),
			slog.String("error", rmErr.Error()))
	}

	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Summarize runs the summarization engine over the input text, commits the
// resulting note, and dispatches a notification in the background. The
// returned note is already persisted; notification failure never changes
// the outcome.
func (o *Orchestrator) Summarize(ctx context.Context, in SummarizeInput) (*notestore.Note, error) {
	res, err := o.runner.Run(ctx, o.summarizer, in.Text)
	if err != nil {
		return nil, err
	}

	note := &notestore.Note{
		Email:      defaultString(in.Email, DefaultEmail),
		Title:      defaultString(in.Title, DefaultTitle),
		Transcript: in.Text,
		Summary:    res.Stdout,
		Content:    res.Stdout,
		Duration:   defaultString(in.Duration, DefaultDuration),
		Score:      notestore.MinScore + rand.IntN(notestore.MaxScore-notestore.MinScore+1),
	}

	if err := o.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	o.logger.Info("pipeline: note persisted",
		slog.String("id", note.ID),
		slog.String("title", note.Title),
		slog.Int("score", note.Score))

	// Detached dispatch: the caller's response must not wait on delivery.
	go func() {
		if notifyErr := o.notifier.Notify(note.Email); notifyErr != nil {
			o.logger.Warn("pipeline: notification failed",
				slog.String("recipient", note.Email),
				slog.String("error", notifyErr.Error()))
		}
	}()

	return note, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
