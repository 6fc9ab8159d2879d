// Package artifact manages transient storage for uploaded audio payloads.
//
// Artifacts are write-once: the pipeline saves an upload, hands its path to
// the transcription engine, and removes it as soon as that stage finishes.
// The sweeper collects anything left behind by crashed requests.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/halloran/voxnote/internal/apperr"
)

// MaxUploadBytes is the upload size ceiling.
const MaxUploadBytes = 50 << 20 // 50 MiB

// allowedTypes maps accepted MIME types to the file extension used on disk.
var allowedTypes = map[string]string{
	"audio/mpeg":  ".mp3",
	"audio/mp3":   ".mp3",
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
}

// Artifact is a handle to one stored upload. It is owned exclusively by the
// pipeline run that created it.
type Artifact struct {
	Path string
	MIME string
	Size int64
}

// Store writes and removes transient artifact files under a single root
// directory.
type Store struct {
	root string
}

// NewStore creates the upload directory if absent and returns a store
// rooted there.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("artifact: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create upload dir: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute upload directory path.
func (s *Store) Root() string {
	return s.root
}

// Save validates the upload against the MIME allow-list and size ceiling,
// then writes it under a collision-resistant name. The returned handle
// carries the absolute path on disk.
func (s *Store) Save(r io.Reader, mimeType string, declaredSize int64) (*Artifact, error) {
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", apperr.ErrInvalidArtifact, mimeType)
	}
	if declaredSize > MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d byte limit", apperr.ErrInvalidArtifact, declaredSize, MaxUploadBytes)
	}

	abs := filepath.Join(s.root, uuid.NewString()+ext)

	dst, err := os.Create(abs)
	if err != nil {
		return nil, fmt.Errorf("artifact: create %s: %w", abs, err)
	}

	// Guard against a lying Content-Length: copy at most one byte past the
	// ceiling and reject if it arrives.
	written, err := io.Copy(dst, io.LimitReader(r, MaxUploadBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(abs)
		return nil, fmt.Errorf("artifact: write %s: %w", abs, err)
	}
	if written > MaxUploadBytes {
		_ = os.Remove(abs)
		return nil, fmt.Errorf("%w: payload exceeds %d byte limit", apperr.ErrInvalidArtifact, MaxUploadBytes)
	}

	return &Artifact{Path: abs, MIME: mimeType, Size: written}, nil
}

// Remove deletes an artifact file. Removal is idempotent: a missing file is
// treated as success so cleanup can run on every exit path.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("artifact: remove %s: %w", path, err)
	}
	return nil
}
