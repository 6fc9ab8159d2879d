// Package apperr defines the error taxonomy shared across the pipeline,
// store, and API layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals an unknown note identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArtifact signals a rejected upload (bad type, too large, missing).
	ErrInvalidArtifact = errors.New("invalid artifact")
	// ErrStorageUnavailable signals a persistence-layer fault, distinct from
	// a missing record.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ProcessError reports a failed external engine invocation. Stderr carries
// the engine's accumulated diagnostic output, trimmed.
type ProcessError struct {
	Name     string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode)
}
