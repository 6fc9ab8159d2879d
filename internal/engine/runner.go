// Package engine runs external transcription and summarization executables.
//
// Engines follow a fixed contract: one positional argument in (a file path
// or raw text), result on stdout, diagnostics on stderr, exit code 0 on
// success. Each invocation is exactly one process lifecycle; no retries.
package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/halloran/voxnote/internal/apperr"
)

// Result carries the full captured output of a completed invocation.
// Stdout and Stderr are trimmed of leading and trailing whitespace.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Outcome is the single resolution event of one invocation: either a Result
// or an error, never both.
type Outcome struct {
	Result Result
	Err    error
}

// Invoker abstracts engine execution so the pipeline can be tested without
// spawning real processes.
type Invoker interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Runner spawns engine processes with a wall-clock timeout.
type Runner struct {
	timeout time.Duration
	logger  *slog.Logger
}

// Verify Runner satisfies Invoker at compile time.
var _ Invoker = (*Runner)(nil)

// NewRunner creates a runner. A non-positive timeout disables the deadline.
func NewRunner(timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{timeout: timeout, logger: logger}
}

// Start spawns the process and returns a channel that delivers exactly one
// Outcome after the process terminates. The caller's goroutine is never
// blocked by process execution.
func (r *Runner) Start(ctx context.Context, name string, args ...string) <-chan Outcome {
	ch := make(chan Outcome, 1)

	go func() {
		runCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		started := time.Now()
		cmd := exec.CommandContext(runCtx, name, args...)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		elapsed := time.Since(started)

		if err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}

			detail := strings.TrimSpace(stderr.String())
			if ctxErr := runCtx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
				detail = "engine timed out after " + r.timeout.String()
			} else if detail == "" {
				detail = err.Error()
			}

			r.logger.Warn("engine failed",
				slog.String("engine", filepath.Base(name)),
				slog.Int("exit_code", exitCode),
				slog.Duration("elapsed", elapsed))

			ch <- Outcome{Err: &apperr.ProcessError{
				Name:     filepath.Base(name),
				ExitCode: exitCode,
				Stderr:   detail,
			}}
			return
		}

		r.logger.Debug("engine finished",
			slog.String("engine", filepath.Base(name)),
			slog.Duration("elapsed", elapsed))

		ch <- Outcome{Result: Result{
			Stdout:   strings.TrimSpace(stdout.String()),
			Stderr:   strings.TrimSpace(stderr.String()),
			ExitCode: 0,
		}}
	}()

	return ch
}

// Run is the blocking join over Start.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	out := <-r.Start(ctx, name, args...)
	return out.Result, out.Err
}
