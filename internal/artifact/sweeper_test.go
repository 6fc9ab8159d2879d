package artifact

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestSweepRemovesStaleFiles(t *testing.T) {
	s := tempStore(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	stale := filepath.Join(s.Root(), "stale.wav")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Sweep(ctx, time.Hour, 50*time.Millisecond, logger)
	}()

	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		_, err := os.Stat(stale)
		return os.IsNotExist(err)
	}, "stale file was not swept")

	cancel()
	<-done
}

func TestSweepKeepsFreshFiles(t *testing.T) {
	s := tempStore(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fresh := filepath.Join(s.Root(), "fresh.mp3")
	if err := os.WriteFile(fresh, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Sweep(ctx, time.Hour, 50*time.Millisecond, logger)
	}()

	time.Sleep(200 * time.Millisecond)
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file should survive sweeping: %v", err)
	}

	cancel()
	<-done
}
