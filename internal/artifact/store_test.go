package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/halloran/voxnote/internal/apperr"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSaveAcceptedTypes(t *testing.T) {
	s := tempStore(t)
	for _, mimeType := range []string{"audio/mpeg", "audio/mp3", "audio/wav", "audio/x-wav"} {
		art, err := s.Save(strings.NewReader("payload"), mimeType, 7)
		if err != nil {
			t.Errorf("Save(%s): %v", mimeType, err)
			continue
		}
		if _, statErr := os.Stat(art.Path); statErr != nil {
			t.Errorf("Save(%s): file missing: %v", mimeType, statErr)
		}
		if art.Size != 7 {
			t.Errorf("Save(%s): size = %d, want 7", mimeType, art.Size)
		}
	}
}

func TestSaveRejectsUnknownType(t *testing.T) {
	s := tempStore(t)
	for _, mimeType := range []string{"video/mp4", "text/plain", "audio/ogg", ""} {
		_, err := s.Save(strings.NewReader("x"), mimeType, 1)
		if !errors.Is(err, apperr.ErrInvalidArtifact) {
			t.Errorf("Save(%s) error = %v, want ErrInvalidArtifact", mimeType, err)
		}
	}
	// Nothing should be written for rejected uploads.
	entries, _ := os.ReadDir(s.Root())
	if len(entries) != 0 {
		t.Errorf("upload dir has %d entries, want 0", len(entries))
	}
}

func TestSaveRejectsDeclaredOversize(t *testing.T) {
	s := tempStore(t)
	_, err := s.Save(strings.NewReader("x"), "audio/wav", MaxUploadBytes+1)
	if !errors.Is(err, apperr.ErrInvalidArtifact) {
		t.Fatalf("error = %v, want ErrInvalidArtifact", err)
	}
}

func TestSaveUsesCollisionResistantNames(t *testing.T) {
	s := tempStore(t)
	a, err := s.Save(strings.NewReader("one"), "audio/wav", 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(strings.NewReader("two"), "audio/wav", 3)
	if err != nil {
		t.Fatal(err)
	}
	if a.Path == b.Path {
		t.Errorf("two saves produced the same path: %s", a.Path)
	}
	if filepath.Ext(a.Path) != ".wav" {
		t.Errorf("ext = %q, want .wav", filepath.Ext(a.Path))
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := tempStore(t)
	art, err := s.Save(strings.NewReader("bye"), "audio/mpeg", 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(art.Path); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := s.Remove(art.Path); err != nil {
		t.Fatalf("second Remove should not error: %v", err)
	}
	if _, statErr := os.Stat(art.Path); !os.IsNotExist(statErr) {
		t.Error("artifact still present after Remove")
	}
}
