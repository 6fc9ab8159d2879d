package notify

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestNotifyDisabledIsNoOp(t *testing.T) {
	m := NewMailer(false, "", 0, "", "", "", testLogger())
	if err := m.Notify("someone@example.com"); err != nil {
		t.Fatalf("disabled mailer should not error: %v", err)
	}
}

func TestNotifyEnabledRejectsEmptyRecipient(t *testing.T) {
	m := NewMailer(true, "localhost", 2525, "", "", "noreply@example.com", testLogger())
	if err := m.Notify(""); err == nil {
		t.Fatal("empty recipient should error")
	}
}

func TestBodyReferencesInlineAsset(t *testing.T) {
	if !strings.Contains(bodyHTML, "cid:logo.png") {
		t.Error("body should reference the embedded logo by content id")
	}
	if len(logoPNG) == 0 {
		t.Error("embedded logo asset is empty")
	}
}
