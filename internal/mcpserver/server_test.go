package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/halloran/voxnote/internal/artifact"
	"github.com/halloran/voxnote/internal/engine"
	"github.com/halloran/voxnote/internal/notestore"
	"github.com/halloran/voxnote/internal/pipeline"
)

type fakeInvoker struct{}

func (fakeInvoker) Run(_ context.Context, name string, args ...string) (engine.Result, error) {
	return engine.Result{Stdout: "summary of: " + args[0]}, nil
}

type fakeNotifier struct{}

func (fakeNotifier) Notify(string) error { return nil }

func testServer(t *testing.T) (*Server, *notestore.DB) {
	t.Helper()

	arts, err := artifact.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "voxnote-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	notes, err := notestore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { notes.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	orch := pipeline.New(arts, fakeInvoker{}, notes, fakeNotifier{}, "transcribe", "summarize", logger)

	return New(notes, orch), notes
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "summarize_text":
		result, err = srv.summarizeText(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSummarizeTextCreatesNote(t *testing.T) {
	srv, notes := testServer(t)

	res := callTool(t, srv, "summarize_text", map[string]interface{}{
		"text":  "weekly sync transcript",
		"title": "Weekly Sync",
	})
	if res.IsError {
		t.Fatalf("summarize_text errored: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Weekly Sync") {
		t.Errorf("result = %s", resultText(res))
	}

	stored, err := notes.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("len = %d, want 1", len(stored))
	}
	if stored[0].Summary != "summary of: weekly sync transcript" {
		t.Errorf("summary = %q", stored[0].Summary)
	}
}

func TestListAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	callTool(t, srv, "summarize_text", map[string]interface{}{"text": "alpha"})

	listRes := callTool(t, srv, "list_notes", nil)
	if listRes.IsError {
		t.Fatalf("list_notes errored: %s", resultText(listRes))
	}
	if !strings.Contains(resultText(listRes), "Untitled Meeting") {
		t.Errorf("list = %s", resultText(listRes))
	}
}

func TestReadNoteNotFound(t *testing.T) {
	srv, _ := testServer(t)

	res := callTool(t, srv, "read_note", map[string]interface{}{"id": "ghost"})
	if !res.IsError {
		t.Error("read_note for unknown id should report an error result")
	}
}

func TestDeleteNote(t *testing.T) {
	srv, notes := testServer(t)

	callTool(t, srv, "summarize_text", map[string]interface{}{"text": "to be deleted"})
	stored, _ := notes.List(context.Background())
	if len(stored) != 1 {
		t.Fatal("expected one note")
	}

	res := callTool(t, srv, "delete_note", map[string]interface{}{"id": stored[0].ID})
	if res.IsError {
		t.Fatalf("delete_note errored: %s", resultText(res))
	}

	stored, _ = notes.List(context.Background())
	if len(stored) != 0 {
		t.Error("note was not deleted")
	}
}
