// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes VoxNote tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halloran/voxnote/internal/notestore"
	"github.com/halloran/voxnote/internal/pipeline"
)

// Server wraps the MCP server with VoxNote tools.
type Server struct {
	mcp   *server.MCPServer
	notes notestore.Store
	orch  *pipeline.Orchestrator
}

// New creates a new MCP server with all VoxNote tools registered.
func New(notes notestore.Store, orch *pipeline.Orchestrator) *Server {
	s := &Server{notes: notes, orch: orch}

	s.mcp = server.NewMCPServer(
		"VoxNote",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all meeting notes, most recent first."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read one meeting note, including its transcript and summary."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Permanently delete a meeting note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("summarize_text",
		mcp.WithDescription("Summarize raw meeting text through the summarization engine "+
			"and persist the result as a new note."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Raw meeting text to summarize")),
		mcp.WithString("title", mcp.Description("Optional note title")),
	), s.summarizeText)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) summarizeText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := ""
	if v, vErr := req.RequireString("title"); vErr == nil {
		title = v
	}

	note, err := s.orch.Summarize(ctx, pipeline.SummarizeInput{Text: text, Title: title})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
