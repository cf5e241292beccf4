// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dagaz meeting data for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/meetingservice"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp *server.MCPServer
	svc *meetingservice.Service
}

// New creates a new MCP server with all Dagaz tools registered.
func New(svc *meetingservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_meetings",
		mcp.WithDescription("List all recorded meetings, newest first."),
	), s.listMeetings)

	s.mcp.AddTool(mcp.NewTool("get_meeting",
		mcp.WithDescription("Get a meeting with its full transcript segment log."),
		mcp.WithString("meeting_id", mcp.Required(), mcp.Description("Meeting id")),
	), s.getMeeting)

	s.mcp.AddTool(mcp.NewTool("get_transcript_data",
		mcp.WithDescription("Get the accumulated working transcript for a meeting together "+
			"with its summarization status and result. Only available once a "+
			"summarization process has been registered for the meeting."),
		mcp.WithString("meeting_id", mcp.Required(), mcp.Description("Meeting id")),
	), s.getTranscriptData)

	s.mcp.AddTool(mcp.NewTool("get_summary_status",
		mcp.WithDescription("Get the summarization process state for a meeting "+
			"(status, timings, error, result)."),
		mcp.WithString("meeting_id", mcp.Required(), mcp.Description("Meeting id")),
	), s.getSummaryStatus)

	s.mcp.AddTool(mcp.NewTool("search_transcripts",
		mcp.WithDescription("Full-text search across finalized transcript segments."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchTranscripts)

	// Resource: summary result contract.
	s.mcp.AddResource(
		mcp.NewResource("dagaz://summary-format", "Summary Result Contract",
			mcp.WithResourceDescription("Canonical JSON document shape expected in a summarization result."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSummaryFormatResource,
	)

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

func (s *Server) listMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meetings, err := s.svc.ListMeetings(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(meetings) == 0 {
		return mcp.NewToolResultText("no meetings recorded"), nil
	}
	var lines []string
	for _, m := range meetings {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", m.ID, m.Title, m.CreatedAt.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.svc.GetMeeting(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(m, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getTranscriptData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	td, err := s.svc.GetTranscriptData(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no transcript data for meeting %s", id)), nil
	}
	out, _ := json.MarshalIndent(td, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSummaryStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.GetProcess(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no summarization process for meeting %s", id)), nil
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchTranscripts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchTranscripts(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSummaryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dagaz://summary-format",
			MIMEType: "text/markdown",
			Text:     SummaryFormatContract,
		},
	}, nil
}
