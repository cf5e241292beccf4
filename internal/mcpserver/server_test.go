package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/dagaz/internal/meetingservice"
	"github.com/starford/dagaz/internal/store"
	"github.com/starford/dagaz/internal/testutil"
)

func testServer(t *testing.T) (*Server, *meetingservice.Service) {
	t.Helper()
	db := testutil.TestDB(t)
	svc := meetingservice.NewService(db, nil, nil)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler functions
	// are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_meetings":
		result, err = srv.listMeetings(ctx, req)
	case "get_meeting":
		result, err = srv.getMeeting(ctx, req)
	case "get_transcript_data":
		result, err = srv.getTranscriptData(ctx, req)
	case "get_summary_status":
		result, err = srv.getSummaryStatus(ctx, req)
	case "search_transcripts":
		result, err = srv.searchTranscripts(ctx, req)
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

func TestListMeetings(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	r := callTool(t, srv, "list_meetings", map[string]interface{}{})
	if resultText(r) != "no meetings recorded" {
		t.Errorf("empty list = %q", resultText(r))
	}

	_ = svc.CreateMeeting(ctx, "m1", "Weekly standup")
	r = callTool(t, srv, "list_meetings", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Weekly standup") {
		t.Errorf("list = %q", resultText(r))
	}
}

func TestGetMeeting(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_ = svc.CreateMeeting(ctx, "m1", "Standup")
	_, _ = svc.AppendSegment(ctx, store.TranscriptSegment{MeetingID: "m1", Text: "hello", Timestamp: "t"})

	r := callTool(t, srv, "get_meeting", map[string]interface{}{"meeting_id": "m1"})
	if r.IsError {
		t.Fatalf("error: %q", resultText(r))
	}
	var m store.MeetingDetail
	if err := json.Unmarshal([]byte(resultText(r)), &m); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if m.Title != "Standup" || len(m.Transcripts) != 1 {
		t.Errorf("meeting = %+v", m)
	}
}

func TestGetMeetingMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_meeting", map[string]interface{}{"meeting_id": "ghost"})
	if !r.IsError {
		t.Error("expected error for missing meeting")
	}
}

func TestGetTranscriptData(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_ = svc.CreateMeeting(ctx, "m1", "Standup")
	_ = svc.SaveChunk(ctx, "m1", "accumulated text", "openai", "gpt-4o-mini", 1000, 100)

	// Buffer without a process row is not exposed.
	r := callTool(t, srv, "get_transcript_data", map[string]interface{}{"meeting_id": "m1"})
	if !r.IsError {
		t.Error("expected error before a process is registered")
	}

	_, _ = svc.CreateProcess(ctx, "m1")
	r = callTool(t, srv, "get_transcript_data", map[string]interface{}{"meeting_id": "m1"})
	if r.IsError {
		t.Fatalf("error: %q", resultText(r))
	}
	var td store.TranscriptData
	if err := json.Unmarshal([]byte(resultText(r)), &td); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if td.TranscriptText != "accumulated text" || td.Status != store.StatusPending {
		t.Errorf("transcript data = %+v", td)
	}
}

func TestGetSummaryStatus(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_, _ = svc.CreateProcess(ctx, "m1")
	_ = svc.UpdateProcess(ctx, "m1", store.ProcessUpdate{
		Status: store.StatusCompleted,
		Result: json.RawMessage(`{"summary":"ok"}`),
	})

	r := callTool(t, srv, "get_summary_status", map[string]interface{}{"meeting_id": "m1"})
	if r.IsError {
		t.Fatalf("error: %q", resultText(r))
	}
	var p store.SummaryProcess
	if err := json.Unmarshal([]byte(resultText(r)), &p); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if p.Status != store.StatusCompleted || p.Result == nil {
		t.Errorf("process = %+v", p)
	}
}

func TestSearchTranscripts(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_ = svc.CreateMeeting(ctx, "m1", "Roadmap")
	_, _ = svc.AppendSegment(ctx, store.TranscriptSegment{MeetingID: "m1", Text: "quarterly roadmap discussion", Timestamp: "t"})

	r := callTool(t, srv, "search_transcripts", map[string]interface{}{"query": "roadmap"})
	if r.IsError {
		t.Fatalf("error: %q", resultText(r))
	}
	if !strings.Contains(resultText(r), "m1") {
		t.Errorf("results = %q", resultText(r))
	}

	r = callTool(t, srv, "search_transcripts", map[string]interface{}{"query": "zzznothing"})
	if resultText(r) != "no matches" {
		t.Errorf("no-hit result = %q", resultText(r))
	}
}

func TestSummaryFormatResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readSummaryFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}
	if !strings.Contains(tc.Text, "summary") {
		t.Error("contract text missing summary field")
	}
}
