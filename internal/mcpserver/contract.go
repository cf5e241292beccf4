package mcpserver

// SummaryFormatContract describes the JSON document shape that summarization
// workers are expected to store in a process result. Dagaz itself treats the
// result as opaque; this contract exists so LLM consumers reading results
// through MCP know what well-behaved workers produce.
const SummaryFormatContract = `# Dagaz Summary Result Contract

The ` + "`result`" + ` field of a summarization process is an opaque JSON document
owned by the summarization worker. Dagaz stores and returns it verbatim.
Well-behaved workers SHOULD produce the following shape so that readers can
rely on it:

` + "```" + `json
{
  "summary": "One-paragraph meeting summary.",
  "key_points": [
    "Decision or fact worth remembering"
  ],
  "action_items": [
    {"owner": "alice", "item": "Review the design doc", "due": "2025-03-21"}
  ],
  "participants": ["alice", "bob"]
}
` + "```" + `

## Rules

1. ` + "`summary`" + ` is the only field readers may assume is present.
2. ` + "`key_points`" + ` and ` + "`action_items`" + ` are arrays when present, never scalars.
3. Dates use ISO-8601 (` + "`YYYY-MM-DD`" + `).
4. Workers MUST NOT nest another JSON-encoded string inside ` + "`result`" + ` —
   store structured values directly.
5. Worker-specific extras belong in the process ` + "`metadata`" + ` document,
   not in ` + "`result`" + `.

Failed runs leave ` + "`result`" + ` null and report through the ` + "`error`" + ` field and
the FAILED status instead.
`
