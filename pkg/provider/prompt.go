package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// systemPrompt forces a strict JSON response so every backend parses the
// same way.
const systemPrompt = `You are a helpful internal policy assistant.
Use ONLY the provided Context to answer the User Question.
If sources are insufficient or conflicting, set escalate=true.
Return ONLY valid JSON with this schema:
{
  "answer": "string",
  "confidence": "High|Medium|Low",
  "escalate": boolean,
  "used_chunk_ids": ["string"],
  "reason": "optional string"
}`

// userMessage renders the candidate passages and question into the prompt's
// user turn.
func userMessage(req ComposeRequest) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	for _, c := range req.Candidates {
		fmt.Fprintf(&sb, "---\nDoc: %s\nPage: %d\nChunkID: %s\nContent: %s\n", c.DocTitle, c.PageStart, c.ChunkID, c.Quote)
	}
	fmt.Fprintf(&sb, "\nUser Question: %s", req.Question)
	return sb.String()
}

// parseResult decodes a model reply into a ComposeResult. Markdown code
// fences are stripped first. A reply that is not valid JSON degrades to a
// low-confidence escalation carrying the raw text, rather than an error:
// the model answered, it just ignored the schema.
func parseResult(content string) *ComposeResult {
	cleaned := stripFences(content)

	var result ComposeResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		raw := content
		if len(raw) > 500 {
			raw = raw[:500] + "..."
		}
		return &ComposeResult{
			Answer:     raw,
			Confidence: "Low",
			Escalate:   true,
			Reason:     "invalid JSON response",
		}
	}
	return &result
}

// stripFences unwraps a ```json ... ``` (or bare ```) code block.
func stripFences(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		rest := s[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}
