package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	req := ComposeRequest{
		Question: "What is the meal limit?",
		Candidates: []Candidate{
			{ChunkID: "chunk-1", DocTitle: "Travel Policy", PageStart: 2, Quote: "Meal limit is $60/day."},
			{ChunkID: "chunk-2", DocTitle: "Expense Policy", PageStart: 5, Quote: "Receipts required above $25."},
		},
	}

	msg := userMessage(req)
	assert.Contains(t, msg, "Doc: Travel Policy")
	assert.Contains(t, msg, "Page: 2")
	assert.Contains(t, msg, "ChunkID: chunk-1")
	assert.Contains(t, msg, "Meal limit is $60/day.")
	assert.Contains(t, msg, "User Question: What is the meal limit?")
	assert.Less(t, strings.Index(msg, "chunk-1"), strings.Index(msg, "chunk-2"))
}

func TestParseResult_ValidJSON(t *testing.T) {
	result := parseResult(`{"answer":"Meals are capped at $60/day.","confidence":"High","escalate":false,"used_chunk_ids":["chunk-1"]}`)
	require.NotNil(t, result)
	assert.Equal(t, "Meals are capped at $60/day.", result.Answer)
	assert.Equal(t, "High", result.Confidence)
	assert.False(t, result.Escalate)
	assert.Equal(t, []string{"chunk-1"}, result.UsedChunkIDs)
}

func TestParseResult_FencedJSON(t *testing.T) {
	content := "```json\n{\"answer\":\"ok\",\"confidence\":\"Medium\",\"escalate\":true,\"used_chunk_ids\":[]}\n```"
	result := parseResult(content)
	assert.Equal(t, "ok", result.Answer)
	assert.Equal(t, "Medium", result.Confidence)
	assert.True(t, result.Escalate)
}

func TestParseResult_BareFence(t *testing.T) {
	content := "```\n{\"answer\":\"ok\",\"confidence\":\"Low\"}\n```"
	result := parseResult(content)
	assert.Equal(t, "ok", result.Answer)
	assert.Equal(t, "Low", result.Confidence)
}

func TestParseResult_InvalidJSONDegradesToEscalation(t *testing.T) {
	result := parseResult("The meal limit is sixty dollars per day.")
	assert.Equal(t, "The meal limit is sixty dollars per day.", result.Answer)
	assert.Equal(t, "Low", result.Confidence)
	assert.True(t, result.Escalate)
	assert.Equal(t, "invalid JSON response", result.Reason)
}

func TestParseResult_InvalidJSONTruncatesLongReplies(t *testing.T) {
	long := strings.Repeat("a", 600)
	result := parseResult(long)
	assert.Len(t, result.Answer, 503)
	assert.True(t, strings.HasSuffix(result.Answer, "..."))
}

func TestStripFences_NoFence(t *testing.T) {
	assert.Equal(t, `{"answer":"x"}`, stripFences("  {\"answer\":\"x\"}\n"))
}

func TestStripFences_UnterminatedFence(t *testing.T) {
	assert.Equal(t, `{"answer":"x"}`, stripFences("```json\n{\"answer\":\"x\"}"))
}
