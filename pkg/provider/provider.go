// Package provider defines the pluggable answer-generation capability and
// its three variants: a deterministic mock, an OpenAI-compatible HTTP
// backend, and the Anthropic SDK. The variant is chosen once at process
// start and injected into the pipeline.
package provider

import "context"

// Candidate is one passage offered to the provider.
type Candidate struct {
	ChunkID   string
	DocTitle  string
	PageStart int
	Quote     string
}

// ComposeRequest asks the provider to answer a question from candidate
// passages. Candidates may be empty; providers must tolerate that.
type ComposeRequest struct {
	Question     string
	Candidates   []Candidate
	BestDistance float64
}

// ComposeResult is the provider's answer. UsedChunkIDs names the subset of
// candidate chunk ids the provider claims to have relied on; it may be
// empty or reference unknown ids (providers hallucinate), so callers must
// reconcile it against their own citations.
type ComposeResult struct {
	Answer       string   `json:"answer"`
	Confidence   string   `json:"confidence"` // "High", "Medium" or "Low"
	Escalate     bool     `json:"escalate"`
	UsedChunkIDs []string `json:"used_chunk_ids"`
	Reason       string   `json:"reason,omitempty"`
}

// Provider composes an answer from candidate passages. Implementations make
// a single attempt; callers own the fallback on failure.
type Provider interface {
	Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error)
}
