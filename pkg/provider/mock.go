package provider

import (
	"context"
	"fmt"
)

// Mock is a deterministic provider for tests and offline development. It
// answers from the top candidate and cites the best two chunk ids.
type Mock struct{}

// NewMock creates the mock provider.
func NewMock() *Mock { return &Mock{} }

// Compose implements Provider.
func (m *Mock) Compose(_ context.Context, req ComposeRequest) (*ComposeResult, error) {
	if len(req.Candidates) == 0 {
		return &ComposeResult{
			Answer:     "I couldn't find any information about that in the policy.",
			Confidence: "Low",
		}, nil
	}

	confidence := "High"
	if req.BestDistance > 0.4 {
		confidence = "Medium"
	}
	if req.BestDistance > 0.6 {
		confidence = "Low"
	}

	used := make([]string, 0, 2)
	for _, c := range req.Candidates[:min(2, len(req.Candidates))] {
		used = append(used, c.ChunkID)
	}

	return &ComposeResult{
		Answer:       fmt.Sprintf("Mock Answer: Based on %s, feature is available.", req.Candidates[0].DocTitle),
		Confidence:   confidence,
		UsedChunkIDs: used,
	}, nil
}
