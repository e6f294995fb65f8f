package retrieval

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/guideline/internal/model"
)

func candidate(id string, distance float64) Candidate {
	return Candidate{
		Chunk:    model.Chunk{ID: id, DocID: "doc-1", PageStart: 1, PageEnd: 1, Content: "content of " + id},
		Distance: distance,
	}
}

func TestAssembleCitations_SortsAndCaps(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("c%d", i), float64(9-i)/10))
	}

	citations := AssembleCitations(candidates, map[string]string{"doc-1": "Travel Policy"})

	require.Len(t, citations, 6)
	assert.True(t, sort.SliceIsSorted(citations, func(i, j int) bool {
		return citations[i].Distance < citations[j].Distance
	}))
	assert.Equal(t, "c9", citations[0].ChunkID)
	assert.Equal(t, "Travel Policy", citations[0].DocTitle)
}

func TestAssembleCitations_DropsNoMatch(t *testing.T) {
	citations := AssembleCitations([]Candidate{
		candidate("good", 0.2),
		candidate("borderline", 0.95),
		candidate("none", 1.0),
	}, nil)

	require.Len(t, citations, 1)
	assert.Equal(t, "good", citations[0].ChunkID)
	assert.Equal(t, "Unknown", citations[0].DocTitle)
}

func TestAssembleCitations_Empty(t *testing.T) {
	citations := AssembleCitations(nil, nil)
	assert.NotNil(t, citations)
	assert.Empty(t, citations)
	assert.Equal(t, 1.0, BestDistance(citations))
}

func TestAssembleCitations_RoundsDistance(t *testing.T) {
	citations := AssembleCitations([]Candidate{candidate("c", 0.123456)}, nil)
	require.Len(t, citations, 1)
	assert.Equal(t, 0.123, citations[0].Distance)
	assert.Equal(t, 0.123, BestDistance(citations))
}

func TestAssembleCitations_TruncatesQuote(t *testing.T) {
	long := strings.Repeat("x", 500)
	citations := AssembleCitations([]Candidate{{
		Chunk:    model.Chunk{ID: "c", DocID: "doc-1", Content: long},
		Distance: 0.1,
	}}, nil)
	require.Len(t, citations, 1)
	assert.Len(t, citations[0].Quote, 220)
}

func TestAssembleCitations_TruncatesOnRuneBoundary(t *testing.T) {
	// A multi-byte rune at position 220 must survive intact, not be cut
	// mid-encoding.
	long := strings.Repeat("x", 219) + "’" + strings.Repeat("y", 200)
	citations := AssembleCitations([]Candidate{{
		Chunk:    model.Chunk{ID: "c", DocID: "doc-1", Content: long},
		Distance: 0.1,
	}}, nil)
	require.Len(t, citations, 1)
	assert.True(t, utf8.ValidString(citations[0].Quote))
	assert.Equal(t, 220, utf8.RuneCountInString(citations[0].Quote))
	assert.True(t, strings.HasSuffix(citations[0].Quote, "’"))
}

func TestScoreChunks(t *testing.T) {
	chunks := []model.Chunk{
		{ID: "a", Content: "Meals are capped at $60/day, itemized receipt required. Extra words pad this past the penalty cutoff."},
		{ID: "b", Content: "Entirely unrelated text about the office dress code and nothing else, padded to avoid the length penalty."},
	}
	candidates := ScoreChunks("What is the meals limit?", chunks)
	require.Len(t, candidates, 2)
	assert.Less(t, candidates[0].Distance, candidates[1].Distance)
}
