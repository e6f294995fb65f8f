package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/guideline/internal/model"
)

const samplePolicy = `Travel Policy (2025)

Allowed Transportation
- Flights: economy is default. Upgrades require manager approval.
- Ground: rideshare allowed for airport transit.

Expense Limits (Table)
| Category | Limit | Notes |
|---|---:|---|
| Meals | $60/day | Itemized receipt required |
| Hotel | $220/night | Exceptions need approval |

Receipts
- All expenses above $25 require a receipt.`

func TestSegments_SplitsOnBlankLines(t *testing.T) {
	var got []Segment
	for seg := range Segments(samplePolicy) {
		got = append(got, seg)
	}

	require.Len(t, got, 4)
	assert.Equal(t, "Travel Policy (2025)", got[0].Content)
	for i, seg := range got {
		assert.Equal(t, i, seg.Index)
		assert.NotEmpty(t, seg.Content)
		assert.Equal(t, strings.TrimSpace(seg.Content), seg.Content)
	}
}

func TestSegments_TableClassification(t *testing.T) {
	var types []model.ChunkType
	for seg := range Segments(samplePolicy) {
		types = append(types, seg.Type)
	}
	assert.Equal(t, []model.ChunkType{
		model.ChunkText, model.ChunkText, model.ChunkTable, model.ChunkText,
	}, types)
}

func TestSegments_Restartable(t *testing.T) {
	seq := Segments(samplePolicy)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, count(), count())
}

func TestSegments_EarlyBreak(t *testing.T) {
	var first *Segment
	for seg := range Segments(samplePolicy) {
		first = &seg
		break
	}
	require.NotNil(t, first)
	assert.Equal(t, 0, first.Index)
}

func TestSegments_EmptyAndWhitespace(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\n\n", "\n  \n\t\n"} {
		n := 0
		for range Segments(content) {
			n++
		}
		assert.Zero(t, n, "content %q should yield no segments", content)
	}
}

func TestSegments_SeparatorWithoutHeaderIsText(t *testing.T) {
	// A separator row alone is not a table.
	for seg := range Segments("|---|---|") {
		assert.Equal(t, model.ChunkText, seg.Type)
	}
	// Header directly above separator is.
	for seg := range Segments("| a | b |\n|---|---|") {
		assert.Equal(t, model.ChunkTable, seg.Type)
	}
}

func TestSplit(t *testing.T) {
	chunks := Split("doc-1", samplePolicy, model.AccessInternal, "2025-01-01")

	require.Len(t, chunks, 4)
	seen := map[string]bool{}
	for i, c := range chunks {
		assert.Equal(t, "doc-1", c.DocID)
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, 1, c.PageStart)
		assert.Equal(t, 1, c.PageEnd)
		assert.LessOrEqual(t, c.PageStart, c.PageEnd)
		assert.Equal(t, model.AccessInternal, c.Access)
		assert.Equal(t, "2025-01-01", c.EffectiveDate)
		assert.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "chunk ids must be unique")
		seen[c.ID] = true
	}
	assert.Equal(t, model.ChunkTable, chunks[2].Type)
}
