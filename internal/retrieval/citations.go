package retrieval

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/sells-group/guideline/internal/model"
)

const (
	// maxCitations bounds the citation list both before and after the
	// no-match filter.
	maxCitations = 6
	// noMatchDistance is the distance at or above which a chunk is treated
	// as "no match" and excluded from citations.
	noMatchDistance = 0.95
	// quoteLen bounds the quote carried on a citation, in characters.
	quoteLen = 220
)

// Candidate pairs a chunk with its computed distance for one question.
// Candidates are ephemeral; they are never persisted.
type Candidate struct {
	Chunk    model.Chunk
	Distance float64
}

// ScoreChunks scores every chunk against the question.
func ScoreChunks(question string, chunks []model.Chunk) []Candidate {
	candidates := make([]Candidate, len(chunks))
	for i, c := range chunks {
		candidates[i] = Candidate{Chunk: c, Distance: Score(question, c.Content)}
	}
	return candidates
}

// AssembleCitations ranks candidates ascending by distance, keeps the best
// six, drops those at or above the no-match threshold, and projects the
// rest into display-ready citations with truncated quotes and distances
// rounded to 3 decimals. titles maps document id to title.
func AssembleCitations(candidates []Candidate, titles map[string]string) []model.Citation {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})

	if len(sorted) > maxCitations {
		sorted = sorted[:maxCitations]
	}

	citations := make([]model.Citation, 0, len(sorted))
	for _, cand := range sorted {
		if cand.Distance >= noMatchDistance {
			continue
		}
		title, ok := titles[cand.Chunk.DocID]
		if !ok {
			title = "Unknown"
		}
		citations = append(citations, model.Citation{
			ChunkID:   cand.Chunk.ID,
			DocID:     cand.Chunk.DocID,
			DocTitle:  title,
			PageStart: cand.Chunk.PageStart,
			PageEnd:   cand.Chunk.PageEnd,
			Quote:     truncate(cand.Chunk.Content, quoteLen),
			Distance:  round3(cand.Distance),
		})
	}
	return citations
}

// BestDistance is the first citation's rounded distance, or 1.0 when no
// citations survived.
func BestDistance(citations []model.Citation) float64 {
	if len(citations) == 0 {
		return 1.0
	}
	return citations[0].Distance
}

// truncate keeps the first n characters, never cutting mid-rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
