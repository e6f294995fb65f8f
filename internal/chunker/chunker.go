// Package chunker splits raw policy text into ordered, typed passages.
package chunker

import (
	"iter"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/sells-group/guideline/internal/model"
)

// blankLine separates segments: a newline, optional whitespace, newline.
var blankLine = regexp.MustCompile(`\n\s*\n`)

// markdownTable matches a pipe-delimited header row immediately followed by
// a separator row of pipes, dashes, colons and whitespace.
var markdownTable = regexp.MustCompile(`(?m)^\|.*\|[ \t]*\n\|[-:|\s]+\|`)

// Segment is one blank-line-delimited passage of a document.
type Segment struct {
	Index   int
	Type    model.ChunkType
	Content string
}

// Segments yields the trimmed, non-empty segments of content in source
// order. The sequence is lazy and restartable: ranging over it again
// re-splits from the start. Segments are never merged or re-split later.
func Segments(content string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		idx := 0
		for _, part := range blankLine.Split(content, -1) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			s := Segment{Index: idx, Type: model.ChunkText, Content: part}
			if markdownTable.MatchString(part) {
				s.Type = model.ChunkTable
			}
			if !yield(s) {
				return
			}
			idx++
		}
	}
}

// Split materializes the segments of content as chunks of the given
// document, indexed 0..n-1. Access and effective date are denormalized onto
// each chunk. Every chunk gets pages 1-1; page-aware ingestion paths assign
// real pages themselves.
func Split(docID, content string, access model.AccessLevel, effectiveDate string) []model.Chunk {
	var chunks []model.Chunk
	for seg := range Segments(content) {
		chunks = append(chunks, model.Chunk{
			ID:            uuid.New().String(),
			DocID:         docID,
			ChunkIndex:    seg.Index,
			Type:          seg.Type,
			PageStart:     1,
			PageEnd:       1,
			Content:       seg.Content,
			Access:        access,
			EffectiveDate: effectiveDate,
		})
	}
	return chunks
}
