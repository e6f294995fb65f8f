// Package retrieval implements the lexical retrieval-and-confidence
// pipeline: scoring, citation assembly, conflict detection, answer
// composition and the escalation gate.
package retrieval

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// minWordLen is the minimum length of a question word that carries signal.
	minWordLen = 3
	// shortChunkLen is the content length, in characters, under which the
	// short-chunk penalty applies.
	shortChunkLen = 80
	// shortChunkPenalty is added to the distance of very short chunks.
	shortChunkPenalty = 0.08
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// QuestionWords returns the distinct lowercase alphanumeric runs of length
// >= 3 in the question. Repeated words count once.
func QuestionWords(question string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range nonAlnum.Split(strings.ToLower(question), -1) {
		if len(w) >= minWordLen {
			words[w] = struct{}{}
		}
	}
	return words
}

// Score computes the lexical relevance distance between a question and a
// chunk's content. 0 is perfect word coverage, 1 is none. A question with
// no qualifying words has no signal and scores 1.0. Containment is by
// substring, so short words can match inside longer ones; that is accepted
// behavior.
func Score(question, content string) float64 {
	words := QuestionWords(question)
	if len(words) == 0 {
		return 1.0
	}

	lower := strings.ToLower(content)
	hits := 0
	for w := range words {
		if strings.Contains(lower, w) {
			hits++
		}
	}

	distance := 1.0 - float64(hits)/float64(len(words))
	if utf8.RuneCountInString(content) < shortChunkLen {
		distance += shortChunkPenalty
	}
	return clamp(distance, 0, 1)
}

func clamp(n, lo, hi float64) float64 {
	return max(lo, min(hi, n))
}
