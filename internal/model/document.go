package model

import "time"

// AccessLevel is a linear sensitivity tier gating which chunks a role may see.
type AccessLevel string

const (
	AccessPublic       AccessLevel = "public"
	AccessInternal     AccessLevel = "internal"
	AccessConfidential AccessLevel = "confidential"
	AccessRestricted   AccessLevel = "restricted"
)

// accessOrder lists levels from least to most sensitive. A role sees every
// level up to and including its own.
var accessOrder = []AccessLevel{
	AccessPublic,
	AccessInternal,
	AccessConfidential,
	AccessRestricted,
}

// AccessForRole maps a requester role to the set of access levels it may
// read. Unrecognized roles default to {public, internal}.
func AccessForRole(role string) []AccessLevel {
	for i, level := range accessOrder {
		if string(level) == role {
			out := make([]AccessLevel, i+1)
			copy(out, accessOrder[:i+1])
			return out
		}
	}
	return []AccessLevel{AccessPublic, AccessInternal}
}

// ChunkType classifies a chunk's content.
type ChunkType string

const (
	ChunkText  ChunkType = "text"
	ChunkTable ChunkType = "table"
)

// Document is one revision of a named policy. Documents sharing a PolicyKey
// are revisions of the same policy; only the one with the greatest effective
// date is queried.
type Document struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	PolicyKey     string      `json:"policyKey"`
	EffectiveDate string      `json:"effectiveDate"` // ISO date, lexicographically comparable
	Access        AccessLevel `json:"access"`
	Tags          []string    `json:"tags"`
	CreatedAt     time.Time   `json:"createdAt"`
	Chunks        []Chunk     `json:"chunks,omitempty"`
}

// Chunk is one ordered passage of a document. Access and EffectiveDate are
// copied from the parent document at creation time so query-time filtering
// needs no join.
type Chunk struct {
	ID            string      `json:"id"`
	DocID         string      `json:"docId"`
	ChunkIndex    int         `json:"chunkIndex"`
	Type          ChunkType   `json:"type"`
	PageStart     int         `json:"pageStart"`
	PageEnd       int         `json:"pageEnd"`
	Content       string      `json:"content"`
	Access        AccessLevel `json:"access"`
	EffectiveDate string      `json:"effectiveDate"`
}
