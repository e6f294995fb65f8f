package model

// Confidence labels how well the retrieved passages cover a question.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// confidenceRank orders labels from best to worst.
var confidenceRank = map[Confidence]int{
	ConfidenceHigh:   0,
	ConfidenceMedium: 1,
	ConfidenceLow:    2,
}

// WorseThan reports whether c is a strictly worse label than other.
// Unknown labels rank worst.
func (c Confidence) WorseThan(other Confidence) bool {
	cr, ok := confidenceRank[c]
	if !ok {
		cr = len(confidenceRank)
	}
	or, ok := confidenceRank[other]
	if !ok {
		or = len(confidenceRank)
	}
	return cr > or
}

// Valid reports whether c is one of the three known labels.
func (c Confidence) Valid() bool {
	_, ok := confidenceRank[c]
	return ok
}

// Citation is a bounded, display-ready projection of a matched chunk.
type Citation struct {
	ChunkID   string  `json:"chunkId"`
	DocID     string  `json:"docId"`
	DocTitle  string  `json:"docTitle"`
	PageStart int     `json:"pageStart"`
	PageEnd   int     `json:"pageEnd"`
	Quote     string  `json:"quote"`    // first 220 chars of the chunk
	Distance  float64 `json:"distance"` // rounded to 3 decimals
}

// Answer is the pipeline's response to one policy question.
type Answer struct {
	Answer        string     `json:"answer"`
	Citations     []Citation `json:"citations"`
	Confidence    Confidence `json:"confidence"`
	BestDistance  float64    `json:"bestDistance"`
	LowConfidence bool       `json:"lowConfidence"`
	ReviewID      *string    `json:"reviewId"`
}
