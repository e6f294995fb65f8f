package model

import "time"

// ReviewReason explains why a question was escalated.
type ReviewReason string

const (
	ReasonNotFound      ReviewReason = "not_found"
	ReasonConflict      ReviewReason = "conflict"
	ReasonLowConfidence ReviewReason = "low_confidence"
)

// ReviewStatus is the lifecycle state of a review item.
type ReviewStatus string

const (
	ReviewOpen     ReviewStatus = "open"
	ReviewResolved ReviewStatus = "resolved"
)

// ReviewItem is an escalated question awaiting (or holding) a human answer.
// Items are created only by the escalation gate and reach "resolved" exactly
// once; they are never deleted.
type ReviewItem struct {
	ID             string       `json:"id"`
	Question       string       `json:"question"`
	Reason         ReviewReason `json:"reason"`
	Status         ReviewStatus `json:"status"`
	DraftAnswer    *string      `json:"draftAnswer"`
	DraftCitations []Citation   `json:"draftCitations"`
	FinalAnswer    *string      `json:"finalAnswer"`
	CreatedAt      time.Time    `json:"createdAt"`
	ResolvedAt     *time.Time   `json:"resolvedAt"`
}
