// Package store persists documents, review items and the schedule blob.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/guideline/internal/model"
)

// ErrNotFound is returned when an operation references an unknown id.
// Callers check with errors.Is.
var ErrNotFound = eris.New("not found")

// DocumentFilter specifies criteria for listing documents.
type DocumentFilter struct {
	WithChunks bool
}

// ReviewFilter specifies criteria for listing review items.
type ReviewFilter struct {
	Status model.ReviewStatus
}

// Store defines the persistence interface for the policy Q&A service.
type Store interface {
	// Documents. A document exclusively owns its chunks: inserts are
	// transactional and deletes cascade.
	CreateDocument(ctx context.Context, doc model.Document) error
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error)
	ListChunks(ctx context.Context, docIDs []string, access []model.AccessLevel) ([]model.Chunk, error)
	DeleteDocumentsByPolicyKey(ctx context.Context, policyKey string) (int, error)

	// Review queue.
	CreateReviewItem(ctx context.Context, question string, reason model.ReviewReason, draftAnswer *string, citations []model.Citation) (*model.ReviewItem, error)
	ListReviewItems(ctx context.Context, filter ReviewFilter) ([]model.ReviewItem, error)
	ResolveReviewItem(ctx context.Context, id, finalAnswer string) error

	// Schedule singleton. Get returns nil when none is configured; Set
	// replaces the whole blob.
	GetSchedule(ctx context.Context) (*model.ScheduleConfig, error)
	SetSchedule(ctx context.Context, cfg model.ScheduleConfig) error

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}
