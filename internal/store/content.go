package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/google/uuid"
)

// ContentFilter selects a page of one user's non-deleted content.
type ContentFilter struct {
	UserID     uuid.UUID
	Search     string // case-insensitive substring of title or content
	Category   string
	TemplateID string
	Limit      int
	Offset     int
}

// ContentStore defines the interface for generated content persistence.
// Lookups never return soft-deleted records.
type ContentStore interface {
	// Create saves a new record.
	Create(ctx context.Context, content *domain.Content) error

	// GetByPublicID retrieves a record owned by userID.
	// Returns ErrContentNotFound if it does not exist, is owned by someone
	// else, or is deleted.
	GetByPublicID(ctx context.Context, publicID string, userID uuid.UUID) (*domain.Content, error)

	// GetForUpdate is GetByPublicID with a row lock held until the enclosing
	// transaction ends. It must be called on a store returned by WithTx.
	GetForUpdate(ctx context.Context, publicID string, userID uuid.UUID) (*domain.Content, error)

	// Update overwrites the mutable fields of an existing record.
	// Returns ErrContentNotFound if the record is gone or deleted.
	Update(ctx context.Context, content *domain.Content) error

	// SoftDelete flags a record as deleted.
	// Returns ErrContentNotFound if it does not exist or is already deleted.
	SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error

	// List returns one page of records, newest first, with the template name
	// joined in, plus the total number of matching records.
	List(ctx context.Context, filter ContentFilter) ([]*domain.Content, int64, error)

	// Stats aggregates the user's non-deleted records.
	Stats(ctx context.Context, userID uuid.UUID) (*domain.UsageStats, error)

	// WithTx returns a ContentStore bound to tx.
	WithTx(tx *sql.Tx) ContentStore
}
