package store

import (
	"context"

	"github.com/aicms/aicms-api/internal/domain"
)

// TemplateStore defines the interface for prompt template persistence.
type TemplateStore interface {
	// ListActive returns active templates ordered by name.
	ListActive(ctx context.Context) ([]*domain.Template, error)

	// GetByPublicID retrieves an active template.
	// Returns ErrTemplateNotFound if it does not exist or is inactive.
	GetByPublicID(ctx context.Context, publicID string) (*domain.Template, error)

	// IncrementUsage adds one to the template's usage counter.
	// Returns ErrTemplateNotFound if it does not exist.
	IncrementUsage(ctx context.Context, publicID string) error
}
