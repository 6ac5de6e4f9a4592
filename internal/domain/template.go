package domain

import (
	"time"

	"github.com/google/uuid"
)

// Template is a stored prompt skeleton. Format carries the prompt body with a
// single "{{userInput}}" substitution site.
type Template struct {
	ID          uuid.UUID
	PublicID    string
	Name        string
	Format      string
	Description string
	IsActive    bool
	UsedCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
