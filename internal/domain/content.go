package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Content validation errors
var (
	ErrEmptyContentUserID = errors.New("content user ID cannot be empty")
	ErrEmptyContentPrompt = errors.New("content prompt cannot be empty")
)

// ParsedContent is the structured form of one generated response.
type ParsedContent struct {
	Title       string
	Category    string
	Keywords    []string
	Tags        []string
	MainContent string
}

// Content is a persisted piece of generated copy together with its
// provenance and lifecycle flags. Records are never hard-deleted.
type Content struct {
	ID            uuid.UUID
	PublicID      string
	UserID        uuid.UUID
	TemplateID    string
	TemplateName  string
	Prompt        string
	WholeContent  string
	Parsed        ParsedContent
	AIProvider    string
	IsEdited      bool
	IsRegenerated bool
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewContent builds a record for freshly generated output.
func NewContent(
	userID uuid.UUID,
	templateID, prompt, raw string,
	parsed ParsedContent,
	provider string,
) (*Content, error) {
	publicID, err := NewPublicID(ContentIDPrefix)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	content := &Content{
		ID:           uuid.New(),
		PublicID:     publicID,
		UserID:       userID,
		TemplateID:   templateID,
		Prompt:       prompt,
		WholeContent: raw,
		Parsed:       parsed,
		AIProvider:   provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}

// Validate checks if the Content has valid data.
func (c *Content) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if !IsPublicID(ContentIDPrefix, c.PublicID) {
		return NewValidationError("contentId", "has invalid format", ErrInvalidID)
	}
	if c.UserID == uuid.Nil {
		return ErrEmptyContentUserID
	}
	if c.Prompt == "" {
		return ErrEmptyContentPrompt
	}
	return nil
}

// Regenerate overwrites the generated fields in place. Identity, owner and
// template are kept.
func (c *Content) Regenerate(prompt, raw string, parsed ParsedContent, provider string, now time.Time) {
	c.Prompt = prompt
	c.WholeContent = raw
	c.Parsed = parsed
	c.AIProvider = provider
	c.IsRegenerated = true
	c.UpdatedAt = now
}

// ContentPatch lists the fields an edit may change. Nil pointers and nil
// slices are left untouched; empty strings are ignored.
type ContentPatch struct {
	Title       *string
	MainContent *string
	Category    *string
	Keywords    []string
	Tags        []string
}

// Apply writes the provided fields onto c and reports whether anything was
// applied. Keywords and Tags count as provided whenever they are non-nil.
func (p ContentPatch) Apply(c *Content) bool {
	applied := false
	if p.Title != nil && *p.Title != "" {
		c.Parsed.Title = *p.Title
		applied = true
	}
	if p.MainContent != nil && *p.MainContent != "" {
		c.Parsed.MainContent = *p.MainContent
		applied = true
	}
	if p.Category != nil && *p.Category != "" {
		c.Parsed.Category = *p.Category
		applied = true
	}
	if p.Keywords != nil {
		c.Parsed.Keywords = p.Keywords
		applied = true
	}
	if p.Tags != nil {
		c.Parsed.Tags = p.Tags
		applied = true
	}
	return applied
}

// UsageStats summarizes one user's non-deleted content.
type UsageStats struct {
	TotalContent       int64
	EditedContent      int64
	RegeneratedContent int64
	ByCategory         map[string]int64
	ByTemplate         map[string]int64
}
