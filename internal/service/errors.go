package service

import (
	"errors"
	"fmt"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/generation"
)

// Service sentinel errors. Callers test them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// Request validation. All of these match domain.ErrValidation (400).
	ErrTemplateIDRequired = domain.NewValidationError("templateId", "is required", nil)
	ErrUserInputRequired  = domain.NewValidationError("userInput", "is required", nil)
	ErrContentIDRequired  = domain.NewValidationError("contentId", "is required", nil)
	ErrNothingToUpdate    = domain.NewValidationError("content", "has no fields to update", nil)

	// ErrTemplateNotFound is returned for unknown or inactive templates and
	// when no templates are active (404).
	ErrTemplateNotFound = errors.New("template not found")

	// ErrContentNotFound is returned when content is missing, deleted or owned
	// by another user (404).
	ErrContentNotFound = errors.New("content not found")

	// ErrUserNotFound is returned when a token names an unknown user (401).
	ErrUserNotFound = errors.New("user not found")

	// ErrNotContentCreator is returned when a user without the content
	// creator role tries to list content (403).
	ErrNotContentCreator = errors.New("user is not authorized to manage content")

	// ErrAccountInactive is returned for deactivated users (403).
	ErrAccountInactive = errors.New("user account is inactive")

	// ErrAccessTokenRequired is returned when login is attempted without a
	// Google token (401).
	ErrAccessTokenRequired = errors.New("access token is required")

	// ErrInvalidGoogleToken is returned when Google rejects the login token
	// (401).
	ErrInvalidGoogleToken = errors.New("invalid google token")

	// ErrGenerationFailed is returned when the language model call fails
	// (502). It is always wrapped in a *GenerationError.
	ErrGenerationFailed = errors.New("content generation failed")
)

// GenerationError carries the provider failure behind ErrGenerationFailed.
// Message is already redacted and safe to return to the caller.
type GenerationError struct {
	Provider string
	Message  string
	Err      error
}

// NewGenerationError wraps err from the named provider.
func NewGenerationError(provider string, err error) *GenerationError {
	msg := "language model request failed"
	switch {
	case errors.Is(err, generation.ErrContentBlocked):
		msg = "the request was blocked by the language model's safety filters"
	case errors.Is(err, generation.ErrInvalidResponse):
		msg = "the language model returned an empty response"
	case err != nil:
		msg = err.Error()
	}
	return &GenerationError{Provider: provider, Message: msg, Err: err}
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrGenerationFailed.Error(), e.Provider, e.Message)
}

// Unwrap exposes both ErrGenerationFailed and the provider error.
func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Err}
}

// ContentServiceError adds the failing operation to unexpected errors.
type ContentServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ContentServiceError.
func (e *ContentServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("content service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ContentServiceError) Unwrap() error {
	return e.Err
}

// NewContentServiceError creates a new ContentServiceError.
func NewContentServiceError(operation, message string, err error) *ContentServiceError {
	return &ContentServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
