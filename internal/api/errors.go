package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aicms/aicms-api/internal/api/shared"
	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/google"
	"github.com/aicms/aicms-api/internal/redact"
	"github.com/aicms/aicms-api/internal/service"
	"github.com/aicms/aicms-api/internal/service/auth"
)

// MapErrorToStatusCode maps service and domain errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var genErr *service.GenerationError

	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.As(err, &genErr), errors.Is(err, service.ErrGenerationFailed):
		return http.StatusBadGateway

	case errors.Is(err, google.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMalformedHeader),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAccessTokenRequired),
		errors.Is(err, service.ErrInvalidGoogleToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotContentCreator),
		errors.Is(err, service.ErrAccountInactive):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrContentNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Unknown
// errors never leak their text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var genErr *service.GenerationError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &genErr):
		return redact.String(genErr.Message)
	case errors.Is(err, service.ErrGenerationFailed):
		return "Content generation failed"

	case errors.Is(err, google.ErrUnavailable):
		return "Google sign-in is temporarily unavailable"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrMalformedHeader):
		return "Invalid authorization format"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, service.ErrAccessTokenRequired):
		return "Access token is required"
	case errors.Is(err, service.ErrInvalidGoogleToken):
		return "Invalid Google token"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, service.ErrNotContentCreator):
		return "User is not authorized to manage content"
	case errors.Is(err, service.ErrAccountInactive):
		return "User account is inactive"

	case errors.Is(err, service.ErrTemplateNotFound):
		return "Template not found"
	case errors.Is(err, service.ErrContentNotFound):
		return "Content not found"

	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error envelope for err. method names the
// failing handler in debug responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, method string) {
	status := MapErrorToStatusCode(err)

	opts := []shared.ResponseOption{shared.WithMethod(method)}
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

// respondValidationError writes a 400 for a request body that failed
// struct validation. The failing fields go into extra.
func respondValidationError(w http.ResponseWriter, r *http.Request, err error, method string) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err,
		shared.WithMethod(method), shared.WithExtra(validationFields(err)))
}

// SanitizeValidationError turns validator output into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func validationFields(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = getValidationTagMessage(fe.Tag())
	}
	return fields
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
