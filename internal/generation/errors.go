package generation

import "errors"

// Common errors returned by generators.
var (
	// ErrGenerationFailed is returned when the provider call fails for any
	// general reason. Providers wrap it with the upstream message.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the provider answers with no text.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the provider refuses the prompt.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when a generator is misconfigured.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// ErrTransientFailure marks failures worth retrying, such as timeouts,
// rate limits and upstream 5xx responses. It is always paired with
// ErrGenerationFailed.
var ErrTransientFailure = errors.New("transient language model failure")
