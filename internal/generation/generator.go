package generation

import "context"

// Generator is the boundary to an external text-completion service. One call
// sends one user turn and returns the model's reply.
type Generator interface {
	// Generate returns the raw completion text for prompt. Failures wrap
	// ErrGenerationFailed, ErrInvalidResponse or ErrContentBlocked.
	Generate(ctx context.Context, prompt string) (string, error)

	// Provider names the backing service, e.g. "groq". It is stored on every
	// generated record.
	Provider() string
}
