package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/aicms/aicms-api/internal/platform/logger"
)

// RetryingGenerator retries a Generator on transient failures with
// exponential backoff and jitter. Other errors are returned at once.
type RetryingGenerator struct {
	next       Generator
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

var _ Generator = (*RetryingGenerator)(nil)

// NewRetryingGenerator wraps next. maxRetries counts extra attempts, so 0
// disables retrying.
func NewRetryingGenerator(next Generator, maxRetries int, baseDelay time.Duration, log *slog.Logger) *RetryingGenerator {
	if next == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("next generator cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryingGenerator{
		next:       next,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     log.With(slog.String("component", "retrying_generator")),
		sleep:      sleepContext,
	}
}

// Provider implements Generator.
func (g *RetryingGenerator) Provider() string {
	return g.next.Provider()
}

// Generate implements Generator.
func (g *RetryingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		text, err := g.next.Generate(ctx, prompt)
		if err == nil {
			if attempt > 0 {
				log.Info("generation succeeded after retry", slog.Int("attempt", attempt+1))
			}
			return text, nil
		}

		if !errors.Is(err, ErrTransientFailure) {
			return "", err
		}
		if attempt >= g.maxRetries {
			log.Warn("maximum generation attempts reached",
				slog.Int("attempts", attempt+1),
				slog.String("error", err.Error()))
			return "", err
		}

		// delay = base * 2^attempt * [0.5, 1.0)
		backoff := float64(g.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))

		log.Info("retrying generation",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("provider", g.next.Provider()))

		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %w: %v", ErrGenerationFailed, ErrTransientFailure, err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
