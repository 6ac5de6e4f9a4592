package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	results []error
	calls   int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	err := g.results[g.calls]
	g.calls++
	if err != nil {
		return "", err
	}
	return "ok: " + prompt, nil
}

func (g *scriptedGenerator) Provider() string { return "scripted" }

var transient = fmt.Errorf("%w: %w: 503", ErrGenerationFailed, ErrTransientFailure)

func noSleep(context.Context, time.Duration) error { return nil }

func TestRetryingGenerator(t *testing.T) {
	t.Parallel()

	permanent := fmt.Errorf("%w: bad request", ErrGenerationFailed)

	tests := []struct {
		name       string
		results    []error
		maxRetries int
		wantCalls  int
		wantErr    error
	}{
		{name: "first attempt", results: []error{nil}, maxRetries: 2, wantCalls: 1},
		{name: "recovers", results: []error{transient, transient, nil}, maxRetries: 2, wantCalls: 3},
		{name: "exhausted", results: []error{transient, transient, transient}, maxRetries: 2, wantCalls: 3, wantErr: ErrTransientFailure},
		{name: "permanent", results: []error{permanent}, maxRetries: 2, wantCalls: 1, wantErr: ErrGenerationFailed},
		{name: "blocked", results: []error{ErrContentBlocked}, maxRetries: 2, wantCalls: 1, wantErr: ErrContentBlocked},
		{name: "disabled", results: []error{transient}, maxRetries: 0, wantCalls: 1, wantErr: ErrTransientFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inner := &scriptedGenerator{results: tc.results}
			g := NewRetryingGenerator(inner, tc.maxRetries, time.Millisecond, nil)
			g.sleep = noSleep

			text, err := g.Generate(context.Background(), "p")
			assert.Equal(t, tc.wantCalls, inner.calls)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok: p", text)
		})
	}
}

func TestRetryingGeneratorStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &scriptedGenerator{results: []error{transient, nil}}
	g := NewRetryingGenerator(inner, 3, time.Hour, nil)

	_, err := g.Generate(ctx, "p")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, ErrTransientFailure))
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "scripted", g.Provider())
}
