package shared

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicms/aicms-api/internal/domain"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)
	_, err := ulid.Parse(traceID)
	require.NoError(t, err)

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other)
}

func TestUserFromContext(t *testing.T) {
	t.Parallel()

	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)

	user := &domain.User{PublicID: "U123456789"}
	got, ok := UserFromContext(WithUser(context.Background(), user))
	require.True(t, ok)
	assert.Same(t, user, got)
}

func TestDebugFlag(t *testing.T) {
	t.Parallel()

	assert.False(t, IsDebug(context.Background()))
	assert.True(t, IsDebug(WithDebug(context.Background())))
}
