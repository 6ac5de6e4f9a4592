package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicID(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{UserIDPrefix, ContentIDPrefix, TemplateIDPrefix} {
		id, err := NewPublicID(prefix)
		require.NoError(t, err)
		assert.Len(t, id, len(prefix)+9)
		assert.True(t, IsPublicID(prefix, id), "id %q", id)
	}
}

func TestNewPublicIDIsRandom(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id, err := NewPublicID(ContentIDPrefix)
		require.NoError(t, err)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 45)
}

func TestIsPublicID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		id     string
		want   bool
	}{
		{"C", "C123456789", true},
		{"C", "T123456789", false},
		{"C", "C12345678", false},
		{"C", "C1234567890", false},
		{"C", "C12345678x", false},
		{"C", "", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsPublicID(tc.prefix, tc.id), "IsPublicID(%q, %q)", tc.prefix, tc.id)
	}
}
