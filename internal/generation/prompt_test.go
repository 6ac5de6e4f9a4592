package generation_test

import (
	"testing"

	"github.com/aicms/aicms-api/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		input  string
		want   string
	}{
		{
			name:   "single placeholder",
			format: "Write an ad for {{userInput}}.",
			input:  "shoes",
			want:   "Write an ad for shoes.",
		},
		{
			name:   "only first placeholder is replaced",
			format: "{{userInput}} and {{userInput}}",
			input:  "x",
			want:   "x and {{userInput}}",
		},
		{
			name:   "no placeholder",
			format: "static prompt",
			input:  "ignored",
			want:   "static prompt",
		},
		{
			name:   "input is inserted literally",
			format: "about {{userInput}}",
			input:  "$& and $1",
			want:   "about $& and $1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, generation.BuildPrompt(tc.format, tc.input))
		})
	}
}

func TestBuildRegenerationPrompt(t *testing.T) {
	t.Parallel()

	got := generation.BuildRegenerationPrompt("Write about {{userInput}}", "cats", "Title: Dogs")
	assert.Equal(t,
		"Write about cats\n\nregenerate based on old whole response and new suggestions: Title: Dogs",
		got)

	// A stored prompt has usually been substituted already.
	got = generation.BuildRegenerationPrompt("Write about dogs", "make it shorter", "old")
	assert.Equal(t,
		"Write about dogs\n\nregenerate based on old whole response and new suggestions: old",
		got)
}
