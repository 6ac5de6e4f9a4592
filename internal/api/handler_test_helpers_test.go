package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aicms/aicms-api/internal/api/shared"
	"github.com/aicms/aicms-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *domain.User {
	return &domain.User{
		PublicID:   "U123456789",
		Name:       "Writer",
		Email:      "writer@example.com",
		ProfileURL: "https://example.com/w.png",
		Role:       domain.RoleContentCreator,
		SignUpType: domain.SignUpTypeGoogle,
		IsActive:   true,
		CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testContent() *domain.Content {
	return &domain.Content{
		PublicID:     "C123456789",
		TemplateID:   "T123456789",
		TemplateName: "Blog Post",
		Prompt:       "Write about Go",
		WholeContent: "Title: Go\nContent: **bold** body",
		Parsed: domain.ParsedContent{
			Title:       "Go",
			Category:    "General",
			Keywords:    []string{"go"},
			MainContent: "**bold** body",
		},
		AIProvider: "groq",
		CreatedAt:  time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

// newRequest builds a request with an optional JSON body and the given user
// already authenticated.
func newRequest(t *testing.T, method, target string, body interface{}, user *domain.User) *http.Request {
	t.Helper()

	var reader io.Reader
	if s, ok := body.(string); ok {
		reader = bytes.NewBufferString(s)
	} else if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if user != nil {
		req = req.WithContext(shared.WithUser(req.Context(), user))
	}
	return req
}

// envelope decodes a success envelope with data left raw.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}
