package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithSuccess(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	RespondWithSuccess(rec, req, http.StatusOK, "ok", map[string]string{"k": "v"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":200,"message":"ok","data":{"k":"v"}}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	t.Run("hides error detail", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/content/ai/generate-content", nil)
		req = req.WithContext(SetTraceID(req.Context()))
		rec := httptest.NewRecorder()

		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Internal server error",
			errors.New("pq: password=hunter22 rejected"), WithExtra(map[string]string{"field": "x"}))

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "Internal server error", resp.Error.Message)
		assert.Equal(t, GetTraceID(req.Context()), resp.Error.TraceID)
		assert.Equal(t, map[string]interface{}{"field": "x"}, resp.Error.Extra)
		assert.Empty(t, resp.Error.Stack)
		assert.Empty(t, resp.Error.Method)
		assert.NotContains(t, rec.Body.String(), "hunter22")
	})

	t.Run("debug adds stack and method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/content/ai/get-content-detail", nil)
		req = req.WithContext(WithDebug(req.Context()))
		rec := httptest.NewRecorder()

		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Internal server error",
			pkgerrors.Wrap(errors.New("boom"), "load content"), WithMethod("getContentDetail"))

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error.Stack, "boom")
		assert.Contains(t, resp.Error.Stack, "load content")
		assert.Contains(t, resp.Error.Stack, "responses_test.go")
		assert.Equal(t, "getContentDetail", resp.Error.Method)
	})

	t.Run("debug without method falls back to route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/content/ai/delete-content", nil)
		req = req.WithContext(WithDebug(req.Context()))
		rec := httptest.NewRecorder()

		RespondWithError(rec, req, http.StatusNotFound, "Content not found")

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "DELETE /api/content/ai/delete-content", resp.Error.Method)
		assert.Empty(t, resp.Error.Stack)
	})
}
