package api

import (
	"net/http"
	"time"

	"github.com/aicms/aicms-api/internal/api/shared"
)

// HealthMessage is returned by the health endpoint.
const HealthMessage = "AI CMS Backend is running"

// Health handles GET /health. It does not touch the database.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Success:   true,
		Message:   HealthMessage,
		Timestamp: time.Now().UTC(),
	})
}

// NotFound writes the error envelope for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed writes the error envelope for known routes called with
// the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
