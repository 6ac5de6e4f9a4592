package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aicms/aicms-api/internal/api/shared"
	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/logger"
)

// requireUser returns the user placed in the context by the auth middleware.
// It writes a 401 and returns false when there is none.
func requireUser(w http.ResponseWriter, r *http.Request, method string) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("user not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, method)
		return nil, false
	}
	return user, true
}

// decodeAndValidate reads a JSON body into v and validates it. It writes a
// 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}, method string) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		logger.FromContext(r.Context()).Debug("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err,
			shared.WithMethod(method))
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		respondValidationError(w, r, err, method)
		return false
	}
	return true
}

// queryString returns a trimmed query parameter.
func queryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// queryInt parses a base-10 query parameter. Missing or unparsable values
// yield 0, which the service treats as "use the default".
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(queryString(r, name))
	if err != nil {
		return 0
	}
	return n
}
