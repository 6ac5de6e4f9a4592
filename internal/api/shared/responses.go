package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/redact"
)

// SuccessResponse is the envelope for every 2xx response.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope for every error response.
type ErrorResponse struct {
	Code  int       `json:"code"`
	Error ErrorBody `json:"error"`
}

// ErrorBody describes the failure. Stack and Method are only set for
// requests marked with WithDebug.
type ErrorBody struct {
	Message string      `json:"message"`
	Extra   interface{} `json:"extra,omitempty"`
	TraceID string      `json:"traceId,omitempty"`
	Stack   string      `json:"stack,omitempty"`
	Method  string      `json:"method,omitempty"`
}

// ResponseOption defines a function to customize error responses.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
	extra           interface{}
	method          string
}

// WithElevatedLogLevel raises a 4xx error to WARN level instead of the
// default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithExtra attaches extra detail to the error body.
func WithExtra(extra interface{}) ResponseOption {
	return func(opts *responseOptions) {
		opts.extra = extra
	}
}

// WithMethod names the failing handler in debug responses.
func WithMethod(method string) ResponseOption {
	return func(opts *responseOptions) {
		opts.method = method
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// RespondWithSuccess writes data inside the success envelope.
func RespondWithSuccess(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	RespondWithJSON(w, r, status, SuccessResponse{
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes an error envelope with the given status code and
// message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string, opts ...ResponseOption) {
	RespondWithErrorAndLog(w, r, status, message, nil, opts...)
}

// RespondWithErrorAndLog writes an error envelope and logs the detailed
// error. Only userMessage reaches the client unless the request is marked
// for debug output.
//
// 5xx errors are logged at ERROR, 429 and elevated 4xx at WARN, everything
// else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	traceID := GetTraceID(r.Context())
	body := ErrorBody{
		Message: userMessage,
		Extra:   responseOpts.extra,
		TraceID: traceID,
	}
	if IsDebug(r.Context()) {
		if err != nil {
			body.Stack = fmt.Sprintf("%+v", err)
		}
		body.Method = responseOpts.method
		if body.Method == "" {
			body.Method = r.Method + " " + r.URL.Path
		}
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{Code: status, Error: body})
}
