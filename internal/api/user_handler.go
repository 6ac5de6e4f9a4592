package api

import (
	"log/slog"
	"net/http"

	"github.com/aicms/aicms-api/internal/api/shared"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/service"
)

// UserHandler handles sign-in and account endpoints.
type UserHandler struct {
	users    service.UserService
	contents service.ContentService
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, contents service.ContentService, logger *slog.Logger) *UserHandler {
	if users == nil || contents == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("services cannot be nil for UserHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		users:    users,
		contents: contents,
		logger:   logger.With(slog.String("component", "user_handler")),
	}
}

// LoginWithGoogle handles POST /api/user/auth/google.
func (h *UserHandler) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	const method = "loginWithGoogle"
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GoogleLoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err,
			shared.WithMethod(method))
		return
	}

	token, user, err := h.users.LoginWithGoogle(r.Context(), req.AccessToken)
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}

	log.Debug("login succeeded", slog.String("user_id", user.PublicID))
	shared.RespondWithSuccess(w, r, http.StatusOK, "Login successful", LoginResponse{Token: token})
}

// GetProfile handles GET /api/user/profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, "getProfile")
	if !ok {
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Profile retrieved successfully", userToResponse(user))
}

// GetUsageStats handles GET /api/user/usage-stats.
func (h *UserHandler) GetUsageStats(w http.ResponseWriter, r *http.Request) {
	const method = "getUsageStats"

	user, ok := requireUser(w, r, method)
	if !ok {
		return
	}

	stats, err := h.contents.UsageStats(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Usage statistics retrieved successfully", statsToResponse(stats))
}
