package api

import (
	"log/slog"
	"net/http"

	"github.com/aicms/aicms-api/internal/api/shared"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/service"
)

// ContentHandler handles template and generated content endpoints.
type ContentHandler struct {
	contents service.ContentService
	logger   *slog.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contents service.ContentService, logger *slog.Logger) *ContentHandler {
	if contents == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("content service cannot be nil for ContentHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ContentHandler")
	}
	return &ContentHandler{
		contents: contents,
		logger:   logger.With(slog.String("component", "content_handler")),
	}
}

// GetTemplateList handles GET /api/content/ai/get-template-list.
func (h *ContentHandler) GetTemplateList(w http.ResponseWriter, r *http.Request) {
	templates, err := h.contents.ListTemplates(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "templateList")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Template list retrieved successfully",
		templatesToResponse(templates))
}

// GenerateContent handles POST /api/content/ai/generate-content.
func (h *ContentHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	const method = "generateContent"
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := requireUser(w, r, method)
	if !ok {
		return
	}

	var req GenerateContentRequest
	if !decodeAndValidate(w, r, &req, method) {
		return
	}

	content, err := h.contents.Generate(r.Context(), user, req.TemplateID, req.UserInput)
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}

	log.Debug("content generated", slog.String("content_id", content.PublicID))
	shared.RespondWithSuccess(w, r, http.StatusOK, "Content generated successfully",
		contentToResponse(content, user.PublicID))
}

// RegenerateContent handles POST /api/content/ai/regenerate-content.
func (h *ContentHandler) RegenerateContent(w http.ResponseWriter, r *http.Request) {
	const method = "regenerateContent"

	user, ok := requireUser(w, r, method)
	if !ok {
		return
	}

	var req RegenerateContentRequest
	if !decodeAndValidate(w, r, &req, method) {
		return
	}

	content, err := h.contents.Regenerate(r.Context(), user, req.ContentID, req.UserInput)
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Content regenerated successfully",
		contentToResponse(content, user.PublicID))
}

// GetContentList handles GET /api/content/ai/get-content-list.
// Query parameters: page, limit, search, category, templateId.
func (h *ContentHandler) GetContentList(w http.ResponseWriter, r *http.Request) {
	const method = "getContentList"

	user, ok := requireUser(w, r, method)
	if !ok {
		return
	}

	page, err := h.contents.List(r.Context(), user, service.ListQuery{
		Page:       queryInt(r, "page"),
		PerPage:    queryInt(r, "limit"),
		Search:     queryString(r, "search"),
		Category:   queryString(r, "category"),
		TemplateID: queryString(r, "templateId"),
	})
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Content list retrieved successfully",
		pageToResponse(page, user.PublicID))
}

// GetContentDetail handles GET /api/content/ai/get-content-detail?contentId=.
func (h *ContentHandler) GetContentDetail(w http.ResponseWriter, r *http.Request) {
	const method = "getContentDetail"

	user, ok := requireUser(w, r, method)
	if !ok {
		return
	}

	content, err := h.contents.Get(r.Context(), user, queryString(r, "contentId"))
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Content details retrieved successfully",
		contentToDetail(content, user.PublicID))
}

// EditContent handles POST /api/content/ai/edit-content.
func (h *ContentHandler) EditContent(w http.ResponseWriter, r *http.Request) {
	const method = "editContent"

	user, ok := requireUser(w, r, method)
	if !ok {
		return
	}

	var req EditContentRequest
	if !decodeAndValidate(w, r, &req, method) {
		return
	}

	content, err := h.contents.Edit(r.Context(), user, req.ContentID, req.Patch())
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Content updated successfully",
		contentToResponse(content, user.PublicID))
}

// DeleteContent handles DELETE /api/content/ai/delete-content?contentId=.
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	const method = "deleteContent"
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := requireUser(w, r, method)
	if !ok {
		return
	}

	content, err := h.contents.Delete(r.Context(), user, queryString(r, "contentId"))
	if err != nil {
		HandleAPIError(w, r, err, method)
		return
	}

	log.Debug("content deleted", slog.String("content_id", content.PublicID))
	shared.RespondWithSuccess(w, r, http.StatusOK, "Content deleted successfully",
		contentToResponse(content, user.PublicID))
}
