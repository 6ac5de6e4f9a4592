package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/generation"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/store"
)

// Paging defaults for content lists.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ListQuery selects a page of the caller's content. Zero or negative Page and
// PerPage fall back to defaults.
type ListQuery struct {
	Page       int
	PerPage    int
	Search     string
	Category   string
	TemplateID string
}

// ContentPage is one page of content plus paging totals.
type ContentPage struct {
	Items       []*domain.Content
	CurrentPage int
	TotalPages  int
	TotalItems  int64
}

// ContentService provides template and generated content operations. Every
// content operation is scoped to the given user.
type ContentService interface {
	// ListTemplates returns the active templates. Returns ErrTemplateNotFound
	// when there are none.
	ListTemplates(ctx context.Context) ([]*domain.Template, error)

	// Generate fills the template with userInput, calls the language model
	// and stores the parsed result.
	Generate(ctx context.Context, user *domain.User, templateID, userInput string) (*domain.Content, error)

	// Regenerate asks the model again using the record's stored prompt, the
	// new input and the previous output, then overwrites the record.
	Regenerate(ctx context.Context, user *domain.User, contentID, userInput string) (*domain.Content, error)

	// List returns a filtered page, newest first. Only content creators may
	// list.
	List(ctx context.Context, user *domain.User, query ListQuery) (*ContentPage, error)

	// Get returns one record.
	Get(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error)

	// Edit applies patch and marks the record as edited. Returns
	// ErrNothingToUpdate when the patch is empty.
	Edit(ctx context.Context, user *domain.User, contentID string, patch domain.ContentPatch) (*domain.Content, error)

	// Delete soft-deletes a record and returns it.
	Delete(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error)

	// UsageStats summarizes the user's content.
	UsageStats(ctx context.Context, user *domain.User) (*domain.UsageStats, error)
}

type contentServiceImpl struct {
	templates store.TemplateStore
	contents  store.ContentStore
	generator generation.Generator
	db        store.TxBeginner
	logger    *slog.Logger
	now       func() time.Time
}

// NewContentService creates a new ContentService.
// It returns an error if any of the required dependencies are nil.
func NewContentService(
	templates store.TemplateStore,
	contents store.ContentStore,
	generator generation.Generator,
	db store.TxBeginner,
	logger *slog.Logger,
) (ContentService, error) {
	if templates == nil {
		return nil, domain.NewValidationError("templates", "cannot be nil", domain.ErrValidation)
	}
	if contents == nil {
		return nil, domain.NewValidationError("contents", "cannot be nil", domain.ErrValidation)
	}
	if generator == nil {
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &contentServiceImpl{
		templates: templates,
		contents:  contents,
		generator: generator,
		db:        db,
		logger:    logger.With(slog.String("component", "content_service")),
		now:       time.Now,
	}, nil
}

// ListTemplates implements ContentService.ListTemplates.
func (s *contentServiceImpl) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	templates, err := s.templates.ListActive(ctx)
	if err != nil {
		return nil, NewContentServiceError("list_templates", "failed to load templates", err)
	}
	if len(templates) == 0 {
		return nil, ErrTemplateNotFound
	}
	return templates, nil
}

// Generate implements ContentService.Generate.
func (s *contentServiceImpl) Generate(
	ctx context.Context,
	user *domain.User,
	templateID, userInput string,
) (*domain.Content, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return nil, ErrTemplateIDRequired
	}
	if strings.TrimSpace(userInput) == "" {
		return nil, ErrUserInputRequired
	}

	tmpl, err := s.templates.GetByPublicID(ctx, templateID)
	if err != nil {
		if errors.Is(err, store.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, NewContentServiceError("generate", "failed to load template", err)
	}

	prompt := generation.BuildPrompt(tmpl.Format, userInput)
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error("content generation failed",
			slog.String("template_id", templateID),
			slog.String("provider", s.generator.Provider()),
			slog.String("error", err.Error()))
		return nil, NewGenerationError(s.generator.Provider(), err)
	}

	content, err := domain.NewContent(user.ID, tmpl.PublicID, prompt, raw, generation.Parse(raw), s.generator.Provider())
	if err != nil {
		return nil, NewContentServiceError("generate", "failed to build content", err)
	}
	content.TemplateName = tmpl.Name

	if err := s.contents.Create(ctx, content); err != nil {
		return nil, NewContentServiceError("generate", "failed to save content", err)
	}

	if err := s.templates.IncrementUsage(ctx, tmpl.PublicID); err != nil {
		log.Warn("failed to increment template usage",
			slog.String("template_id", tmpl.PublicID),
			slog.String("error", err.Error()))
	}

	log.Info("content generated",
		slog.String("content_id", content.PublicID),
		slog.String("template_id", tmpl.PublicID))
	return content, nil
}

// Regenerate implements ContentService.Regenerate. The model call happens
// outside the transaction; the write re-reads the row under lock so a
// concurrent delete is not undone.
func (s *contentServiceImpl) Regenerate(
	ctx context.Context,
	user *domain.User,
	contentID, userInput string,
) (*domain.Content, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, ErrContentIDRequired
	}
	if strings.TrimSpace(userInput) == "" {
		return nil, ErrUserInputRequired
	}

	existing, err := s.getOwned(ctx, "regenerate", user, contentID)
	if err != nil {
		return nil, err
	}

	prompt := generation.BuildRegenerationPrompt(existing.Prompt, userInput, existing.WholeContent)
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error("content regeneration failed",
			slog.String("content_id", contentID),
			slog.String("provider", s.generator.Provider()),
			slog.String("error", err.Error()))
		return nil, NewGenerationError(s.generator.Provider(), err)
	}
	parsed := generation.Parse(raw)

	var updated *domain.Content
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txContents := s.contents.WithTx(tx)
		current, err := txContents.GetForUpdate(ctx, contentID, user.ID)
		if err != nil {
			return err
		}
		current.Regenerate(prompt, raw, parsed, s.generator.Provider(), s.now().UTC())
		if err := txContents.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, s.mapContentError("regenerate", "failed to save regenerated content", err)
	}

	log.Info("content regenerated", slog.String("content_id", contentID))
	return updated, nil
}

// List implements ContentService.List.
func (s *contentServiceImpl) List(ctx context.Context, user *domain.User, query ListQuery) (*ContentPage, error) {
	if !user.CanManageContent() {
		return nil, ErrNotContentCreator
	}

	page, perPage := normalizePaging(query.Page, query.PerPage)
	items, total, err := s.contents.List(ctx, store.ContentFilter{
		UserID:     user.ID,
		Search:     strings.TrimSpace(query.Search),
		Category:   strings.TrimSpace(query.Category),
		TemplateID: strings.TrimSpace(query.TemplateID),
		Limit:      perPage,
		Offset:     (page - 1) * perPage,
	})
	if err != nil {
		return nil, NewContentServiceError("list", "failed to list content", err)
	}

	return &ContentPage{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages(total, perPage),
		TotalItems:  total,
	}, nil
}

// Get implements ContentService.Get.
func (s *contentServiceImpl) Get(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error) {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, ErrContentIDRequired
	}
	return s.getOwned(ctx, "get", user, contentID)
}

// Edit implements ContentService.Edit.
func (s *contentServiceImpl) Edit(
	ctx context.Context,
	user *domain.User,
	contentID string,
	patch domain.ContentPatch,
) (*domain.Content, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, ErrContentIDRequired
	}

	var updated *domain.Content
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txContents := s.contents.WithTx(tx)
		current, err := txContents.GetForUpdate(ctx, contentID, user.ID)
		if err != nil {
			return err
		}
		if !patch.Apply(current) {
			return ErrNothingToUpdate
		}
		current.IsEdited = true
		current.UpdatedAt = domain.NormalizeTimestamp(s.now())
		if err := txContents.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNothingToUpdate) {
			return nil, ErrNothingToUpdate
		}
		return nil, s.mapContentError("edit", "failed to update content", err)
	}

	log.Info("content edited", slog.String("content_id", contentID))
	return updated, nil
}

// Delete implements ContentService.Delete.
func (s *contentServiceImpl) Delete(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, ErrContentIDRequired
	}

	var deleted *domain.Content
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txContents := s.contents.WithTx(tx)
		current, err := txContents.GetForUpdate(ctx, contentID, user.ID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if err := txContents.SoftDelete(ctx, current.ID, now); err != nil {
			return err
		}
		current.IsDeleted = true
		current.UpdatedAt = now
		deleted = current
		return nil
	})
	if err != nil {
		return nil, s.mapContentError("delete", "failed to delete content", err)
	}

	log.Info("content deleted", slog.String("content_id", contentID))
	return deleted, nil
}

// UsageStats implements ContentService.UsageStats.
func (s *contentServiceImpl) UsageStats(ctx context.Context, user *domain.User) (*domain.UsageStats, error) {
	stats, err := s.contents.Stats(ctx, user.ID)
	if err != nil {
		return nil, NewContentServiceError("usage_stats", "failed to compute usage statistics", err)
	}
	return stats, nil
}

func (s *contentServiceImpl) getOwned(
	ctx context.Context,
	op string,
	user *domain.User,
	contentID string,
) (*domain.Content, error) {
	content, err := s.contents.GetByPublicID(ctx, contentID, user.ID)
	if err != nil {
		return nil, s.mapContentError(op, "failed to load content", err)
	}
	return content, nil
}

// mapContentError hides store lookups that found nothing behind
// ErrContentNotFound.
func (s *contentServiceImpl) mapContentError(op, message string, err error) error {
	if store.IsNotFoundError(err) {
		return ErrContentNotFound
	}
	return NewContentServiceError(op, message, err)
}

// normalizePaging applies paging defaults. Page 0 means page 1.
func normalizePaging(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
