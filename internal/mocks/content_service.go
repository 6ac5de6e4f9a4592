package mocks

import (
	"context"
	"sync"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/service"
)

// MockContentService implements service.ContentService for testing
type MockContentService struct {
	ListTemplatesFn func(ctx context.Context) ([]*domain.Template, error)
	GenerateFn      func(ctx context.Context, user *domain.User, templateID, userInput string) (*domain.Content, error)
	RegenerateFn    func(ctx context.Context, user *domain.User, contentID, userInput string) (*domain.Content, error)
	ListFn          func(ctx context.Context, user *domain.User, query service.ListQuery) (*service.ContentPage, error)
	GetFn           func(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error)
	EditFn          func(ctx context.Context, user *domain.User, contentID string, patch domain.ContentPatch) (*domain.Content, error)
	DeleteFn        func(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error)
	UsageStatsFn    func(ctx context.Context, user *domain.User) (*domain.UsageStats, error)

	// Err is returned by methods without an Fn
	Err error

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the methods invoked so far, in order.
func (m *MockContentService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockContentService) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

// ListTemplates implements service.ContentService
func (m *MockContentService) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	m.record("ListTemplates")
	if m.ListTemplatesFn != nil {
		return m.ListTemplatesFn(ctx)
	}
	return nil, m.Err
}

// Generate implements service.ContentService
func (m *MockContentService) Generate(
	ctx context.Context,
	user *domain.User,
	templateID, userInput string,
) (*domain.Content, error) {
	m.record("Generate")
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, user, templateID, userInput)
	}
	return nil, m.Err
}

// Regenerate implements service.ContentService
func (m *MockContentService) Regenerate(
	ctx context.Context,
	user *domain.User,
	contentID, userInput string,
) (*domain.Content, error) {
	m.record("Regenerate")
	if m.RegenerateFn != nil {
		return m.RegenerateFn(ctx, user, contentID, userInput)
	}
	return nil, m.Err
}

// List implements service.ContentService
func (m *MockContentService) List(
	ctx context.Context,
	user *domain.User,
	query service.ListQuery,
) (*service.ContentPage, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx, user, query)
	}
	return nil, m.Err
}

// Get implements service.ContentService
func (m *MockContentService) Get(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error) {
	m.record("Get")
	if m.GetFn != nil {
		return m.GetFn(ctx, user, contentID)
	}
	return nil, m.Err
}

// Edit implements service.ContentService
func (m *MockContentService) Edit(
	ctx context.Context,
	user *domain.User,
	contentID string,
	patch domain.ContentPatch,
) (*domain.Content, error) {
	m.record("Edit")
	if m.EditFn != nil {
		return m.EditFn(ctx, user, contentID, patch)
	}
	return nil, m.Err
}

// Delete implements service.ContentService
func (m *MockContentService) Delete(ctx context.Context, user *domain.User, contentID string) (*domain.Content, error) {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, user, contentID)
	}
	return nil, m.Err
}

// UsageStats implements service.ContentService
func (m *MockContentService) UsageStats(ctx context.Context, user *domain.User) (*domain.UsageStats, error) {
	m.record("UsageStats")
	if m.UsageStatsFn != nil {
		return m.UsageStatsFn(ctx, user)
	}
	return nil, m.Err
}

var _ service.ContentService = (*MockContentService)(nil)
