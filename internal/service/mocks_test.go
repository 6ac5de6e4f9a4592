package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/google"
	"github.com/aicms/aicms-api/internal/service/auth"
	"github.com/aicms/aicms-api/internal/store"
)

// MockTemplateStore mocks store.TemplateStore
type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) ListActive(ctx context.Context) ([]*domain.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Template), args.Error(1)
}

func (m *MockTemplateStore) GetByPublicID(ctx context.Context, publicID string) (*domain.Template, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateStore) IncrementUsage(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

// MockContentStore mocks store.ContentStore. WithTx returns the same mock.
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Create(ctx context.Context, content *domain.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentStore) GetByPublicID(ctx context.Context, publicID string, userID uuid.UUID) (*domain.Content, error) {
	args := m.Called(ctx, publicID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *MockContentStore) GetForUpdate(ctx context.Context, publicID string, userID uuid.UUID) (*domain.Content, error) {
	args := m.Called(ctx, publicID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *MockContentStore) Update(ctx context.Context, content *domain.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentStore) SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	args := m.Called(ctx, id, updatedAt)
	return args.Error(0)
}

func (m *MockContentStore) List(ctx context.Context, filter store.ContentFilter) ([]*domain.Content, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Content), args.Get(1).(int64), args.Error(2)
}

func (m *MockContentStore) Stats(ctx context.Context, userID uuid.UUID) (*domain.UsageStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UsageStats), args.Error(1)
}

func (m *MockContentStore) WithTx(tx *sql.Tx) store.ContentStore {
	return m
}

// MockGenerator mocks generation.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Provider() string {
	return "mock"
}

// MockUserStore mocks store.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) UpsertGoogleUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByPublicID(ctx context.Context, publicID string) (*domain.User, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockVerifier mocks IdentityVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*google.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*google.Identity), args.Error(1)
}

// MockJWTService mocks auth.JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}
