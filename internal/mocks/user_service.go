package mocks

import (
	"context"

	"github.com/aicms/aicms-api/internal/config"
	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	LoginWithGoogleFn     func(ctx context.Context, accessToken string) (string, *domain.User, error)
	AuthenticateFn        func(ctx context.Context, token string) (*domain.User, error)
	EnsureBootstrapUserFn func(ctx context.Context, cfg config.BootstrapConfig) (*domain.User, error)

	// User is returned by Authenticate when AuthenticateFn is nil and Err is
	// nil.
	User *domain.User
	Err  error
}

// LoginWithGoogle implements service.UserService
func (m *MockUserService) LoginWithGoogle(ctx context.Context, accessToken string) (string, *domain.User, error) {
	if m.LoginWithGoogleFn != nil {
		return m.LoginWithGoogleFn(ctx, accessToken)
	}
	return "", m.User, m.Err
}

// Authenticate implements service.UserService
func (m *MockUserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, token)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}

// EnsureBootstrapUser implements service.UserService
func (m *MockUserService) EnsureBootstrapUser(ctx context.Context, cfg config.BootstrapConfig) (*domain.User, error) {
	if m.EnsureBootstrapUserFn != nil {
		return m.EnsureBootstrapUserFn(ctx, cfg)
	}
	return m.User, m.Err
}

var _ service.UserService = (*MockUserService)(nil)
