package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aicms/aicms-api/internal/config"
	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/google"
	"github.com/aicms/aicms-api/internal/service/auth"
	"github.com/aicms/aicms-api/internal/store"
)

type userFixture struct {
	users    *MockUserStore
	verifier *MockVerifier
	jwt      *MockJWTService
	svc      *userServiceImpl
	now      time.Time
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	f := &userFixture{
		users:    &MockUserStore{},
		verifier: &MockVerifier{},
		jwt:      &MockJWTService{},
		now:      time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC),
	}
	svc, err := NewUserService(f.users, f.verifier, f.jwt, domain.RoleContentCreator,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	f.svc = svc.(*userServiceImpl)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestNewUserServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewUserService(nil, &MockVerifier{}, &MockJWTService{}, domain.RoleViewer, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&MockUserStore{}, nil, &MockJWTService{}, domain.RoleViewer, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&MockUserStore{}, &MockVerifier{}, nil, domain.RoleViewer, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&MockUserStore{}, &MockVerifier{}, &MockJWTService{}, "Admin", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestLoginWithGoogle(t *testing.T) {
	t.Parallel()

	identity := &google.Identity{
		GoogleID: "g-123",
		Email:    "Jane@Example.com",
		Name:     "Jane",
		Picture:  "https://example.com/jane.png",
	}

	t.Run("upserts user and issues token", func(t *testing.T) {
		f := newUserFixture(t)
		f.verifier.On("Verify", mock.Anything, "google-token").Return(identity, nil)

		stored := &domain.User{PublicID: "U123456789", Email: "jane@example.com", IsActive: true}
		var saved *domain.User
		f.users.On("UpsertGoogleUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			saved = u
			return true
		})).Return(stored, nil)
		f.jwt.On("GenerateToken", mock.Anything, stored).Return("session-token", nil)

		token, user, err := f.svc.LoginWithGoogle(context.Background(), " google-token ")
		require.NoError(t, err)

		assert.Equal(t, "session-token", token)
		assert.Equal(t, stored, user)
		require.NotNil(t, saved)
		assert.Equal(t, "jane@example.com", saved.Email)
		assert.Equal(t, "Jane", saved.Name)
		assert.Equal(t, "g-123", saved.GoogleID)
		assert.Equal(t, "https://example.com/jane.png", saved.ProfileURL)
		assert.Equal(t, domain.SignUpTypeGoogle, saved.SignUpType)
		assert.Equal(t, domain.RoleContentCreator, saved.Role)
		require.NotNil(t, saved.LastLogin)
		assert.Equal(t, f.now, *saved.LastLogin)
		f.verifier.AssertExpectations(t)
		f.users.AssertExpectations(t)
		f.jwt.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		f := newUserFixture(t)
		_, _, err := f.svc.LoginWithGoogle(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrAccessTokenRequired)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("google rejects token", func(t *testing.T) {
		f := newUserFixture(t)
		f.verifier.On("Verify", mock.Anything, "bad").Return(nil, google.ErrInvalidToken)

		_, _, err := f.svc.LoginWithGoogle(context.Background(), "bad")
		assert.ErrorIs(t, err, ErrInvalidGoogleToken)
		f.users.AssertNotCalled(t, "UpsertGoogleUser", mock.Anything, mock.Anything)
	})

	t.Run("google unavailable", func(t *testing.T) {
		f := newUserFixture(t)
		f.verifier.On("Verify", mock.Anything, "tok").Return(nil, google.ErrUnavailable)

		_, _, err := f.svc.LoginWithGoogle(context.Background(), "tok")
		assert.ErrorIs(t, err, google.ErrUnavailable)
		assert.NotErrorIs(t, err, ErrInvalidGoogleToken)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newUserFixture(t)
		f.verifier.On("Verify", mock.Anything, "tok").Return(identity, nil)
		inactive := &domain.User{PublicID: "U123456789", IsActive: false}
		f.users.On("UpsertGoogleUser", mock.Anything, mock.Anything).Return(inactive, nil)

		_, _, err := f.svc.LoginWithGoogle(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrAccountInactive)
		f.jwt.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newUserFixture(t)
		f.verifier.On("Verify", mock.Anything, "tok").Return(identity, nil)
		f.users.On("UpsertGoogleUser", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, _, err := f.svc.LoginWithGoogle(context.Background(), "tok")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	active := &domain.User{PublicID: "U123456789", IsActive: true, Role: domain.RoleContentCreator}

	tests := []struct {
		name    string
		setup   func(f *userFixture)
		want    *domain.User
		wantErr error
	}{
		{
			name: "valid token",
			setup: func(f *userFixture) {
				f.jwt.On("ValidateToken", mock.Anything, "tok").Return(&auth.Claims{UserID: "U123456789"}, nil)
				f.users.On("GetByPublicID", mock.Anything, "U123456789").Return(active, nil)
			},
			want: active,
		},
		{
			name: "expired token",
			setup: func(f *userFixture) {
				f.jwt.On("ValidateToken", mock.Anything, "tok").Return(nil, auth.ErrExpiredToken)
			},
			wantErr: auth.ErrExpiredToken,
		},
		{
			name: "unknown user",
			setup: func(f *userFixture) {
				f.jwt.On("ValidateToken", mock.Anything, "tok").Return(&auth.Claims{UserID: "U000000000"}, nil)
				f.users.On("GetByPublicID", mock.Anything, "U000000000").Return(nil, store.ErrUserNotFound)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "inactive user",
			setup: func(f *userFixture) {
				f.jwt.On("ValidateToken", mock.Anything, "tok").Return(&auth.Claims{UserID: "U123456789"}, nil)
				f.users.On("GetByPublicID", mock.Anything, "U123456789").
					Return(&domain.User{PublicID: "U123456789", IsActive: false}, nil)
			},
			wantErr: ErrAccountInactive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newUserFixture(t)
			tc.setup(f)

			user, err := f.svc.Authenticate(context.Background(), "tok")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, user)
		})
	}
}

func TestEnsureBootstrapUser(t *testing.T) {
	t.Parallel()

	cfg := config.BootstrapConfig{
		UserEmail:      "admin@example.com",
		UserName:       "Admin",
		UserProfileURL: "https://example.com/admin.png",
	}

	t.Run("disabled", func(t *testing.T) {
		f := newUserFixture(t)
		user, err := f.svc.EnsureBootstrapUser(context.Background(), config.BootstrapConfig{})
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("already exists", func(t *testing.T) {
		f := newUserFixture(t)
		existing := &domain.User{PublicID: "U123456789", Email: cfg.UserEmail}
		f.users.On("GetByEmail", mock.Anything, cfg.UserEmail).Return(existing, nil)

		user, err := f.svc.EnsureBootstrapUser(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, existing, user)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates content creator", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.On("GetByEmail", mock.Anything, cfg.UserEmail).Return(nil, store.ErrUserNotFound)
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := f.svc.EnsureBootstrapUser(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.Equal(t, "Admin", user.Name)
		assert.Equal(t, domain.RoleContentCreator, user.Role)
		assert.Equal(t, cfg.UserProfileURL, user.ProfileURL)
		assert.True(t, user.IsActive)
	})

	t.Run("lost creation race", func(t *testing.T) {
		f := newUserFixture(t)
		winner := &domain.User{PublicID: "U987654321", Email: cfg.UserEmail}
		f.users.On("GetByEmail", mock.Anything, cfg.UserEmail).Return(nil, store.ErrUserNotFound).Once()
		f.users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)
		f.users.On("GetByEmail", mock.Anything, cfg.UserEmail).Return(winner, nil).Once()

		user, err := f.svc.EnsureBootstrapUser(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, winner, user)
	})
}
