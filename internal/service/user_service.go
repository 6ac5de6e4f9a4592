package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aicms/aicms-api/internal/config"
	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/google"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/service/auth"
	"github.com/aicms/aicms-api/internal/store"
)

// IdentityVerifier resolves a Google sign-in token.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*google.Identity, error)
}

// UserService handles sign-in and session checks.
type UserService interface {
	// LoginWithGoogle verifies a Google token, creates or refreshes the
	// matching user and returns a session token.
	LoginWithGoogle(ctx context.Context, accessToken string) (string, *domain.User, error)

	// Authenticate resolves a session token to an active user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	// EnsureBootstrapUser creates the configured startup user when it does
	// not exist yet. It returns nil, nil when no bootstrap user is set.
	EnsureBootstrapUser(ctx context.Context, cfg config.BootstrapConfig) (*domain.User, error)
}

type userServiceImpl struct {
	users       store.UserStore
	verifier    IdentityVerifier
	jwt         auth.JWTService
	defaultRole domain.Role
	logger      *slog.Logger
	now         func() time.Time
}

// NewUserService creates a new UserService. New Google users get
// defaultRole.
func NewUserService(
	users store.UserStore,
	verifier IdentityVerifier,
	jwtService auth.JWTService,
	defaultRole domain.Role,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if jwtService == nil {
		return nil, domain.NewValidationError("jwtService", "cannot be nil", domain.ErrValidation)
	}
	if !defaultRole.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:       users,
		verifier:    verifier,
		jwt:         jwtService,
		defaultRole: defaultRole,
		logger:      logger.With(slog.String("component", "user_service")),
		now:         time.Now,
	}, nil
}

// LoginWithGoogle implements UserService.LoginWithGoogle.
func (s *userServiceImpl) LoginWithGoogle(ctx context.Context, accessToken string) (string, *domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return "", nil, ErrAccessTokenRequired
	}

	identity, err := s.verifier.Verify(ctx, accessToken)
	if err != nil {
		if errors.Is(err, google.ErrInvalidToken) {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
		}
		return "", nil, fmt.Errorf("verify google token: %w", err)
	}

	candidate, err := domain.NewUser(identity.Email, identity.Name, s.defaultRole)
	if err != nil {
		log.Warn("google identity rejected", slog.String("error", err.Error()))
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	login := s.now().UTC()
	candidate.GoogleID = identity.GoogleID
	candidate.ProfileURL = identity.Picture
	candidate.SignUpType = domain.SignUpTypeGoogle
	candidate.LastLogin = &login

	user, err := s.users.UpsertGoogleUser(ctx, candidate)
	if err != nil {
		return "", nil, fmt.Errorf("failed to save user: %w", err)
	}
	if !user.IsActive {
		log.Info("inactive user attempted login", slog.String("user_id", user.PublicID))
		return "", nil, ErrAccountInactive
	}

	token, err := s.jwt.GenerateToken(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user logged in with google", slog.String("user_id", user.PublicID))
	return token, user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *userServiceImpl) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// EnsureBootstrapUser implements UserService.EnsureBootstrapUser.
func (s *userServiceImpl) EnsureBootstrapUser(ctx context.Context, cfg config.BootstrapConfig) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(cfg.UserEmail) == "" {
		return nil, nil
	}

	existing, err := s.users.GetByEmail(ctx, cfg.UserEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up bootstrap user: %w", err)
	}

	user, err := domain.NewUser(cfg.UserEmail, cfg.UserName, domain.RoleContentCreator)
	if err != nil {
		return nil, fmt.Errorf("invalid bootstrap user: %w", err)
	}
	user.ProfileURL = cfg.UserProfileURL
	user.SignUpType = domain.SignUpTypeGoogle

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return s.users.GetByEmail(ctx, cfg.UserEmail)
		}
		return nil, fmt.Errorf("failed to create bootstrap user: %w", err)
	}

	log.Info("bootstrap user created", slog.String("user_id", user.PublicID))
	return user, nil
}
