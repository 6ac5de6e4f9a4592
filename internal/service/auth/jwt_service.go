// Package auth issues and validates session tokens.
package auth

import (
	"context"
	"time"

	"github.com/aicms/aicms-api/internal/domain"
)

// JWTService defines operations for managing session tokens.
type JWTService interface {
	// GenerateToken creates a signed token identifying user.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken checks signature and expiry and returns the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the session payload.
type Claims struct {
	// UserID is the user's public ID.
	UserID     string
	GoogleID   string
	SignUpType string

	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
