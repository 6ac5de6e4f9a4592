package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role names a user's permission level.
type Role string

// Known roles.
const (
	RoleContentCreator Role = "Content Creator"
	RoleViewer         Role = "Viewer"
)

// SignUpTypeGoogle marks users created through Google login.
const SignUpTypeGoogle = "google"

// Common validation errors
var (
	ErrEmptyUserID = errors.New("user ID cannot be empty")
	ErrEmptyEmail  = errors.New("email cannot be empty")
	ErrInvalidRole = errors.New("invalid role")
)

// User is an account that can sign in and own generated content.
type User struct {
	ID         uuid.UUID
	PublicID   string
	Name       string
	Email      string
	ProfileURL string
	GoogleID   string
	SignUpType string
	Role       Role
	LastLogin  *time.Time
	IsActive   bool
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUser creates an active user with fresh identifiers. Email is lowercased
// and trimmed.
func NewUser(email, name string, role Role) (*User, error) {
	publicID, err := NewPublicID(UserIDPrefix)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		PublicID:  publicID,
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if !IsPublicID(UserIDPrefix, u.PublicID) {
		return NewValidationError("userId", "has invalid format", ErrInvalidID)
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// CanManageContent reports whether the user may list and manage content.
func (u *User) CanManageContent() bool {
	return u.Role == RoleContentCreator
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleContentCreator || r == RoleViewer
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmailFormat requires one '@' with a dotted domain after it.
func validateEmailFormat(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
