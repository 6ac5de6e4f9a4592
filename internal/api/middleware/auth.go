package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aicms/aicms-api/internal/api"
	"github.com/aicms/aicms-api/internal/api/shared"
	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/service/auth"
)

// Authenticator resolves a session token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	users Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(users Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		users: users,
	}
}

// Authenticate validates the bearer token from the Authorization header and
// adds the resolved user to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			api.HandleAPIError(w, r, err, "Authenticate")
			return
		}

		user, err := m.users.Authenticate(r.Context(), token)
		if err != nil {
			api.HandleAPIError(w, r, err, "Authenticate")
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", auth.ErrMalformedHeader
	}
	return token, nil
}
