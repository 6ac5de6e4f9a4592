// Package google resolves Google sign-in tokens to account identities.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/redact"
)

// ErrInvalidToken is returned when Google rejects the token or the response
// carries no email.
var ErrInvalidToken = errors.New("invalid google token")

// ErrUnavailable is returned when Google cannot be reached.
var ErrUnavailable = errors.New("google token verification unavailable")

// Identity is the account a token belongs to.
type Identity struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// tokenInfo is the tokeninfo payload for ID tokens. Google encodes
// email_verified as a string.
type tokenInfo struct {
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// userInfo is the v1 userinfo payload for access tokens.
type userInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail *bool  `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Verifier checks tokens against Google's public endpoints.
type Verifier struct {
	client       *resty.Client
	tokenInfoURL string
	userInfoURL  string
	clientID     string
	logger       *slog.Logger
}

// NewVerifier creates a Verifier using the given endpoint URLs. A non-empty
// clientID restricts ID tokens to that OAuth client.
func NewVerifier(tokenInfoURL, userInfoURL, clientID string, timeout time.Duration, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{
		client:       resty.New().SetTimeout(timeout),
		tokenInfoURL: tokenInfoURL,
		userInfoURL:  userInfoURL,
		clientID:     clientID,
		logger:       log.With(slog.String("component", "google_verifier")),
	}
}

// IsIDToken reports whether token looks like a JWT (three dot-separated
// segments).
func IsIDToken(token string) bool {
	return len(strings.Split(token, ".")) == 3
}

// Verify resolves token. ID tokens go to tokeninfo, anything else is treated
// as an OAuth access token and sent to userinfo.
func (v *Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)

	var (
		identity *Identity
		err      error
	)
	if IsIDToken(token) {
		identity, err = v.verifyIDToken(ctx, token)
	} else {
		identity, err = v.verifyAccessToken(ctx, token)
	}
	if err != nil {
		log.Warn("google token verification failed", slog.String("error", redact.Error(err)))
		return nil, err
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("%w: no email in token info", ErrInvalidToken)
	}
	return identity, nil
}

func (v *Verifier) verifyIDToken(ctx context.Context, token string) (*Identity, error) {
	var info tokenInfo
	if err := v.get(ctx, v.tokenInfoURL, map[string]string{"id_token": token}, &info); err != nil {
		return nil, err
	}
	if v.clientID != "" && info.Aud != v.clientID {
		return nil, fmt.Errorf("%w: token issued for another client", ErrInvalidToken)
	}
	if info.EmailVerified == "false" {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}
	return &Identity{GoogleID: info.Sub, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

func (v *Verifier) verifyAccessToken(ctx context.Context, token string) (*Identity, error) {
	var info userInfo
	if err := v.get(ctx, v.userInfoURL, map[string]string{"alt": "json", "access_token": token}, &info); err != nil {
		return nil, err
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}
	return &Identity{GoogleID: info.ID, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

func (v *Verifier) get(ctx context.Context, url string, params map[string]string, out any) error {
	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", ErrInvalidToken, resp.StatusCode())
	}
	return nil
}
