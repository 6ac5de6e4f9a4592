package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()
	return newTestVerifierForClient(t, "", handler)
}

func newTestVerifierForClient(t *testing.T, clientID string, handler http.HandlerFunc) *Verifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewVerifier(srv.URL+"/tokeninfo", srv.URL+"/userinfo", clientID, 5*time.Second, nil)
}

func TestIsIDToken(t *testing.T) {
	t.Parallel()

	assert.True(t, IsIDToken("a.b.c"))
	assert.False(t, IsIDToken("ya29.opaque"))
	assert.False(t, IsIDToken("a.b.c.d"))
}

func TestVerifyIDToken(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tokeninfo", r.URL.Path)
		assert.Equal(t, "h.p.s", r.URL.Query().Get("id_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"123","email":"jane@example.com","name":"Jane","picture":"https://img"}`))
	})

	id, err := v.Verify(context.Background(), "h.p.s")
	require.NoError(t, err)
	assert.Equal(t, &Identity{GoogleID: "123", Email: "jane@example.com", Name: "Jane", Picture: "https://img"}, id)
}

func TestVerifyAccessToken(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/userinfo", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("alt"))
		assert.Equal(t, "ya29.token", r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"456","email":"joe@example.com","picture":"https://pic"}`))
	})

	id, err := v.Verify(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, "456", id.GoogleID)
	assert.Equal(t, "joe@example.com", id.Email)
}

func TestVerifyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "rejected", status: http.StatusBadRequest, body: `{"error":"invalid_token"}`, wantErr: ErrInvalidToken},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: ErrInvalidToken},
		{name: "no email", status: http.StatusOK, body: `{"id":"1"}`, wantErr: ErrInvalidToken},
		{name: "google down", status: http.StatusServiceUnavailable, body: `{}`, wantErr: ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := v.Verify(context.Background(), "opaque")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestVerifyIDTokenAudienceAndEmailVerification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		clientID string
		body     string
		wantErr  error
	}{
		{
			name:     "matching audience",
			clientID: "web-client.apps.googleusercontent.com",
			body:     `{"sub":"1","aud":"web-client.apps.googleusercontent.com","email":"a@b.co","email_verified":"true"}`,
		},
		{
			name:     "other client",
			clientID: "web-client.apps.googleusercontent.com",
			body:     `{"sub":"1","aud":"someone-else.apps.googleusercontent.com","email":"a@b.co","email_verified":"true"}`,
			wantErr:  ErrInvalidToken,
		},
		{
			name: "audience unchecked without client id",
			body: `{"sub":"1","aud":"anything","email":"a@b.co"}`,
		},
		{
			name:    "unverified email",
			body:    `{"sub":"1","aud":"anything","email":"a@b.co","email_verified":"false"}`,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newTestVerifierForClient(t, tc.clientID, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			})

			id, err := v.Verify(context.Background(), "h.p.s")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@b.co", id.Email)
		})
	}
}

func TestVerifyAccessTokenUnverifiedEmail(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"456","email":"joe@example.com","verified_email":false}`))
	})

	_, err := v.Verify(context.Background(), "ya29.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
