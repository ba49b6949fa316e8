package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigirisco/internal/token"
	"vigirisco/pkg/domain"
	"vigirisco/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func okHandler(seen *domain.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := requestcontext.Principal(r.Context()); ok && seen != nil {
			*seen = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingToken(t *testing.T) {
	codec := token.NewCodec("secret", "test")
	handler := Authenticate(codec, testLogger())(okHandler(nil))

	for _, header := range []string{"", "Bearer ", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/rumores", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Contains(t, rec.Body.String(), "missing_credentials")
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	codec := token.NewCodec("secret", "test")
	handler := Authenticate(codec, testLogger())(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/rumores", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Invalid tokens answer 403, not 401.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	codec := token.NewCodec("secret", "test")
	expired, err := codec.Issue(1, "Maria", domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	handler := Authenticate(codec, testLogger())(okHandler(nil))
	req := httptest.NewRequest(http.MethodGet, "/api/rumores", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	codec := token.NewCodec("secret", "test")
	tokenString, err := codec.Issue(42, "Maria", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	var seen domain.Principal
	handler := Authenticate(codec, testLogger())(okHandler(&seen))
	req := httptest.NewRequest(http.MethodGet, "/api/rumores", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), seen.SubjectID)
	assert.Equal(t, "Maria", seen.DisplayName)
	assert.Equal(t, domain.RoleAdmin, seen.Role)
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin, testLogger())(okHandler(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthenticated")
}

func TestRequireRoleMismatch(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin, testLogger())(okHandler(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	ctx := requestcontext.WithPrincipal(req.Context(), domain.Principal{SubjectID: 1, Role: domain.RoleUser})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_role")
}

func TestRequireRoleMatch(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin, testLogger())(okHandler(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	ctx := requestcontext.WithPrincipal(req.Context(), domain.Principal{SubjectID: 1, Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct connection", "192.0.2.1:4321", nil, "192.0.2.1"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "203.0.113.5"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"}, "203.0.113.5"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}
