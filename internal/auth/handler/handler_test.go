package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigirisco/internal/auth"
	"vigirisco/internal/auth/service"
	"vigirisco/pkg/domain"
	dErrors "vigirisco/pkg/domain-errors"
)

type stubService struct {
	loginResult *service.LoginResult
	loginErr    error
	registerID  int64
	registerErr error
}

func (s *stubService) Login(context.Context, string, string) (*service.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubService) Register(context.Context, service.RegisterRequest) (int64, error) {
	return s.registerID, s.registerErr
}

func newHandler(svc Service) *Handler {
	return New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	h := newHandler(&stubService{loginResult: &service.LoginResult{
		Token: "tok-123",
		User: auth.User{
			ID: 42, Nome: "Maria", Email: "maria@example.org", Perfil: domain.RoleAdmin,
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"maria@example.org","password":"pw"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID     int64  `json:"id"`
			Nome   string `json:"nome"`
			Perfil string `json:"perfil"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "tok-123", body.Token)
	assert.Equal(t, int64(42), body.User.ID)
	assert.Equal(t, "ADMIN", body.User.Perfil)
}

func TestLogin_MalformedBodyIsBadRequest(t *testing.T) {
	h := newHandler(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_FailureMapsDomainCode(t *testing.T) {
	h := newHandler(&stubService{loginErr: dErrors.New(dErrors.CodeBadRequest, "incorrect password")})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b","password":"x"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "bad_request", body["error"])
	assert.Equal(t, "incorrect password", body["error_description"])
}

func TestRegister_Created(t *testing.T) {
	h := newHandler(&stubService{registerID: 7})

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"nome":"M","email":"m@x","login":"m","password":"pw"}`))
	w := httptest.NewRecorder()
	h.Register(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]int64
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, int64(7), body["id"])
}

func TestRegister_ConflictMapsTo409(t *testing.T) {
	h := newHandler(&stubService{registerErr: dErrors.New(dErrors.CodeConflict, "email or login already registered")})

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"nome":"M","email":"m@x","login":"m","password":"pw"}`))
	w := httptest.NewRecorder()
	h.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
