// Package handler exposes the login module over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"vigirisco/internal/auth/service"
	dErrors "vigirisco/pkg/domain-errors"
	"vigirisco/pkg/platform/httputil"
	"vigirisco/pkg/requestcontext"
)

// Service defines the login operations the handler delegates to.
type Service interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Register(ctx context.Context, req service.RegisterRequest) (int64, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

type loginUser struct {
	ID     int64  `json:"id"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Perfil string `json:"perfil"`
}

// Login authenticates email+password and returns a bearer token with the
// account summary.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "login failed",
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User: loginUser{
			ID:     result.User.ID,
			Nome:   result.User.Nome,
			Email:  result.User.Email,
			Perfil: result.User.Perfil.String(),
		},
	})
}

type registerRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Perfil   string `json:"perfil"`
}

type registerResponse struct {
	ID int64 `json:"id"`
}

// Register creates a new account. The router guards this route with the
// authorization gate requiring the ADMIN role.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.svc.Register(ctx, service.RegisterRequest{
		Nome:     req.Nome,
		Email:    req.Email,
		Login:    req.Login,
		Password: req.Password,
		Perfil:   req.Perfil,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "user registration failed",
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, registerResponse{ID: id})
}
