// Package service implements login and account registration. Every outcome
// that matters for forensics (successful login, failed login, account
// creation) produces one best-effort audit entry after the primary operation
// has settled.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vigirisco/internal/audit"
	"vigirisco/internal/auth"
	authmetrics "vigirisco/internal/auth/metrics"
	"vigirisco/internal/token"
	"vigirisco/pkg/domain"
	dErrors "vigirisco/pkg/domain-errors"
	"vigirisco/pkg/platform/sentinel"
	"vigirisco/pkg/requestcontext"
)

// UserStore persists user accounts.
type UserStore interface {
	// FindActiveByEmail returns the account with the given email if it is not
	// inactive. Returns sentinel.ErrNotFound otherwise.
	FindActiveByEmail(ctx context.Context, email string) (*auth.User, error)
	// ExistsByEmailOrLogin reports whether any account already uses the email
	// or the login name.
	ExistsByEmailOrLogin(ctx context.Context, email, login string) (bool, error)
	// Create inserts the account and returns its assigned id.
	Create(ctx context.Context, user *auth.User) (int64, error)
}

// CredentialVerifier is the opaque credential boundary. Hashing mechanics
// live behind it; this service never sees algorithm details.
type CredentialVerifier interface {
	Verify(secret, hash string) bool
	Hash(secret string) (string, error)
}

// Service wires the user store, the credential boundary, the token codec and
// the audit recorder.
type Service struct {
	users    UserStore
	creds    CredentialVerifier
	codec    *token.Codec
	tokenTTL time.Duration
	recorder *audit.Recorder
	logger   *slog.Logger
	metrics  *authmetrics.Metrics
}

func New(
	users UserStore,
	creds CredentialVerifier,
	codec *token.Codec,
	tokenTTL time.Duration,
	recorder *audit.Recorder,
	logger *slog.Logger,
	metrics *authmetrics.Metrics,
) *Service {
	return &Service{
		users:    users,
		creds:    creds,
		codec:    codec,
		tokenTTL: tokenTTL,
		recorder: recorder,
		logger:   logger,
		metrics:  metrics,
	}
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token string
	User  auth.User
}

// Login authenticates email+password and issues a fresh identity token.
// The role claim is embedded at issuance: a later role change only takes
// effect when the user logs in again.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}

	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Unknown or inactive account: audited with no actor at all.
			s.metrics.IncLoginFailure()
			s.recorder.Record(ctx, audit.Entry{
				Action:   audit.ActionLoginFail,
				Table:    audit.TableLogin,
				After:    audit.LoginSnapshot{Email: email, Detail: "unknown or inactive account"},
				OriginIP: requestcontext.ClientIP(ctx),
			})
			return nil, dErrors.New(dErrors.CodeBadRequest, "user not found or inactive")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if !s.creds.Verify(password, user.SenhaHash) {
		s.metrics.IncLoginFailure()
		actorID, actorName := audit.Actor(user.ID, user.Nome)
		s.recorder.Record(ctx, audit.Entry{
			ActorID:   actorID,
			ActorName: actorName,
			Action:    audit.ActionLoginFail,
			Table:     audit.TableLogin,
			RecordID:  audit.CoerceID(user.ID),
			After:     audit.LoginSnapshot{ID: user.ID, Email: user.Email, Detail: "invalid password"},
			OriginIP:  requestcontext.ClientIP(ctx),
		})
		return nil, dErrors.New(dErrors.CodeBadRequest, "incorrect password")
	}

	tokenString, err := s.codec.Issue(user.ID, user.Nome, user.Perfil, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.IncLogin()
	actorID, actorName := audit.Actor(user.ID, user.Nome)
	s.recorder.Record(ctx, audit.Entry{
		ActorID:   actorID,
		ActorName: actorName,
		Action:    audit.ActionLogin,
		Table:     audit.TableLogin,
		RecordID:  audit.CoerceID(user.ID),
		OriginIP:  requestcontext.ClientIP(ctx),
	})

	return &LoginResult{Token: tokenString, User: *user}, nil
}

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	Nome     string
	Email    string
	Login    string
	Password string
	Perfil   string
}

// Register creates an account. Only admins reach this path (enforced by the
// gate); an unrecognized profile silently falls back to USER rather than
// rejecting the request.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	req.Nome = strings.TrimSpace(req.Nome)
	req.Email = strings.TrimSpace(req.Email)
	req.Login = strings.TrimSpace(req.Login)
	if req.Nome == "" || req.Email == "" || req.Login == "" || req.Password == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "nome, email, login and password are required")
	}

	perfil, err := domain.ParseRole(req.Perfil)
	if err != nil {
		perfil = domain.RoleUser
	}

	exists, err := s.users.ExistsByEmailOrLogin(ctx, req.Email, req.Login)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing accounts")
	}
	if exists {
		return 0, dErrors.New(dErrors.CodeConflict, "email or login already registered")
	}

	hash, err := s.creds.Hash(req.Password)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}

	user := &auth.User{
		Nome:      req.Nome,
		Email:     req.Email,
		Login:     req.Login,
		SenhaHash: hash,
		Perfil:    perfil,
		CriadoEm:  requestcontext.Now(ctx),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		s.auditMutationError(ctx, audit.TableLogin, "", err)
		if errors.Is(err, sentinel.ErrConflict) {
			return 0, dErrors.New(dErrors.CodeConflict, "email or login already registered")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.metrics.IncUsersCreated()
	s.recordMutation(ctx, audit.ActionInsert, audit.TableLogin, audit.CoerceID(id), nil, audit.LoginSnapshot{
		ID:     id,
		Nome:   user.Nome,
		Email:  user.Email,
		Login:  user.Login,
		Perfil: user.Perfil.String(),
	})

	return id, nil
}

func (s *Service) recordMutation(ctx context.Context, action audit.Action, table audit.Table, recordID string, before, after audit.Snapshot) {
	entry := audit.Entry{
		Action:   action,
		Table:    table,
		RecordID: recordID,
		Before:   before,
		After:    after,
		OriginIP: requestcontext.ClientIP(ctx),
	}
	if p, ok := requestcontext.Principal(ctx); ok {
		entry.ActorID, entry.ActorName = audit.Actor(p.SubjectID, p.DisplayName)
	}
	s.recorder.Record(ctx, entry)
}

func (s *Service) auditMutationError(ctx context.Context, table audit.Table, recordID string, cause error) {
	entry := audit.Entry{
		Action:   audit.ActionError,
		Table:    table,
		RecordID: recordID,
		After:    audit.LoginSnapshot{Detail: cause.Error()},
		OriginIP: requestcontext.ClientIP(ctx),
	}
	if p, ok := requestcontext.Principal(ctx); ok {
		entry.ActorID, entry.ActorName = audit.Actor(p.SubjectID, p.DisplayName)
	}
	s.recorder.Record(ctx, entry)
}
