// Package middleware implements the authorization gate: a two-stage pipeline
// that authenticates a request's bearer token and authorizes it against a
// required role. Per request the state machine is Unauthenticated ->
// Authenticated -> Authorized, with early termination into a rejection at
// either stage; nothing persists between requests.
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"vigirisco/internal/token"
	"vigirisco/pkg/domain"
	"vigirisco/pkg/requestcontext"
)

// TokenDecoder verifies a bearer token and reconstructs the principal.
type TokenDecoder interface {
	Decode(tokenString string) (domain.Principal, error)
}

// writeJSONError writes a JSON error response with the given status code and
// error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// Authenticate is stage one of the gate. A missing bearer token answers 401;
// a token that fails to decode (bad signature, malformed, expired) answers
// 403. The asymmetry is intentional: an expired token is a rejected
// credential, not a missing one, and the two failure classes stay
// distinguishable only by status. On success the principal is attached to the request
// context as an explicit value; the gate never touches the credential
// verifier or the store.
func Authenticate(decoder TokenDecoder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "

			after, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || after == "" {
				logger.WarnContext(ctx, "rejected request - missing credentials",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "missing_credentials", "Missing bearer token")
				return
			}

			principal, err := decoder.Decode(after)
			if err != nil {
				reason := "invalid token"
				if errors.Is(err, token.ErrExpiredToken) {
					reason = "expired token"
				}
				logger.WarnContext(ctx, "rejected request - "+reason,
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "invalid_credentials", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole is stage two, applied only to routes that declare a required
// role. It presumes Authenticate already ran: no principal in context is an
// authentication gap (401), a role mismatch is an authorization failure
// (403). Rejected authorization attempts are not audited; only login
// failures and business-mutation failures are.
func RequireRole(required domain.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, ok := requestcontext.Principal(ctx)
			if !ok {
				logger.WarnContext(ctx, "rejected request - no authenticated principal",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
				return
			}

			if principal.Role != required {
				logger.WarnContext(ctx, "rejected request - insufficient role",
					"subject_id", principal.SubjectID,
					"role", principal.Role,
					"required_role", required,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "insufficient_role", "Operation requires "+required.String()+" role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
