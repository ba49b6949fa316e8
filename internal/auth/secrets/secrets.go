// Package secrets implements the opaque credential boundary with bcrypt.
// Callers hand secrets across it and get hashes or yes/no answers back;
// algorithm details never leak out.
package secrets

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "vigirisco/pkg/domain-errors"
)

// Bcrypt hashes and verifies credentials with bcrypt at the default cost.
type Bcrypt struct{}

// Hash creates a bcrypt hash of the provided secret.
func (Bcrypt) Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeValidation, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "secret is too long")
		}
		return "", fmt.Errorf("could not hash secret: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether a plaintext secret matches a bcrypt hash.
func (Bcrypt) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
