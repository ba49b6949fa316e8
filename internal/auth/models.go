// Package auth holds the user-account model shared by the login service and
// its stores.
package auth

import (
	"time"

	"vigirisco/pkg/domain"
)

// User is a registered account in the login table.
type User struct {
	ID        int64
	Nome      string
	Email     string
	Login     string
	SenhaHash string
	Perfil    domain.Role
	Inativo   bool
	CriadoEm  time.Time
}
