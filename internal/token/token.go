// Package token implements the identity token codec: a signed, time-limited
// identity assertion carried as an opaque bearer string. The codec trusts the
// claims embedded at issuance time; in particular the role claim is not
// re-checked against the user store on every request, so a role change only
// takes effect at the next issuance.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vigirisco/pkg/domain"
)

// Decode failure taxonomy. The gate maps both to the same HTTP status; the
// distinction matters for logging and tests.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents the JWT claims for our access tokens.
type Claims struct {
	DisplayName string `json:"nome"`
	Role        string `json:"perfil"`
	jwt.RegisteredClaims
}

// Codec issues and decodes identity tokens signed with HS256.
type Codec struct {
	signingKey []byte
	issuer     string
}

func NewCodec(signingKey string, issuer string) *Codec {
	return &Codec{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// Issue produces a signed token embedding subject id, display name and role
// plus issued-at/expiry.
func (c *Codec) Issue(subjectID int64, displayName string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		DisplayName: displayName,
		Role:        role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
		},
	})

	signedToken, err := newToken.SignedString(c.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// Decode verifies signature and expiry and reconstructs the principal.
func (c *Codec) Decode(tokenString string) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, ErrExpiredToken
		}
		return domain.Principal{}, ErrInvalidToken
	}
	if !parsed.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return domain.Principal{}, ErrInvalidToken
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	p := domain.Principal{
		SubjectID:   subjectID,
		DisplayName: claims.DisplayName,
		Role:        role,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
