package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"timeclock.app/timeclock/core"
)

// Identity is the verified (id, username, role) triple carried in the
// access token. The ledger trusts this triple without re-validating.
type Identity struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Role     core.Role `json:"role"`
}

type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

func (c *IdentityClaims) UserRef() core.UserRef {
	return core.UserRef{ID: c.Identity.ID, Username: c.Username, Role: c.Role}
}

// CreateIdentityToken signs an HS256 access token for the identity.
func CreateIdentityToken(identity Identity, secret []byte, expiresIn time.Duration) (string, error) {
	claims := IdentityClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "timeclock",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

// ParseIdentityToken validates the token signature and expiry and
// returns the embedded identity claims.
func ParseIdentityToken(tokenStr string, secret []byte) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
