// Package auth extracts the acting principal from JWT access tokens. Token
// issuance lives with the identity provider; this server only validates
// tokens and reads the claims it needs for audit stamping.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akosenkov/fleetdesk/internal/common"
)

// Claims carries the registered claims plus the fleetdesk identity fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"uid"`
	UserName string `json:"uname"`
}

// GenerateToken mints a signed HS256 token for the given identity. Used by
// tests and administrative tooling; production tokens come from the identity
// provider with the same shared secret.
func GenerateToken(userID int64, userName string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:   userID,
		UserName: userName,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
