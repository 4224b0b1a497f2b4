// Package auth signs and parses the service's HS256 access tokens. A token
// carries the user id, a per-token jti and the standard exp claim.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: {"id", "jti", "exp", "iat"}. The jti lives in
// RegisteredClaims.ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// JTI returns the token id recorded in the ledger.
func (c *Claims) JTI() string {
	return c.ID
}

func GenerateToken(userID string, jti string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and returns the claims. An expired token
// still yields its claims together with common.ErrTokenExpired so the caller
// can drop the matching ledger record.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if claims.UserID == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, common.ErrInvalidToken
	}

	if time.Now().After(claims.ExpiresAt.Time) {
		return claims, common.ErrTokenExpired
	}

	return claims, nil
}

var errNoBearer = errors.New("missing bearer token")

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", errors.Join(common.ErrInvalidToken, errNoBearer)
	}
	return strings.TrimSpace(token), nil
}
