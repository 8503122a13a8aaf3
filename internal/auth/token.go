// Package auth issues and validates the HS256 bearer tokens that identify
// callers of mutating routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kailas-cloud/devcamper/internal/domain"
)

var (
	errNoSecret      = errors.New("no secret configured")
	errSigningMethod = errors.New("unexpected signing method")
)

// Claims holds JWT claims. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Principal returns the caller identified by the claims.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{UserID: c.Subject, Role: domain.Role(c.Role)}
}

// NewToken signs a token for the user and role, valid for ttl.
func NewToken(secret []byte, userID string, role domain.Role, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errNoSecret
	}
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", role)
	}
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a token. Every failure is ErrUnauthorized.
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errNoSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errSigningMethod
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" || !domain.Role(claims.Role).Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", domain.ErrUnauthorized)
	}
	return claims, nil
}
