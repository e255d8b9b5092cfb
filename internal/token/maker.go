// Package token issues and verifies the JWT access tokens used by the API.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated user identity inside the token.
type Claims struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// Maker creates and parses access tokens.
type Maker interface {
	Generate(userID, userType string) (string, error)
	Parse(tokenStr string) (*Claims, error)
}

// JWTMaker signs tokens with a symmetric secret.
type JWTMaker struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a JWTMaker with the given secret and token lifetime.
func NewJWTMaker(secretKey string, ttl time.Duration) *JWTMaker {
	return &JWTMaker{secretKey: secretKey, tokenTTL: ttl}
}

// Generate creates a signed token for the given user.
func (m *JWTMaker) Generate(userID, userType string) (string, error) {
	claims := Claims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// Parse verifies the token signature and expiry and returns its claims.
func (m *JWTMaker) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
