// Package auth validates bearer tokens for the HTTP API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptyToken   = errors.New("token string is empty")
	ErrInvalidToken = errors.New("token is not valid")
)

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	Subject string
	Email   string
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenValidator verifies HS256 tokens signed with a shared secret.
type TokenValidator struct {
	secret []byte
	cache  *identityCache
}

func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{
		secret: []byte(secret),
		cache:  newIdentityCache(),
	}
}

// Validate verifies the token signature and expiry and returns the caller
// identity. Verified tokens are cached until they expire so repeated calls
// from the same client skip the signature check.
func (v *TokenValidator) Validate(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrEmptyToken
	}
	if id, ok := v.cache.get(tokenString); ok {
		return id, nil
	}

	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !token.Valid || parsed.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{Subject: parsed.Subject, Email: parsed.Email}
	if parsed.ExpiresAt != nil {
		v.cache.put(tokenString, id, parsed.ExpiresAt.Time)
	}
	return id, nil
}

// SignForTests issues an HS256 token. Only handler tests use it; the
// service itself never mints user tokens.
func SignForTests(secret, subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := &claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
