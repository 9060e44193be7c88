// Package token mints and checks signed tokens for an email address.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salmonumbrella/formkit/internal/validation"
)

const (
	// Issuer is stamped into every token.
	Issuer = "formkit"
	// DefaultTTL is how long a token stays valid.
	DefaultTTL = time.Hour
)

// ErrNoSecret is returned when no signing secret is configured.
var ErrNoSecret = errors.New("signing secret is empty")

// Claims identify the user a token was issued to.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate signs an HS256 token for email, issued at now and valid for
// DefaultTTL.
func Generate(email string, secret []byte, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	if err := validation.Email(email); err != nil {
		return "", err
	}

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(DefaultTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Result carries the outcome of GenerateAsync.
type Result struct {
	Token string
	Err   error
}

// GenerateAsync runs Generate in a goroutine and delivers exactly one
// Result on the returned channel.
func GenerateAsync(email string, secret []byte, now time.Time) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		tok, err := Generate(email, secret, now)
		ch <- Result{Token: tok, Err: err}
	}()
	return ch
}

// Verify checks signature, issuer and expiry as of now, and returns the
// claims.
func Verify(tokenStr string, secret []byte, now time.Time) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
