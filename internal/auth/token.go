// Package auth issues and verifies admin session tokens and hashes admin
// passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lion_estate/internal/domain"
)

// TokenTTL is the fixed lifetime of an admin session token.
const TokenTTL = 7 * 24 * time.Hour

// AdminClaims is what a verified token says about its bearer.
type AdminClaims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

type IssuerOption func(*TokenIssuer)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) { i.now = now }
}

func NewTokenIssuer(secret []byte, opts ...IssuerOption) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is empty")
	}
	i := &TokenIssuer{secret: secret, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i, nil
}

func (i *TokenIssuer) Issue(a domain.Admin) (string, error) {
	now := i.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		AdminID: a.ID,
		Email:   a.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	return tok.SignedString(i.secret)
}

// Verify reports the token's claims when its signature and expiry hold.
// Every failure (malformed, expired, wrong key or algorithm) yields false.
func (i *TokenIssuer) Verify(token string) (AdminClaims, bool) {
	if token == "" {
		return AdminClaims{}, false
	}
	claims := &AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid || claims.AdminID == "" {
		return AdminClaims{}, false
	}
	return *claims, true
}
