// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevHeader carries a plain identity when dev identities are enabled.
const DevHeader = "X-Dev-Uid"

var (
	ErrNoIdentity   = errors.New("no identity provided")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the token claims read by the server. The identity is the
// email claim, or the subject when email is absent.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier resolves the caller identity of a request.
type Verifier struct {
	secret      []byte
	issuer      string
	devIdentity bool
}

func NewVerifier(secret, issuer string, devIdentity bool) *Verifier {
	return &Verifier{
		secret:      []byte(secret),
		issuer:      issuer,
		devIdentity: devIdentity,
	}
}

// Identify returns the identity of r from its bearer token, or from
// DevHeader when dev identities are enabled.
func (v *Verifier) Identify(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return "", ErrInvalidToken
		}
		return v.VerifyToken(strings.TrimSpace(raw))
	}

	if v.devIdentity {
		if uid := NormalizeIdentity(r.Header.Get(DevHeader)); uid != "" {
			return uid, nil
		}
	}
	return "", ErrNoIdentity
}

// VerifyToken checks an HS256 token and returns its normalized identity.
func (v *Verifier) VerifyToken(raw string) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := claims.Email
	if id == "" {
		id = claims.Subject
	}
	id = NormalizeIdentity(id)
	if id == "" {
		return "", fmt.Errorf("%w: no email or subject", ErrInvalidToken)
	}
	return id, nil
}

// Sign issues a token for identity. The server itself never logs anyone
// in; this is for tests and local tooling.
func (v *Verifier) Sign(identity string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
