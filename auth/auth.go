// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateInviteToken creates a random secret for an invite link.
// Anyone holding the token can join the session while invites are open.
func GenerateInviteToken() (string, error) {
	b := make([]byte, 24) // 192 bits
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// NormalizeIdentity trims and lowercases an identity so that
// "Ann@Example.com " and "ann@example.com" are the same member.
func NormalizeIdentity(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

type identityKey struct{}

// WithIdentity returns a context carrying the verified caller identity.
func WithIdentity(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, identityKey{}, uid)
}

// IdentityFrom returns the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(identityKey{}).(string)
	return uid, ok && uid != ""
}
