// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller identity and token generation utilities.

# Identity

The server does not log anyone in. An upstream identity provider issues
HS256 JWTs, and Verifier checks them:

	v := auth.NewVerifier(secret, issuer, devIdentity)
	uid, err := v.Identify(r)

The identity is the token's email claim, falling back to sub. Identities
are trimmed and lowercased with NormalizeIdentity so one person maps to
one member regardless of casing.

With dev identities enabled, a request without an Authorization header
may name itself in the X-Dev-Uid header. Never enable this in production.

Handlers read the identity from the request context:

	ctx = auth.WithIdentity(ctx, uid)
	uid, ok := auth.IdentityFrom(ctx)

# Invite Tokens

Invite tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateInviteToken()

Tokens are URL-safe base64 encoded and embedded in the invite link.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
