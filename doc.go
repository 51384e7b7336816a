// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the BabyName Duel API server.

BabyName Duel lets two or more people each propose a ranked list of baby
names, score each other's lists, and settle ties with a short vote.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -d "file:duel.db" -dev-identity

Settings are also read from .env.local when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite file
  - JWT_SECRET (-jwt-secret): HS256 secret for bearer tokens, unless
    DEV_IDENTITY is set

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (inferred from the URL)
  - ALLOWED_ORIGIN (-origin): CORS origin (default: *)
  - DEV_IDENTITY (-dev-identity): accept the X-Dev-Uid header
  - PUBLIC_BASE_URL: base of invite links
  - REDIS_URL (-redis): enables the notification queue, its worker and
    the invite rate limit
  - SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM,
    SMTP_FROM_NAME, SMTP_ENCRYPTION: invite and notification mail
  - LOG_LEVEL (-log-level), LOG_FORMAT: slog settings

# Architecture

  - duel: session lifecycle, scoring, status resolution, tie-break
  - store: transactional SQL repository
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity, JSON helpers
  - models: Domain and request/response types
  - apperrors: Error kinds and codes
  - auth: Identity verification, IDs and invite tokens
  - notify, mailer, kv: Events, e-mail and Redis helpers
  - db: Connections, dialects and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
