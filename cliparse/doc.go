// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values come from three layers, later ones winning:

 1. .env.local in the working directory (optional)
 2. environment variables
 3. command-line flags

# Environment Variables

	PORT                 server port (default 3318)
	DATABASE_URL         sqlite file or postgres:// URL (required)
	DATABASE_TYPE        sqlite or postgres (inferred from the URL when unset)
	ALLOWED_ORIGIN       CORS origin (default *)
	JWT_SECRET           HS256 secret for bearer tokens (required unless DEV_IDENTITY)
	JWT_ISSUER           expected iss claim (optional)
	DEV_IDENTITY         trust the X-Dev-Uid header (development only)
	PUBLIC_BASE_URL      base of invite links
	REDIS_URL            enables the notification queue and invite rate limit
	QUEUE_NAME           asynq queue (default notifications)
	QUEUE_CONCURRENCY    notification workers (default 4)
	INVITE_RATE_LIMIT    invites per owner per window (default 20)
	INVITE_RATE_WINDOW   rate limit window (default 1h)
	SMTP_HOST ...        SMTP relay; invites are only logged when unset
	LOG_LEVEL            debug, info, warn, error (default info)
	LOG_FORMAT           text or json (default text)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-origin        Allowed CORS origin
	-jwt-secret    JWT secret
	-dev-identity  Trust X-Dev-Uid
	-redis         Redis URL
	-log-level     Log level

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(ctx, db.Dialect(cfg.DatabaseType), cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(deps)
*/
package cliparse
