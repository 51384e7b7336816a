// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects driver-specific SQL details.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect accepts the configured database type. An empty value is
// inferred from the URL scheme.
func ParseDialect(kind, url string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	case "":
		if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
			return Postgres, nil
		}
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database type %q", kind)
}

// DB wraps a connection pool with the dialect it talks to.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects and verifies the connection.
func Open(ctx context.Context, dialect Dialect, url string) (*DB, error) {
	driver, dsn := dialect.driver(url)
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == SQLite {
		// One writer at a time; transactions on other connections would
		// just hit SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return &DB{DB: conn, Dialect: dialect}, nil
}

func (d Dialect) driver(url string) (string, string) {
	if d == Postgres {
		return "postgres", url
	}

	dsn := strings.TrimPrefix(url, "sqlite://")
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return "sqlite", dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Rebind converts '?' placeholders to the dialect's format.
func (d *DB) Rebind(query string) string {
	return d.Dialect.Rebind(query)
}

// Rebind rewrites '?' to $1, $2, ... for Postgres; SQLite is unchanged.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// ForUpdate is the row-lock suffix for a SELECT inside a transaction.
// SQLite already serializes writers, so it has none.
func (d Dialect) ForUpdate() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}
