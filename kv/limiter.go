// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package kv holds the Redis-backed helpers. A Limiter without a client
// allows everything, so the server runs without Redis.
package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client *redis.Client
	prefix string
}

// NewLimiter connects to redisURL. An empty URL yields a limiter that
// always allows.
func NewLimiter(redisURL string) (*Limiter, error) {
	if redisURL == "" {
		return &Limiter{}, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	return NewLimiterWithClient(redis.NewClient(opt)), nil
}

func NewLimiterWithClient(c *redis.Client) *Limiter {
	return &Limiter{client: c, prefix: "rl:"}
}

// Available reports whether a Redis client is configured.
func (l *Limiter) Available() bool { return l != nil && l.client != nil }

// Allow counts one hit for key inside a fixed window and reports whether
// the count is still within limit. Redis errors fail open.
func (l *Limiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	if !l.Available() || limit <= 0 {
		return true, 0, nil
	}

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, l.prefix+key)
	pipe.Expire(ctx, l.prefix+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}

	n := incr.Val()
	return n <= limit, n, nil
}

func (l *Limiter) Ping(ctx context.Context) error {
	if !l.Available() {
		return nil
	}
	return l.client.Ping(ctx).Err()
}

func (l *Limiter) Close() error {
	if !l.Available() {
		return nil
	}
	return l.client.Close()
}
