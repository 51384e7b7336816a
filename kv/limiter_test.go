// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kv

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLimiter_WithoutRedisAllows(t *testing.T) {
	l, err := NewLimiter("")
	require.NoError(t, err)
	require.False(t, l.Available())

	for i := 0; i < 100; i++ {
		ok, _, err := l.Allow(context.Background(), "invite:owner@example.com", 1, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, l.Ping(context.Background()))
	require.NoError(t, l.Close())
}

func TestLimiter_NilReceiver(t *testing.T) {
	var l *Limiter
	ok, n, err := l.Allow(context.Background(), "k", 1, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, n)
}

func TestNewLimiter_BadURL(t *testing.T) {
	_, err := NewLimiter("not-a-redis-url")
	require.Error(t, err)
}

func TestLimiter_FailsOpen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	l := NewLimiterWithClient(redis.NewClient(&redis.Options{
		Addr:        addr,
		MaxRetries:  -1,
		DialTimeout: time.Second,
	}))
	defer l.Close()

	ok, _, err := l.Allow(context.Background(), "k", 1, time.Second)
	require.Error(t, err)
	require.True(t, ok)
}
