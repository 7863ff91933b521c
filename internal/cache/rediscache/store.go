// Package rediscache implements a cache store backed by Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"braces.dev/errtrace"
	"github.com/redis/go-redis/v9"
	"go.abhg.dev/codeblock/internal/cache"
)

// Store is a cache.Store that keeps entries in Redis.
type Store struct {
	client redis.Cmdable

	// Prefix is prepended to every key.
	Prefix string
}

var _ cache.Store = (*Store)(nil)

// New builds a Store that uses the given client.
func New(client redis.Cmdable) *Store {
	return &Store{client: client}
}

// Open connects to the Redis server at the given URL,
// e.g. "redis://localhost:6379/0",
// and verifies that it is reachable.
//
// The returned function closes the connection.
func Open(ctx context.Context, url string) (*Store, func() error, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, errtrace.Wrap(fmt.Errorf("parse redis URL: %w", err))
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errtrace.Wrap(fmt.Errorf("redis health check failed: %w", err))
	}

	return New(client), client.Close, nil
}

// Get fetches the value at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.Prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errtrace.Wrap(cache.ErrNotFound)
		}
		return nil, errtrace.Wrap(fmt.Errorf("redis get %q: %w", key, err))
	}
	return value, nil
}

// Set stores value at key with SET ... EX.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// go-redis treats negative expirations as KEEPTTL.
	ttl = max(ttl, 0)
	if err := s.client.Set(ctx, s.Prefix+key, value, ttl).Err(); err != nil {
		return errtrace.Wrap(fmt.Errorf("redis set %q: %w", key, err))
	}
	return nil
}
