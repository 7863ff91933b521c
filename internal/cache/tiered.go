package cache

import (
	"context"
	"errors"
	"time"

	"braces.dev/errtrace"
	"go.uber.org/multierr"
)

// Tiered is a Store made of other stores, fastest first.
//
// Reads try each store in order and return the first value found.
// A value found in a slower store is copied into the faster ones before it.
// Writes go to every store.
type Tiered struct {
	// Stores to read from and write to, fastest first.
	Stores []Store

	// BackfillTTL is how long values copied into faster stores live.
	// Stores don't report how long an entry has left,
	// so this should be no longer than the TTL entries are written with.
	// Defaults to DefaultTTL.
	BackfillTTL time.Duration
}

var _ Store = (*Tiered)(nil)

func (t *Tiered) backfillTTL() time.Duration {
	if t.BackfillTTL > 0 {
		return t.BackfillTTL
	}
	return DefaultTTL
}

// Get returns the first value found for key.
//
// Failures of individual stores are treated as misses.
// If no store has the key, the error matches ErrNotFound
// and carries any store failures alongside it.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	var errs error
	for i, s := range t.Stores {
		value, err := s.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				errs = multierr.Append(errs, err)
			}
			continue
		}

		for _, faster := range t.Stores[:i] {
			_ = faster.Set(ctx, key, value, t.backfillTTL())
		}
		return value, nil
	}

	return nil, errtrace.Wrap(multierr.Append(ErrNotFound, errs))
}

// Set writes value to every store.
// It returns the combined errors of all stores that failed.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var errs error
	for _, s := range t.Stores {
		errs = multierr.Append(errs, s.Set(ctx, key, value, ttl))
	}
	return errtrace.Wrap(errs)
}
