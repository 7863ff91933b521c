package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/cache"
	"go.abhg.dev/codeblock/internal/cache/rediscache"
	"go.abhg.dev/codeblock/internal/cache/sqlitecache"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// openCache opens the cache described by the -cache flag:
// a comma-separated list of stores, fastest first.
//
// Values copied between tiers live for ttl.
// The returned function closes every store that was opened.
func openCache(ctx context.Context, spec string, ttl time.Duration, log *zap.Logger) (cache.Store, func() error, error) {
	var (
		tiers   []cache.Store
		closers []func() error
	)
	closeAll := func() (err error) {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
		return err
	}

	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if len(item) == 0 {
			continue
		}

		store, closeStore, err := openStore(ctx, item)
		if err != nil {
			err = fmt.Errorf("cache %q: %w", item, err)
			return nil, nil, errtrace.Wrap(multierr.Append(err, closeAll()))
		}
		log.Debug("Opened cache store", zap.String("store", item))

		tiers = append(tiers, store)
		if closeStore != nil {
			closers = append(closers, closeStore)
		}
	}

	switch len(tiers) {
	case 0:
		return nil, closeAll, nil
	case 1:
		return tiers[0], closeAll, nil
	default:
		return &cache.Tiered{Stores: tiers, BackfillTTL: ttl}, closeAll, nil
	}
}

func openStore(ctx context.Context, spec string) (cache.Store, func() error, error) {
	switch {
	case spec == "memory":
		return new(cache.Memory), nil, nil

	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		store, closeStore, err := rediscache.Open(ctx, spec)
		return store, closeStore, errtrace.Wrap(err)

	case strings.HasPrefix(spec, "sqlite:"):
		path := strings.TrimPrefix(spec, "sqlite:")
		if len(path) == 0 {
			return nil, nil, errtrace.New("sqlite store needs a path")
		}
		store, err := sqlitecache.Open(path)
		if err != nil {
			return nil, nil, errtrace.Wrap(err)
		}
		return store, store.Close, nil

	default:
		return nil, nil, errtrace.New("unknown store: expected memory, redis://..., or sqlite:PATH")
	}
}
