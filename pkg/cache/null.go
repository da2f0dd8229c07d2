package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses and writes are dropped. It
// backs --no-cache, the "none" backend, and the fallback when the cache
// directory is unusable.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a [NullCache].
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
