// Package requestcache deduplicates catalogue fetches within one request.
//
// A Cache lives exactly as long as the request that created it. The first call
// for a key runs the fetch; concurrent callers wait for that call and later
// callers receive the settled value or error. Nothing is shared across
// requests, so there is no invalidation.
package requestcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds the settled results of one request.
type Cache struct {
	requestID string
	group     singleflight.Group

	mu      sync.Mutex
	settled map[string]result
}

type result struct {
	value any
	err   error
}

// New creates an empty cache for the given request.
func New(requestID string) *Cache {
	return &Cache{
		requestID: requestID,
		settled:   make(map[string]result),
	}
}

// RequestID returns the id of the request that owns the cache.
func (c *Cache) RequestID() string {
	return c.requestID
}

type contextKey struct{}

// WithCache returns a copy of ctx carrying c.
func WithCache(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the cache carried by ctx, or nil.
func FromContext(ctx context.Context) *Cache {
	c, _ := ctx.Value(contextKey{}).(*Cache)
	return c
}

// Do returns the result of fn for key, running fn at most once per request.
// Without a cache in ctx, fn runs on every call.
func Do[T any](ctx context.Context, key string, fn func() (T, error)) (T, error) {
	c := FromContext(ctx)
	if c == nil {
		return fn()
	}

	if r, ok := c.lookup(key); ok {
		return typed[T](r)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that lost the race to the map read may arrive after the
		// previous flight has settled.
		if r, ok := c.lookup(key); ok {
			return r.value, r.err
		}

		value, err := fn()
		c.store(key, result{value: value, err: err})
		return value, err
	})

	return typed[T](result{value: v, err: err})
}

func (c *Cache) lookup(key string) (result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.settled[key]
	return r, ok
}

func (c *Cache) store(key string, r result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settled[key] = r
}

func typed[T any](r result) (T, error) {
	v, _ := r.value.(T)
	return v, r.err
}
