// Package redis implements the order filter cache on top of go-redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultTTL    = 10 * time.Minute
	DefaultPrefix = "orders:"
)

// FilterCache stores the order ids of one filter stage as a JSON array with
// a fixed TTL. Entries are never invalidated on writes.
type FilterCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string

	hits   int64
	misses int64
}

var _ interfaces.FilterCache = (*FilterCache)(nil)

type Option func(*FilterCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *FilterCache) {
		c.ttl = ttl
	}
}

func WithPrefix(prefix string) Option {
	return func(c *FilterCache) {
		c.prefix = prefix
	}
}

func NewFilterCache(client *redis.Client, opts ...Option) *FilterCache {
	c := &FilterCache{
		client: client,
		ttl:    DefaultTTL,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reports a miss for absent keys, redis errors and undecodable payloads.
func (c *FilterCache) Get(ctx context.Context, key string) ([]int64, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	var ids []int64
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	return ids, true
}

func (c *FilterCache) Set(ctx context.Context, key string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal order ids: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

func (c *FilterCache) Stats() Stats {
	return Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

// NewClient builds a client and checks the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
