// Package cache stores recommendation results in Redis.
//
// A RedisCache with no reachable server is disabled: reads miss and writes
// are dropped, so callers can always fall back to scoring.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/rolematch/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "rolematch:rec:"

const pingTimeout = 2 * time.Second

// ErrDisabled is returned by Ping when no server is configured or reachable.
var ErrDisabled = errors.New("result cache disabled")

// RedisCache caches ranked role lists. The zero value and a nil pointer are
// both valid, disabled caches.
type RedisCache struct {
	client *redis.Client
	log    logger.Logger

	password string
	db       int

	warned atomic.Bool
}

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithPassword sets the AUTH password.
func WithPassword(p string) Option { return func(c *RedisCache) { c.password = p } }

// WithDB selects the logical database.
func WithDB(db int) Option { return func(c *RedisCache) { c.db = db } }

// WithLogger sets the logger used for degradation warnings.
func WithLogger(l logger.Logger) Option {
	return func(c *RedisCache) {
		if l != nil {
			c.log = l
		}
	}
}

// NewRedisCache connects to addr. An empty addr or a failed ping yields a
// disabled cache rather than an error.
func NewRedisCache(ctx context.Context, addr string, opts ...Option) *RedisCache {
	c := &RedisCache{log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if addr == "" {
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: c.password,
		DB:       c.db,
	})
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		c.log.Warn(ctx, "redis unavailable, bypassing result cache",
			logger.String("addr", addr), logger.Error(err))
		_ = client.Close()
		return c
	}
	c.client = client
	return c
}

// Enabled reports whether a server is attached.
func (c *RedisCache) Enabled() bool { return c != nil && c.client != nil }

// Ping checks the server.
func (c *RedisCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.client.Ping(ctx).Err()
}

// Get returns the cached roles for key. A miss is (nil, false, nil).
func (c *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.warnOnce(ctx, err)
		return nil, false, err
	}
	var roles []string
	if err := json.Unmarshal(b, &roles); err != nil {
		return nil, false, err
	}
	return roles, true, nil
}

// Set stores roles under key. A non-positive ttl keeps the entry until evicted.
func (c *RedisCache) Set(ctx context.Context, key string, roles []string, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if ttl < 0 {
		ttl = 0
	}
	b, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warnOnce(ctx, err)
		return err
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *RedisCache) warnOnce(ctx context.Context, err error) {
	if c.warned.CompareAndSwap(false, true) {
		c.log.Warn(ctx, "redis error, serving uncached results", logger.Error(err))
	}
}

// Key derives the cache key for one ranking request against the catalog
// identified by catalogID, so services on different catalogs never share
// entries.
func Key(catalogID, combinedFeatures string, topN int, alpha float64) string {
	h := sha256.New()
	h.Write([]byte(catalogID))
	h.Write([]byte{0})
	h.Write([]byte(combinedFeatures))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(topN)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(alpha, 'g', -1, 64)))
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}
