package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers which order a client-supplied key produced.
type IdempotencyStore interface {
	// Get returns the order id recorded for key, or "" if there is none.
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, orderID string) error
}

func idemKey(userID, key string) string {
	return "idem:order:" + userID + ":" + key
}

type RedisIdempotency struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotency(client *redis.Client, ttl time.Duration) *RedisIdempotency {
	return &RedisIdempotency{client: client, ttl: ttl}
}

func (r *RedisIdempotency) Get(ctx context.Context, userID, key string) (string, error) {
	val, err := r.client.Get(ctx, idemKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisIdempotency) Set(ctx context.Context, userID, key, orderID string) error {
	return r.client.Set(ctx, idemKey(userID, key), orderID, r.ttl).Err()
}

// NewRedisClient parses redisURL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// MemoryIdempotency is the single-process fallback used when no Redis URL
// is configured.
type MemoryIdempotency struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	orderID   string
	expiresAt time.Time
}

func NewMemoryIdempotency(ttl time.Duration) *MemoryIdempotency {
	return &MemoryIdempotency{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryIdempotency) Get(_ context.Context, userID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := idemKey(userID, key)
	entry, ok := m.entries[k]
	if !ok {
		return "", nil
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, k)
		return "", nil
	}
	return entry.orderID, nil
}

func (m *MemoryIdempotency) Set(_ context.Context, userID, key, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[idemKey(userID, key)] = memoryEntry{orderID: orderID, expiresAt: m.now().Add(m.ttl)}
	return nil
}
