package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventbooking/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:revoked:"

// redisCmds is the part of redis.Cmdable the revoker uses.
type redisCmds interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRevoker struct {
	client redisCmds
	now    func() time.Time
}

// NewRedisRevoker stores revoked token ids in Redis with a TTL matching the
// remaining token lifetime.
func NewRedisRevoker(client redis.Cmdable) domain.TokenRevoker {
	return &redisRevoker{client: client, now: time.Now}
}

func (r *redisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *redisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

// NewRedisClient connects to the Redis server at url (redis://...) and pings it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// memoryRevoker is used when Redis is not configured. Revocations only last for
// the lifetime of the process.
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker returns an in-process TokenRevoker.
func NewMemoryRevoker() domain.TokenRevoker {
	return &memoryRevoker{revoked: map[string]time.Time{}, now: time.Now}
}

func (m *memoryRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

func (m *memoryRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[tokenID]
	return ok && exp.After(m.now()), nil
}
