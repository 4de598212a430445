package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tienda/internal/domain/session"
)

const (
	// SessionRecordPrefix is the Redis key prefix for cached session records
	SessionRecordPrefix = "session:record:"
	// SessionRecordTTL is the default TTL for cached records. Deliberately
	// seconds-scale: a cache entry must never outlive an invalidation by
	// more than this window, and every mutation deletes the entry anyway.
	SessionRecordTTL = 30 * time.Second
)

// SessionCache is a short-TTL read cache in front of the session store.
// It is advisory only; a miss or a Redis outage degrades to a store read.
type SessionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionCache creates a session record cache with the default TTL.
func NewSessionCache(client *redis.Client) *SessionCache {
	return NewSessionCacheWithTTL(client, SessionRecordTTL)
}

// NewSessionCacheWithTTL creates a session record cache with a custom TTL.
func NewSessionCacheWithTTL(client *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = SessionRecordTTL
	}
	return &SessionCache{
		client: client,
		prefix: SessionRecordPrefix,
		ttl:    ttl,
	}
}

// Get returns the cached record for the session ID, or (nil, nil) on a miss.
func (c *SessionCache) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	data, err := c.client.Get(ctx, c.buildKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session record from Redis: %w", err)
	}

	var record session.Session
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session record: %w", err)
	}
	return &record, nil
}

// Set stores a snapshot of the record under the configured TTL.
func (c *SessionCache) Set(ctx context.Context, record *session.Session) error {
	if record == nil || record.ID == "" {
		return errors.New("session record cannot be nil or unidentified")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	if err := c.client.Set(ctx, c.buildKey(record.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session record in Redis: %w", err)
	}
	return nil
}

// Invalidate removes the cache entries for the given session IDs. Mutating
// operations call this before returning so a subsequent read never observes
// a stale active status.
func (c *SessionCache) Invalidate(ctx context.Context, sessionIDs ...string) error {
	if len(sessionIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(sessionIDs))
	for _, sid := range sessionIDs {
		if sid == "" {
			continue
		}
		keys = append(keys, c.buildKey(sid))
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate session cache entries: %w", err)
	}
	return nil
}

func (c *SessionCache) buildKey(sessionID string) string {
	return c.prefix + sessionID
}
