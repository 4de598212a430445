package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// orphanUserPrefix keys the per-user set of orphan provider session IDs
	orphanUserPrefix = "session:orphans:"
	// orphanUsersKey indexes the users that currently have orphans flagged
	orphanUsersKey = "session:orphan_users"
)

// OrphanAuditStore records provider sessions that have no local counterpart.
// Sync flags them here for audit instead of auto-provisioning a local record
// with a fabricated device context.
type OrphanAuditStore struct {
	client *redis.Client
}

func NewOrphanAuditStore(client *redis.Client) *OrphanAuditStore {
	return &OrphanAuditStore{client: client}
}

// ReplaceOrphans overwrites the user's flagged orphan set with the given
// provider session IDs. An empty list clears the user's flags. Replacing
// rather than appending keeps repeated syncs idempotent.
func (s *OrphanAuditStore) ReplaceOrphans(ctx context.Context, userID string, providerSessionIDs []string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}

	key := s.userKey(userID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(providerSessionIDs) > 0 {
		members := make([]any, len(providerSessionIDs))
		for i, id := range providerSessionIDs {
			members[i] = id
		}
		pipe.SAdd(ctx, key, members...)
		pipe.SAdd(ctx, orphanUsersKey, userID)
	} else {
		pipe.SRem(ctx, orphanUsersKey, userID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace orphan flags: %w", err)
	}
	return nil
}

// CountOrphans returns the total number of flagged orphan provider sessions
// across all users.
func (s *OrphanAuditStore) CountOrphans(ctx context.Context) (int64, error) {
	userIDs, err := s.client.SMembers(ctx, orphanUsersKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list orphan users: %w", err)
	}

	var total int64
	for _, userID := range userIDs {
		count, err := s.client.SCard(ctx, s.userKey(userID)).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to count orphans for user %s: %w", userID, err)
		}
		total += count
	}
	return total, nil
}

// ListOrphans returns the flagged orphan provider session IDs for a user.
func (s *OrphanAuditStore) ListOrphans(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	members, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list orphans for user %s: %w", userID, err)
	}
	return members, nil
}

func (s *OrphanAuditStore) userKey(userID string) string {
	return orphanUserPrefix + userID
}
