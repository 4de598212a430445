package session

import (
	"context"
	"time"
)

// Repository is the persistence port for sessions.
//
// Create fails with a conflict error when the ID already exists. Reads map
// missing rows to a not-found error. UpdateWithVersion applies the entity's
// state guarded by its Version counter and fails with a concurrency-conflict
// error when another writer got there first; on success the entity's Version
// is bumped. All reads return snapshots.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	// ListByUser returns the user's sessions ordered by last activity
	// descending. With no statuses given, all sessions are returned.
	ListByUser(ctx context.Context, userID string, statuses ...Status) ([]*Session, error)
	UpdateWithVersion(ctx context.Context, s *Session) error
	// ExpireDue bulk-transitions active sessions whose expiration has passed
	// to expired and returns the number of rows affected.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	// PurgeTerminatedBefore hard-deletes invalidated/expired sessions whose
	// last update is older than cutoff, returning the number of rows removed.
	PurgeTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// ListActiveUserIDs returns the distinct owners of active sessions, for
	// batched reconciliation against the identity provider.
	ListActiveUserIDs(ctx context.Context) ([]string, error)

	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CountActiveByDeviceType(ctx context.Context) (map[string]int64, error)
	CountTrusted(ctx context.Context) (int64, error)
}
