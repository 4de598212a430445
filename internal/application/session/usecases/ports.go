// Package usecases holds the session lifecycle use cases. All mutations of
// session state flow through them so the per-user concurrency limit and the
// write-then-invalidate cache ordering hold everywhere.
package usecases

import (
	"context"

	"tienda/internal/domain/session"
)

// RecordCache is the advisory short-TTL read cache in front of the store.
// A (nil, nil) result from Get is a miss; correctness never depends on hits.
type RecordCache interface {
	Get(ctx context.Context, sessionID string) (*session.Session, error)
	Set(ctx context.Context, record *session.Session) error
	Invalidate(ctx context.Context, sessionIDs ...string) error
}

// OrphanAudit records provider sessions that have no local counterpart.
type OrphanAudit interface {
	ReplaceOrphans(ctx context.Context, userID string, providerSessionIDs []string) error
	CountOrphans(ctx context.Context) (int64, error)
}

// IdentityProvider exposes the external provider's authoritative session
// list. Failures are soft: sync skips the affected user and local sessions
// stay valid until the next successful pass.
type IdentityProvider interface {
	ListActiveSessionIDs(ctx context.Context, userID string) ([]string, error)
}
