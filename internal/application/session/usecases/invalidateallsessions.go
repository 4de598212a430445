package usecases

import (
	"context"
	"fmt"

	"tienda/internal/domain/session"
	"tienda/internal/domain/shared/events"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
)

// InvalidateAllSessionsUseCase revokes every active session of a user, used
// for sign-out-everywhere and credential-change flows. An exception ID lets
// the caller keep their current session alive.
type InvalidateAllSessionsUseCase struct {
	sessionRepo session.Repository
	cache       RecordCache
	publisher   events.EventPublisher
	locks       *UserLocks
	logger      logger.Interface
}

func NewInvalidateAllSessionsUseCase(
	sessionRepo session.Repository,
	cache RecordCache,
	publisher events.EventPublisher,
	locks *UserLocks,
	logger logger.Interface,
) *InvalidateAllSessionsUseCase {
	return &InvalidateAllSessionsUseCase{
		sessionRepo: sessionRepo,
		cache:       cache,
		publisher:   publisher,
		locks:       locks,
		logger:      logger,
	}
}

// Execute invalidates the user's active sessions except exceptSessionID (may
// be empty) and returns how many were revoked. Sessions another writer
// terminates mid-pass are not counted.
func (uc *InvalidateAllSessionsUseCase) Execute(ctx context.Context, userID, exceptSessionID, reason string) (int, error) {
	if userID == "" {
		return 0, errors.NewValidationError("user ID is required")
	}
	if reason == "" {
		reason = ReasonUserLogout
	}

	unlock := uc.locks.Lock(userID)
	defer unlock()

	active, err := uc.sessionRepo.ListByUser(ctx, userID, session.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to list active sessions: %w", err)
	}

	revoked := 0
	invalidatedIDs := make([]string, 0, len(active))
	for _, candidate := range active {
		if candidate.ID == exceptSessionID {
			continue
		}

		alreadyTerminal := false
		updated, err := mutateWithRetry(ctx, uc.sessionRepo, candidate.ID, func(s *session.Session) error {
			if s.Status.IsTerminal() {
				alreadyTerminal = true
				return errSkipSave
			}
			s.Invalidate(reason, biztime.NowUTC())
			return nil
		})
		if err != nil {
			if errors.IsNotFoundError(err) {
				continue
			}
			return revoked, fmt.Errorf("failed to invalidate session %s: %w", candidate.ID, err)
		}
		if alreadyTerminal {
			continue
		}

		revoked++
		invalidatedIDs = append(invalidatedIDs, updated.ID)
		if err := uc.publisher.Publish(session.NewInvalidatedEvent(updated, reason)); err != nil {
			uc.logger.Warnw("failed to publish invalidation event", "session_id", updated.ID, "error", err)
		}
	}

	if len(invalidatedIDs) > 0 {
		if err := uc.cache.Invalidate(ctx, invalidatedIDs...); err != nil {
			uc.logger.Warnw("failed to invalidate session cache", "user_id", userID, "error", err)
		}
	}

	uc.logger.Infow("user sessions invalidated", "user_id", userID, "revoked", revoked, "reason", reason)
	return revoked, nil
}
