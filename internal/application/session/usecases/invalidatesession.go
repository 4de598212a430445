package usecases

import (
	"context"

	"tienda/internal/domain/session"
	"tienda/internal/domain/shared/events"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
)

// ReasonUserLogout is the default invalidation reason when none is given.
const ReasonUserLogout = "user_logout"

// InvalidateSessionUseCase revokes a single session. Revoking an already
// terminal session succeeds silently so retried logouts stay idempotent;
// unknown session IDs are an error.
type InvalidateSessionUseCase struct {
	sessionRepo session.Repository
	cache       RecordCache
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewInvalidateSessionUseCase(
	sessionRepo session.Repository,
	cache RecordCache,
	publisher events.EventPublisher,
	logger logger.Interface,
) *InvalidateSessionUseCase {
	return &InvalidateSessionUseCase{
		sessionRepo: sessionRepo,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute invalidates the session with the given reason.
func (uc *InvalidateSessionUseCase) Execute(ctx context.Context, sessionID, reason string) error {
	if reason == "" {
		reason = ReasonUserLogout
	}

	alreadyTerminal := false
	updated, err := mutateWithRetry(ctx, uc.sessionRepo, sessionID, func(s *session.Session) error {
		if s.Status.IsTerminal() {
			alreadyTerminal = true
			return errSkipSave
		}
		s.Invalidate(reason, biztime.NowUTC())
		return nil
	})
	if err != nil {
		if errors.IsNotFoundError(err) {
			uc.logger.Warnw("invalidate requested for unknown session", "session_id", sessionID)
		}
		return err
	}

	if err := uc.cache.Invalidate(ctx, sessionID); err != nil {
		uc.logger.Warnw("failed to invalidate session cache", "session_id", sessionID, "error", err)
	}

	if alreadyTerminal {
		return nil
	}

	if err := uc.publisher.Publish(session.NewInvalidatedEvent(updated, reason)); err != nil {
		uc.logger.Warnw("failed to publish invalidation event", "session_id", sessionID, "error", err)
	}

	uc.logger.Infow("session invalidated", "session_id", sessionID, "user_id", updated.UserID, "reason", reason)
	return nil
}
