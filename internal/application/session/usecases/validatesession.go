package usecases

import (
	"context"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
)

// ValidateSessionUseCase answers "is this session usable right now". It is
// the hot read path: cache first, store on miss, and lazy expiration of
// sessions whose deadline passed before the background sweep got to them.
type ValidateSessionUseCase struct {
	sessionRepo session.Repository
	cache       RecordCache
	logger      logger.Interface
}

func NewValidateSessionUseCase(
	sessionRepo session.Repository,
	cache RecordCache,
	logger logger.Interface,
) *ValidateSessionUseCase {
	return &ValidateSessionUseCase{
		sessionRepo: sessionRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Execute returns the session and true when it is valid. Unknown, terminal
// and just-expired sessions all yield (nil, false, nil); only infrastructure
// failures surface as errors.
func (uc *ValidateSessionUseCase) Execute(ctx context.Context, sessionID string) (*dto.SessionDTO, bool, error) {
	now := biztime.NowUTC()

	cached, err := uc.cache.Get(ctx, sessionID)
	if err != nil {
		uc.logger.Warnw("session cache read failed", "session_id", sessionID, "error", err)
	}
	if cached != nil {
		if cached.IsActive() && !cached.IsExpiredAt(now) {
			return dto.FromEntity(cached, ""), true, nil
		}
		// Stale or terminal cache entry; fall through to the store so the
		// lazy expiration is persisted.
	}

	s, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if !s.IsActive() {
		return nil, false, nil
	}

	if s.IsExpiredAt(now) {
		uc.expireLazily(ctx, sessionID)
		return nil, false, nil
	}

	if err := uc.cache.Set(ctx, s); err != nil {
		uc.logger.Warnw("failed to cache session", "session_id", sessionID, "error", err)
	}
	return dto.FromEntity(s, ""), true, nil
}

// expireLazily persists the expired state ahead of the next sweep. Losing
// the version race means someone else already transitioned it; either way
// the cache entry is dropped.
func (uc *ValidateSessionUseCase) expireLazily(ctx context.Context, sessionID string) {
	_, err := mutateWithRetry(ctx, uc.sessionRepo, sessionID, func(s *session.Session) error {
		if s.Status.IsTerminal() {
			return errSkipSave
		}
		s.Expire("inactivity", biztime.NowUTC())
		return nil
	})
	if err != nil && !errors.IsNotFoundError(err) {
		uc.logger.Warnw("failed to lazily expire session", "session_id", sessionID, "error", err)
	}

	if err := uc.cache.Invalidate(ctx, sessionID); err != nil {
		uc.logger.Warnw("failed to invalidate session cache", "session_id", sessionID, "error", err)
	}
}
