package usecases

import (
	"context"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
)

// TrustDeviceUseCase marks a session's device as trusted. Only currently
// valid sessions can be trusted.
type TrustDeviceUseCase struct {
	sessionRepo session.Repository
	cache       RecordCache
	logger      logger.Interface
}

func NewTrustDeviceUseCase(
	sessionRepo session.Repository,
	cache RecordCache,
	logger logger.Interface,
) *TrustDeviceUseCase {
	return &TrustDeviceUseCase{
		sessionRepo: sessionRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Execute trusts the session's device and returns the updated session.
// A missing session yields NotFound; a session that exists but is
// invalidated, expired, or past its expiry yields SessionNotActive, so
// callers can tell "never existed" apart from "no longer usable".
func (uc *TrustDeviceUseCase) Execute(ctx context.Context, sessionID string) (*dto.SessionDTO, error) {
	updated, err := mutateWithRetry(ctx, uc.sessionRepo, sessionID, func(s *session.Session) error {
		if !s.IsActive() {
			return errors.NewSessionNotActiveError(s.ID, string(s.Status))
		}
		if s.IsExpiredAt(biztime.NowUTC()) {
			return errors.NewSessionNotActiveError(s.ID, string(session.StatusExpired))
		}
		return s.Trust()
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, sessionID); err != nil {
		uc.logger.Warnw("failed to invalidate session cache", "session_id", sessionID, "error", err)
	}

	uc.logger.Infow("device trusted", "session_id", sessionID, "user_id", updated.UserID)
	return dto.FromEntity(updated, ""), nil
}
