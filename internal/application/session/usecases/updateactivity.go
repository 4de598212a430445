package usecases

import (
	"context"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/config"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
)

// UpdateActivityUseCase records an activity heartbeat on a session, sliding
// its expiration forward within the absolute lifetime cap.
type UpdateActivityUseCase struct {
	sessionRepo session.Repository
	cache       RecordCache
	cfg         *config.SessionConfig
	logger      logger.Interface
}

func NewUpdateActivityUseCase(
	sessionRepo session.Repository,
	cache RecordCache,
	cfg *config.SessionConfig,
	logger logger.Interface,
) *UpdateActivityUseCase {
	return &UpdateActivityUseCase{
		sessionRepo: sessionRepo,
		cache:       cache,
		cfg:         cfg,
		logger:      logger,
	}
}

// Execute touches the session. A session whose expiration already passed is
// lazily transitioned to expired and the call fails as not-active; heartbeats
// never resurrect a session.
func (uc *UpdateActivityUseCase) Execute(ctx context.Context, sessionID string, request dto.UpdateActivityRequest) (*dto.SessionDTO, error) {
	lazyExpired := false
	updated, err := mutateWithRetry(ctx, uc.sessionRepo, sessionID, func(s *session.Session) error {
		now := biztime.NowUTC()
		if !s.IsActive() {
			return errors.NewSessionNotActiveError(s.ID, string(s.Status))
		}
		if s.IsExpiredAt(now) {
			s.Expire("inactivity", now)
			lazyExpired = true
			return nil
		}

		if err := s.Touch(now, uc.cfg.InactivityWindow(), uc.cfg.MaxLifetime()); err != nil {
			return errors.NewSessionNotActiveError(s.ID, string(s.Status))
		}
		if request.IPAddress != "" {
			s.IPAddress = request.IPAddress
		}
		s.MergeMetadata(request.Metadata)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, sessionID); err != nil {
		uc.logger.Warnw("failed to invalidate session cache", "session_id", sessionID, "error", err)
	}

	if lazyExpired {
		uc.logger.Infow("session lazily expired on activity update", "session_id", sessionID)
		return nil, errors.NewSessionNotActiveError(sessionID, string(session.StatusExpired))
	}

	return dto.FromEntity(updated, ""), nil
}
