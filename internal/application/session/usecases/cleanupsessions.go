package usecases

import (
	"context"
	"fmt"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/config"
	"tienda/internal/shared/logger"
)

// CleanupSessionsUseCase is the periodic sweep: bulk-expire active sessions
// past their deadline, then hard-delete terminal rows older than the
// retention window. Cache entries for swept sessions age out on their own
// short TTL.
type CleanupSessionsUseCase struct {
	sessionRepo session.Repository
	cfg         *config.SessionConfig
	logger      logger.Interface
}

func NewCleanupSessionsUseCase(
	sessionRepo session.Repository,
	cfg *config.SessionConfig,
	logger logger.Interface,
) *CleanupSessionsUseCase {
	return &CleanupSessionsUseCase{
		sessionRepo: sessionRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Execute runs one sweep and reports how many rows it touched.
func (uc *CleanupSessionsUseCase) Execute(ctx context.Context) (*dto.CleanupResultDTO, error) {
	now := biztime.NowUTC()

	expired, err := uc.sessionRepo.ExpireDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire due sessions: %w", err)
	}

	cutoff := now.Add(-uc.cfg.Retention())
	purged, err := uc.sessionRepo.PurgeTerminatedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to purge terminated sessions: %w", err)
	}

	if expired > 0 || purged > 0 {
		uc.logger.Infow("session cleanup finished", "expired", expired, "purged", purged)
	}

	return &dto.CleanupResultDTO{Expired: expired, Purged: purged}, nil
}
