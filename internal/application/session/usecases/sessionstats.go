package usecases

import (
	"context"
	"fmt"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/logger"
)

// SessionStatsUseCase aggregates read-only counters over the session store
// for dashboards and operational checks.
type SessionStatsUseCase struct {
	sessionRepo session.Repository
	orphans     OrphanAudit
	logger      logger.Interface
}

func NewSessionStatsUseCase(
	sessionRepo session.Repository,
	orphans OrphanAudit,
	logger logger.Interface,
) *SessionStatsUseCase {
	return &SessionStatsUseCase{
		sessionRepo: sessionRepo,
		orphans:     orphans,
		logger:      logger,
	}
}

// Execute collects the current counters. The orphan count lives in the
// advisory store; if it is unreachable the stat reads as zero rather than
// failing the whole call.
func (uc *SessionStatsUseCase) Execute(ctx context.Context) (*dto.StatsDTO, error) {
	byStatus, err := uc.sessionRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions by status: %w", err)
	}

	byDevice, err := uc.sessionRepo.CountActiveByDeviceType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions by device type: %w", err)
	}

	trusted, err := uc.sessionRepo.CountTrusted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count trusted sessions: %w", err)
	}

	orphanCount, err := uc.orphans.CountOrphans(ctx)
	if err != nil {
		uc.logger.Warnw("failed to count orphan sessions", "error", err)
		orphanCount = 0
	}

	stats := &dto.StatsDTO{
		Active:       byStatus[session.StatusActive],
		Invalidated:  byStatus[session.StatusInvalidated],
		Expired:      byStatus[session.StatusExpired],
		Trusted:      trusted,
		ByDeviceType: byDevice,
		Orphans:      orphanCount,
	}
	stats.Total = stats.Active + stats.Invalidated + stats.Expired
	return stats, nil
}
