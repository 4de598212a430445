package usecases

import (
	"context"
	"fmt"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/logger"
)

// ReasonProviderRevoked marks sessions invalidated because the identity
// provider no longer lists them as active.
const ReasonProviderRevoked = "provider_revoked"

// SyncSessionsUseCase reconciles one user's local sessions against the
// identity provider. The provider's active list is authoritative for
// provider-backed sessions: local sessions it no longer lists get revoked,
// and provider sessions with no local counterpart are recorded for audit,
// never auto-provisioned.
type SyncSessionsUseCase struct {
	sessionRepo  session.Repository
	provider     IdentityProvider
	orphans      OrphanAudit
	invalidateUC *InvalidateSessionUseCase
	locks        *UserLocks
	logger       logger.Interface
}

func NewSyncSessionsUseCase(
	sessionRepo session.Repository,
	provider IdentityProvider,
	orphans OrphanAudit,
	invalidateUC *InvalidateSessionUseCase,
	locks *UserLocks,
	logger logger.Interface,
) *SyncSessionsUseCase {
	return &SyncSessionsUseCase{
		sessionRepo:  sessionRepo,
		provider:     provider,
		orphans:      orphans,
		invalidateUC: invalidateUC,
		locks:        locks,
		logger:       logger,
	}
}

// Execute reconciles the user. A provider failure aborts the pass with a
// provider-unavailable error and leaves local state untouched; the caller
// decides whether that is fatal.
func (uc *SyncSessionsUseCase) Execute(ctx context.Context, userID string) (*dto.SyncResultDTO, error) {
	providerIDs, err := uc.provider.ListActiveSessionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(userID)
	defer unlock()

	local, err := uc.sessionRepo.ListByUser(ctx, userID, session.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	providerSet := make(map[string]struct{}, len(providerIDs))
	for _, id := range providerIDs {
		providerSet[id] = struct{}{}
	}

	revoked := 0
	matched := make(map[string]struct{}, len(local))
	for _, s := range local {
		if s.ProviderSessionID == "" {
			// Local-only session; the provider has no say over it.
			continue
		}
		if _, ok := providerSet[s.ProviderSessionID]; ok {
			matched[s.ProviderSessionID] = struct{}{}
			continue
		}
		if err := uc.invalidateUC.Execute(ctx, s.ID, ReasonProviderRevoked); err != nil {
			uc.logger.Warnw("failed to revoke provider-removed session", "session_id", s.ID, "error", err)
			continue
		}
		revoked++
	}

	orphanIDs := make([]string, 0)
	for _, id := range providerIDs {
		if _, ok := matched[id]; !ok {
			orphanIDs = append(orphanIDs, id)
		}
	}
	if err := uc.orphans.ReplaceOrphans(ctx, userID, orphanIDs); err != nil {
		uc.logger.Warnw("failed to record orphan sessions", "user_id", userID, "error", err)
	}

	if revoked > 0 || len(orphanIDs) > 0 {
		uc.logger.Infow("sessions reconciled with provider",
			"user_id", userID,
			"provider_active", len(providerIDs),
			"revoked", revoked,
			"orphans", len(orphanIDs),
		)
	}

	return &dto.SyncResultDTO{
		UserID:         userID,
		Revoked:        revoked,
		Orphans:        len(orphanIDs),
		ProviderActive: len(providerIDs),
	}, nil
}
