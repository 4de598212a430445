package usecases

import (
	"context"
	"fmt"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/logger"
)

// SyncAllUsersUseCase runs provider reconciliation across every user with at
// least one active session. Per-user failures are soft: the user is skipped
// and picked up again on the next pass.
type SyncAllUsersUseCase struct {
	sessionRepo session.Repository
	syncUC      *SyncSessionsUseCase
	logger      logger.Interface
}

func NewSyncAllUsersUseCase(
	sessionRepo session.Repository,
	syncUC *SyncSessionsUseCase,
	logger logger.Interface,
) *SyncAllUsersUseCase {
	return &SyncAllUsersUseCase{
		sessionRepo: sessionRepo,
		syncUC:      syncUC,
		logger:      logger,
	}
}

// Execute reconciles all users sequentially and returns the aggregate. Only
// the user enumeration itself can fail the batch.
func (uc *SyncAllUsersUseCase) Execute(ctx context.Context) (*dto.SyncBatchResultDTO, error) {
	userIDs, err := uc.sessionRepo.ListActiveUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for sync: %w", err)
	}

	result := &dto.SyncBatchResultDTO{}
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		userResult, err := uc.syncUC.Execute(ctx, userID)
		if err != nil {
			uc.logger.Warnw("skipping user in sync batch", "user_id", userID, "error", err)
			result.UsersSkipped++
			continue
		}
		result.UsersSynced++
		result.Revoked += userResult.Revoked
		result.Orphans += userResult.Orphans
	}

	uc.logger.Infow("session sync batch finished",
		"users_synced", result.UsersSynced,
		"users_skipped", result.UsersSkipped,
		"revoked", result.Revoked,
		"orphans", result.Orphans,
	)
	return result, nil
}
