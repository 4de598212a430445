package usecases

import (
	"context"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/logger"
)

// GetSessionUseCase reads session records for display. Unlike validation it
// returns terminal sessions too, so audit views can show revocation details.
type GetSessionUseCase struct {
	sessionRepo session.Repository
	cache       RecordCache
	logger      logger.Interface
}

func NewGetSessionUseCase(
	sessionRepo session.Repository,
	cache RecordCache,
	logger logger.Interface,
) *GetSessionUseCase {
	return &GetSessionUseCase{
		sessionRepo: sessionRepo,
		cache:       cache,
		logger:      logger,
	}
}

// ExecuteByID returns the session regardless of status. Missing sessions
// surface as a not-found error.
func (uc *GetSessionUseCase) ExecuteByID(ctx context.Context, sessionID string) (*dto.SessionDTO, error) {
	cached, err := uc.cache.Get(ctx, sessionID)
	if err != nil {
		uc.logger.Warnw("session cache read failed", "session_id", sessionID, "error", err)
	}
	if cached != nil {
		return dto.FromEntity(cached, ""), nil
	}

	s, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return dto.FromEntity(s, ""), nil
}

// ExecuteList returns the user's sessions ordered by last activity, newest
// first. By default only currently valid sessions are included; with
// IncludeInactive the full history (bounded by retention) comes back.
func (uc *GetSessionUseCase) ExecuteList(ctx context.Context, userID string, request dto.ListSessionsRequest) ([]*dto.SessionDTO, error) {
	var statuses []session.Status
	if !request.IncludeInactive {
		statuses = []session.Status{session.StatusActive}
	}

	sessions, err := uc.sessionRepo.ListByUser(ctx, userID, statuses...)
	if err != nil {
		return nil, err
	}

	if !request.IncludeInactive {
		// Active rows whose deadline passed are awaiting the sweep; hide
		// them the same way validation would reject them.
		now := biztime.NowUTC()
		filtered := sessions[:0]
		for _, s := range sessions {
			if !s.IsExpiredAt(now) {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}

	return dto.FromEntities(sessions, request.CurrentSessionID), nil
}
