package usecases

import (
	"context"
	"fmt"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/domain/shared/events"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/config"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
	"tienda/internal/shared/utils"
)

// CreateSessionUseCase registers a new session for a user, evicting the least
// recently active session when the per-user cap is reached.
type CreateSessionUseCase struct {
	sessionRepo session.Repository
	cache       RecordCache
	publisher   events.EventPublisher
	locks       *UserLocks
	cfg         *config.SessionConfig
	logger      logger.Interface
}

func NewCreateSessionUseCase(
	sessionRepo session.Repository,
	cache RecordCache,
	publisher events.EventPublisher,
	locks *UserLocks,
	cfg *config.SessionConfig,
	logger logger.Interface,
) *CreateSessionUseCase {
	return &CreateSessionUseCase{
		sessionRepo: sessionRepo,
		cache:       cache,
		publisher:   publisher,
		locks:       locks,
		cfg:         cfg,
		logger:      logger,
	}
}

// Execute creates the session. The user lock serializes eviction and insert
// so the cap holds even under concurrent sign-ins from the same user.
func (uc *CreateSessionUseCase) Execute(ctx context.Context, request dto.CreateSessionRequest) (*dto.SessionDTO, error) {
	if err := uc.ValidateRequest(request); err != nil {
		return nil, err
	}

	ua := utils.ParseUserAgent(request.UserAgent)
	device := session.DeviceInfo{
		DeviceType: ua.DeviceType,
		DeviceName: request.DeviceName,
		OS:         ua.OS,
		Browser:    ua.Browser,
	}

	now := biztime.NowUTC()
	expiresAt := now.Add(uc.cfg.InactivityWindow())
	if cap := now.Add(uc.cfg.MaxLifetime()); expiresAt.After(cap) {
		expiresAt = cap
	}

	entity, err := session.NewSession(request.UserID, request.ProviderSessionID, device, request.IPAddress, request.UserAgent, expiresAt)
	if err != nil {
		uc.logger.Errorw("failed to create session entity", "user_id", request.UserID, "error", err)
		return nil, errors.NewValidationError("invalid session data", err.Error())
	}
	entity.MergeMetadata(request.Metadata)

	unlock := uc.locks.Lock(request.UserID)
	defer unlock()

	if err := uc.evictOverCap(ctx, request.UserID, entity.ID); err != nil {
		return nil, err
	}

	if err := uc.sessionRepo.Create(ctx, entity); err != nil {
		uc.logger.Errorw("failed to persist session", "user_id", request.UserID, "error", err)
		return nil, err
	}

	// Prime the read cache; a failure here only costs a future cache miss.
	if err := uc.cache.Set(ctx, entity); err != nil {
		uc.logger.Warnw("failed to cache new session", "session_id", entity.ID, "error", err)
	}

	uc.logger.Infow("session created",
		"session_id", entity.ID,
		"user_id", entity.UserID,
		"device_type", entity.Device.DeviceType,
		"expires_at", entity.ExpiresAt,
	)

	return dto.FromEntity(entity, ""), nil
}

// evictOverCap invalidates the least recently active sessions until the user
// is below the cap, leaving room for the new one. Eviction events go out
// before the replacing session is inserted and carry its ID.
func (uc *CreateSessionUseCase) evictOverCap(ctx context.Context, userID, replacementID string) error {
	active, err := uc.sessionRepo.ListByUser(ctx, userID, session.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to list active sessions: %w", err)
	}
	if len(active) < uc.cfg.MaxSessionsPerUser {
		return nil
	}

	// ListByUser orders by last activity descending, so eviction candidates
	// sit at the tail.
	overflow := len(active) - uc.cfg.MaxSessionsPerUser + 1
	evictedIDs := make([]string, 0, overflow)
	for i := len(active) - 1; i >= 0 && overflow > 0; i-- {
		candidate := active[i]
		evicted, err := mutateWithRetry(ctx, uc.sessionRepo, candidate.ID, func(s *session.Session) error {
			if s.Status.IsTerminal() {
				// A concurrent sweep already terminated it; counts toward
				// the freed slot all the same.
				return errSkipSave
			}
			s.Invalidate("session_limit_exceeded", biztime.NowUTC())
			return nil
		})
		if err != nil {
			if errors.IsNotFoundError(err) {
				overflow--
				continue
			}
			return fmt.Errorf("failed to evict session %s: %w", candidate.ID, err)
		}
		overflow--
		evictedIDs = append(evictedIDs, evicted.ID)

		if err := uc.publisher.Publish(session.NewEvictedEvent(evicted, replacementID)); err != nil {
			uc.logger.Warnw("failed to publish eviction event", "session_id", evicted.ID, "error", err)
		}
		uc.logger.Infow("session evicted by concurrency limit", "session_id", evicted.ID, "user_id", userID)
	}

	if len(evictedIDs) > 0 {
		if err := uc.cache.Invalidate(ctx, evictedIDs...); err != nil {
			uc.logger.Warnw("failed to invalidate cache for evicted sessions", "error", err)
		}
	}
	return nil
}

// ValidateRequest validates the create session request.
func (uc *CreateSessionUseCase) ValidateRequest(request dto.CreateSessionRequest) error {
	return utils.ValidateStruct(&request)
}
