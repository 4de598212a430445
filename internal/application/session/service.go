// Package sessionapp exposes the session lifecycle application service.
package sessionapp

import (
	"context"

	"tienda/internal/application/session/dto"
	"tienda/internal/application/session/usecases"
	"tienda/internal/domain/session"
	"tienda/internal/domain/shared/events"
	"tienda/internal/shared/config"
	"tienda/internal/shared/logger"
)

// Service is the application service that orchestrates the session use
// cases. All use cases share one per-user lock set so multi-session
// operations for the same user never interleave.
type Service struct {
	createUC        *usecases.CreateSessionUseCase
	updateUC        *usecases.UpdateActivityUseCase
	validateUC      *usecases.ValidateSessionUseCase
	getUC           *usecases.GetSessionUseCase
	invalidateUC    *usecases.InvalidateSessionUseCase
	invalidateAllUC *usecases.InvalidateAllSessionsUseCase
	trustUC         *usecases.TrustDeviceUseCase
	syncUC          *usecases.SyncSessionsUseCase
	syncAllUC       *usecases.SyncAllUsersUseCase
	cleanupUC       *usecases.CleanupSessionsUseCase
	statsUC         *usecases.SessionStatsUseCase
	logger          logger.Interface
}

// NewService wires the use cases with their shared dependencies.
func NewService(
	sessionRepo session.Repository,
	cache usecases.RecordCache,
	orphans usecases.OrphanAudit,
	provider usecases.IdentityProvider,
	publisher events.EventPublisher,
	cfg *config.SessionConfig,
	logger logger.Interface,
) *Service {
	locks := usecases.NewUserLocks()
	invalidateUC := usecases.NewInvalidateSessionUseCase(sessionRepo, cache, publisher, logger)
	syncUC := usecases.NewSyncSessionsUseCase(sessionRepo, provider, orphans, invalidateUC, locks, logger)

	return &Service{
		createUC:        usecases.NewCreateSessionUseCase(sessionRepo, cache, publisher, locks, cfg, logger),
		updateUC:        usecases.NewUpdateActivityUseCase(sessionRepo, cache, cfg, logger),
		validateUC:      usecases.NewValidateSessionUseCase(sessionRepo, cache, logger),
		getUC:           usecases.NewGetSessionUseCase(sessionRepo, cache, logger),
		invalidateUC:    invalidateUC,
		invalidateAllUC: usecases.NewInvalidateAllSessionsUseCase(sessionRepo, cache, publisher, locks, logger),
		trustUC:         usecases.NewTrustDeviceUseCase(sessionRepo, cache, logger),
		syncUC:          syncUC,
		syncAllUC:       usecases.NewSyncAllUsersUseCase(sessionRepo, syncUC, logger),
		cleanupUC:       usecases.NewCleanupSessionsUseCase(sessionRepo, cfg, logger),
		statsUC:         usecases.NewSessionStatsUseCase(sessionRepo, orphans, logger),
		logger:          logger,
	}
}

// CreateSession registers a new session, evicting over the per-user cap.
func (s *Service) CreateSession(ctx context.Context, request dto.CreateSessionRequest) (*dto.SessionDTO, error) {
	return s.createUC.Execute(ctx, request)
}

// UpdateActivity records an activity heartbeat on a session.
func (s *Service) UpdateActivity(ctx context.Context, sessionID string, request dto.UpdateActivityRequest) (*dto.SessionDTO, error) {
	return s.updateUC.Execute(ctx, sessionID, request)
}

// ValidateSession reports whether the session is usable right now.
func (s *Service) ValidateSession(ctx context.Context, sessionID string) (*dto.SessionDTO, bool, error) {
	return s.validateUC.Execute(ctx, sessionID)
}

// GetSession returns the session regardless of status.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*dto.SessionDTO, error) {
	return s.getUC.ExecuteByID(ctx, sessionID)
}

// ListUserSessions returns the user's sessions, newest activity first.
func (s *Service) ListUserSessions(ctx context.Context, userID string, request dto.ListSessionsRequest) ([]*dto.SessionDTO, error) {
	return s.getUC.ExecuteList(ctx, userID, request)
}

// InvalidateSession revokes one session; idempotent on terminal sessions.
func (s *Service) InvalidateSession(ctx context.Context, sessionID, reason string) error {
	return s.invalidateUC.Execute(ctx, sessionID, reason)
}

// InvalidateAllSessions revokes the user's active sessions except the given
// one and returns the revoked count.
func (s *Service) InvalidateAllSessions(ctx context.Context, userID, exceptSessionID, reason string) (int, error) {
	return s.invalidateAllUC.Execute(ctx, userID, exceptSessionID, reason)
}

// TrustDevice marks the session's device as trusted.
func (s *Service) TrustDevice(ctx context.Context, sessionID string) (*dto.SessionDTO, error) {
	return s.trustUC.Execute(ctx, sessionID)
}

// SyncSessions reconciles one user against the identity provider.
func (s *Service) SyncSessions(ctx context.Context, userID string) (*dto.SyncResultDTO, error) {
	return s.syncUC.Execute(ctx, userID)
}

// SyncAllUsers reconciles every user with active sessions.
func (s *Service) SyncAllUsers(ctx context.Context) (*dto.SyncBatchResultDTO, error) {
	return s.syncAllUC.Execute(ctx)
}

// CleanupSessions runs one expiration-and-purge sweep.
func (s *Service) CleanupSessions(ctx context.Context) (*dto.CleanupResultDTO, error) {
	return s.cleanupUC.Execute(ctx)
}

// GetStats returns aggregate session counters.
func (s *Service) GetStats(ctx context.Context) (*dto.StatsDTO, error) {
	return s.statsUC.Execute(ctx)
}

// CleanupUseCase exposes the sweep use case for scheduler wiring.
func (s *Service) CleanupUseCase() *usecases.CleanupSessionsUseCase {
	return s.cleanupUC
}

// SyncAllUseCase exposes the batch sync use case for scheduler wiring.
func (s *Service) SyncAllUseCase() *usecases.SyncAllUsersUseCase {
	return s.syncAllUC
}
