package scheduler

import (
	"context"
	"sync"
	"time"

	sessionUsecases "tienda/internal/application/session/usecases"
	"tienda/internal/shared/logger"
)

// SessionSyncScheduler periodically reconciles local sessions against the
// identity provider across all users with active sessions. Runs much less
// often than the cleanup sweep since every pass hits the provider API.
type SessionSyncScheduler struct {
	syncAllUC *sessionUsecases.SyncAllUsersUseCase
	logger    logger.Interface
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	interval  time.Duration
	mu        sync.Mutex
	running   bool
}

// NewSessionSyncScheduler creates a new SessionSyncScheduler.
func NewSessionSyncScheduler(
	syncAllUC *sessionUsecases.SyncAllUsersUseCase,
	interval time.Duration,
	logger logger.Interface,
) *SessionSyncScheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &SessionSyncScheduler{
		syncAllUC: syncAllUC,
		logger:    logger,
		stopChan:  make(chan struct{}),
		interval:  interval,
	}
}

// Start starts the scheduler. At most one sync loop runs per instance:
// calling Start again, including after Stop, is a no-op. A stopped
// scheduler is not restartable; create a new instance instead.
func (s *SessionSyncScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Warnw("session sync scheduler already started")
		return
	}
	s.running = true

	s.logger.Infow("starting session sync scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully.
func (s *SessionSyncScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping session sync scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("session sync scheduler stopped")
	})
}

func (s *SessionSyncScheduler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("session sync scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.syncAll(ctx)
		}
	}
}

func (s *SessionSyncScheduler) syncAll(ctx context.Context) {
	startTime := time.Now()

	result, err := s.syncAllUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("session sync batch failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	s.logger.Infow("session sync batch finished",
		"users_synced", result.UsersSynced,
		"users_skipped", result.UsersSkipped,
		"revoked", result.Revoked,
		"orphans", result.Orphans,
		"duration", time.Since(startTime),
	)
}
