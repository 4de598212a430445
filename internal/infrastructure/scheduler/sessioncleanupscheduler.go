package scheduler

import (
	"context"
	"sync"
	"time"

	sessionUsecases "tienda/internal/application/session/usecases"
	"tienda/internal/shared/logger"
)

// SessionCleanupScheduler runs the periodic session sweep: bulk expiration of
// overdue sessions and retention purge of old terminal rows. A sweep failure
// is logged and the loop keeps going; the next tick retries.
type SessionCleanupScheduler struct {
	cleanupUC *sessionUsecases.CleanupSessionsUseCase
	logger    logger.Interface
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	interval  time.Duration
	mu        sync.Mutex
	running   bool
}

// NewSessionCleanupScheduler creates a new SessionCleanupScheduler.
func NewSessionCleanupScheduler(
	cleanupUC *sessionUsecases.CleanupSessionsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *SessionCleanupScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionCleanupScheduler{
		cleanupUC: cleanupUC,
		logger:    logger,
		stopChan:  make(chan struct{}),
		interval:  interval,
	}
}

// Start starts the scheduler. At most one sweep loop runs per instance:
// calling Start again, including after Stop, is a no-op. A stopped
// scheduler is not restartable; create a new instance instead.
func (s *SessionCleanupScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Warnw("session cleanup scheduler already started")
		return
	}
	s.running = true

	s.logger.Infow("starting session cleanup scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully.
func (s *SessionCleanupScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping session cleanup scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("session cleanup scheduler stopped")
	})
}

func (s *SessionCleanupScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear anything that came due while the
	// process was down
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("session cleanup scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionCleanupScheduler) sweep(ctx context.Context) {
	s.logger.Debugw("session cleanup sweep started")

	startTime := time.Now()

	result, err := s.cleanupUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("session cleanup sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Expired > 0 || result.Purged > 0 {
		s.logger.Infow("session cleanup sweep finished",
			"expired", result.Expired,
			"purged", result.Purged,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no sessions to clean up",
			"duration", time.Since(startTime),
		)
	}
}
