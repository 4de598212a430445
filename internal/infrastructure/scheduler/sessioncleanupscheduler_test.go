package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionUsecases "tienda/internal/application/session/usecases"
	"tienda/internal/domain/session"
	"tienda/internal/shared/config"
	"tienda/internal/shared/logger"
)

// sweepCountingRepo counts cleanup sweeps; everything else is inert.
type sweepCountingRepo struct {
	sweeps atomic.Int64
}

func (r *sweepCountingRepo) Create(ctx context.Context, s *session.Session) error { return nil }
func (r *sweepCountingRepo) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	return nil, nil
}
func (r *sweepCountingRepo) ListByUser(ctx context.Context, userID string, statuses ...session.Status) ([]*session.Session, error) {
	return nil, nil
}
func (r *sweepCountingRepo) UpdateWithVersion(ctx context.Context, s *session.Session) error {
	return nil
}
func (r *sweepCountingRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	r.sweeps.Add(1)
	return 0, nil
}
func (r *sweepCountingRepo) PurgeTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (r *sweepCountingRepo) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}
func (r *sweepCountingRepo) CountByStatus(ctx context.Context) (map[session.Status]int64, error) {
	return nil, nil
}
func (r *sweepCountingRepo) CountActiveByDeviceType(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}
func (r *sweepCountingRepo) CountTrusted(ctx context.Context) (int64, error) { return 0, nil }

func quietLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestScheduler(repo *sweepCountingRepo, interval time.Duration) *SessionCleanupScheduler {
	cfg := &config.SessionConfig{RetentionDays: 30}
	uc := sessionUsecases.NewCleanupSessionsUseCase(repo, cfg, quietLogger())
	return NewSessionCleanupScheduler(uc, interval, quietLogger())
}

func waitForSweeps(t *testing.T, repo *sweepCountingRepo, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.sweeps.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected at least %d sweeps, got %d", want, repo.sweeps.Load())
}

func TestSessionCleanupScheduler_RunsImmediatelyAndOnTicker(t *testing.T) {
	repo := &sweepCountingRepo{}
	s := newTestScheduler(repo, 20*time.Millisecond)

	s.Start(context.Background())
	defer s.Stop()

	// One sweep on startup, then the ticker takes over
	waitForSweeps(t, repo, 1)
	waitForSweeps(t, repo, 3)
}

func TestSessionCleanupScheduler_StopIsIdempotent(t *testing.T) {
	repo := &sweepCountingRepo{}
	s := newTestScheduler(repo, time.Hour)

	s.Start(context.Background())
	waitForSweeps(t, repo, 1)

	s.Stop()
	s.Stop()

	after := repo.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, repo.sweeps.Load())
}

func TestSessionCleanupScheduler_StopsOnContextCancellation(t *testing.T) {
	repo := &sweepCountingRepo{}
	s := newTestScheduler(repo, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	waitForSweeps(t, repo, 1)

	cancel()
	time.Sleep(50 * time.Millisecond)

	after := repo.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, repo.sweeps.Load())
}

func TestSessionCleanupScheduler_StartIsOneShot(t *testing.T) {
	repo := &sweepCountingRepo{}
	s := newTestScheduler(repo, time.Hour)

	// A second Start must not spawn a second loop; only one immediate
	// sweep may happen
	s.Start(context.Background())
	s.Start(context.Background())
	defer s.Stop()

	waitForSweeps(t, repo, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), repo.sweeps.Load())
}

func TestSessionCleanupScheduler_StartAfterStopIsNoOp(t *testing.T) {
	repo := &sweepCountingRepo{}
	s := newTestScheduler(repo, time.Hour)

	s.Start(context.Background())
	waitForSweeps(t, repo, 1)
	s.Stop()

	s.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), repo.sweeps.Load())
}

func TestSessionCleanupScheduler_RestartWithFreshInstance(t *testing.T) {
	repo := &sweepCountingRepo{}

	first := newTestScheduler(repo, time.Hour)
	first.Start(context.Background())
	waitForSweeps(t, repo, 1)
	first.Stop()

	second := newTestScheduler(repo, time.Hour)
	second.Start(context.Background())
	waitForSweeps(t, repo, 2)
	second.Stop()

	require.GreaterOrEqual(t, repo.sweeps.Load(), int64(2))
}
