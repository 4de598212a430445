package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/application/session/dto"
	"tienda/internal/domain/session"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/errors"
)

func TestUpdateActivityUseCase_Execute_Success(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", time.Hour)
	repo.put(s)

	var invalidated []string
	cache := &mockRecordCache{
		InvalidateFunc: func(ctx context.Context, sessionIDs ...string) error {
			invalidated = append(invalidated, sessionIDs...)
			return nil
		},
	}

	uc := NewUpdateActivityUseCase(repo, cache, testSessionConfig(), testLogger())

	result, err := uc.Execute(context.Background(), s.ID, dto.UpdateActivityRequest{
		IPAddress: "198.51.100.99",
		Metadata:  map[string]any{"page": "/checkout"},
	})

	require.NoError(t, err)
	assert.True(t, result.LastActivityAt.After(s.LastActivityAt))
	assert.Equal(t, "198.51.100.99", result.IPAddress)
	assert.Equal(t, "/checkout", result.Metadata["page"])
	assert.Contains(t, invalidated, s.ID)

	stored := repo.get(s.ID)
	assert.WithinDuration(t, biztime.NowUTC().Add(2*time.Hour), stored.ExpiresAt, 5*time.Second)
}

func TestUpdateActivityUseCase_Execute_NotActive(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", time.Hour)
	s.Invalidate("user_logout", biztime.NowUTC())
	repo.put(s)

	uc := NewUpdateActivityUseCase(repo, &mockRecordCache{}, testSessionConfig(), testLogger())

	_, err := uc.Execute(context.Background(), s.ID, dto.UpdateActivityRequest{})
	assert.True(t, errors.IsSessionNotActiveError(err))
}

func TestUpdateActivityUseCase_Execute_LazyExpiration(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", 5*time.Hour)
	s.ExpiresAt = biztime.NowUTC().Add(-time.Minute)
	repo.put(s)

	uc := NewUpdateActivityUseCase(repo, &mockRecordCache{}, testSessionConfig(), testLogger())

	_, err := uc.Execute(context.Background(), s.ID, dto.UpdateActivityRequest{})
	assert.True(t, errors.IsSessionNotActiveError(err))

	// The heartbeat persisted the expiration instead of resurrecting the session
	stored := repo.get(s.ID)
	assert.Equal(t, session.StatusExpired, stored.Status)
	assert.Equal(t, "inactivity", stored.Metadata[session.MetaExpiredReason])
}

func TestUpdateActivityUseCase_Execute_UnknownSession(t *testing.T) {
	uc := NewUpdateActivityUseCase(newMemorySessionRepository(), &mockRecordCache{}, testSessionConfig(), testLogger())

	_, err := uc.Execute(context.Background(), "sess_missing", dto.UpdateActivityRequest{})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestUpdateActivityUseCase_Execute_RetriesOnVersionConflict(t *testing.T) {
	base := newActiveSession(t, "user_1", time.Hour)
	base.Version = 1

	updates := 0
	repo := &mockSessionRepository{
		GetByIDFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			return cloneSession(base), nil
		},
		UpdateWithVersionFunc: func(ctx context.Context, s *session.Session) error {
			updates++
			if updates == 1 {
				return errsConcurrency(s.ID)
			}
			s.Version++
			return nil
		},
	}

	uc := NewUpdateActivityUseCase(repo, &mockRecordCache{}, testSessionConfig(), testLogger())

	_, err := uc.Execute(context.Background(), base.ID, dto.UpdateActivityRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, updates)
}

func TestUpdateActivityUseCase_Execute_GivesUpAfterRetryBudget(t *testing.T) {
	base := newActiveSession(t, "user_1", time.Hour)

	repo := &mockSessionRepository{
		GetByIDFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			return cloneSession(base), nil
		},
		UpdateWithVersionFunc: func(ctx context.Context, s *session.Session) error {
			return errsConcurrency(s.ID)
		},
	}

	uc := NewUpdateActivityUseCase(repo, &mockRecordCache{}, testSessionConfig(), testLogger())

	_, err := uc.Execute(context.Background(), base.ID, dto.UpdateActivityRequest{})
	assert.True(t, errors.IsConcurrencyConflictError(err))
}
