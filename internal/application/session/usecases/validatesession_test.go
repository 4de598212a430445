package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/domain/session"
	"tienda/internal/shared/biztime"
)

func TestValidateSessionUseCase_Execute_CacheHit(t *testing.T) {
	s := newActiveSession(t, "user_1", time.Minute)

	repo := &mockSessionRepository{
		GetByIDFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			t.Fatal("store must not be consulted on a valid cache hit")
			return nil, nil
		},
	}
	cache := &mockRecordCache{
		GetFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			return cloneSession(s), nil
		},
	}

	uc := NewValidateSessionUseCase(repo, cache, testLogger())

	result, valid, err := uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, s.ID, result.ID)
}

func TestValidateSessionUseCase_Execute_CacheMissPopulatesCache(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", time.Minute)
	repo.put(s)

	var cachedID string
	cache := &mockRecordCache{
		SetFunc: func(ctx context.Context, record *session.Session) error {
			cachedID = record.ID
			return nil
		},
	}

	uc := NewValidateSessionUseCase(repo, cache, testLogger())

	_, valid, err := uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, s.ID, cachedID)
}

func TestValidateSessionUseCase_Execute_UnknownSession(t *testing.T) {
	uc := NewValidateSessionUseCase(newMemorySessionRepository(), &mockRecordCache{}, testLogger())

	result, valid, err := uc.Execute(context.Background(), "sess_missing")
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Nil(t, result)
}

func TestValidateSessionUseCase_Execute_TerminalSession(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", time.Minute)
	s.Invalidate("user_logout", biztime.NowUTC())
	repo.put(s)

	uc := NewValidateSessionUseCase(repo, &mockRecordCache{}, testLogger())

	_, valid, err := uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateSessionUseCase_Execute_LazyExpiration(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", 5*time.Hour)
	s.ExpiresAt = biztime.NowUTC().Add(-time.Minute)
	repo.put(s)

	var invalidated []string
	cache := &mockRecordCache{
		InvalidateFunc: func(ctx context.Context, sessionIDs ...string) error {
			invalidated = append(invalidated, sessionIDs...)
			return nil
		},
	}

	uc := NewValidateSessionUseCase(repo, cache, testLogger())

	_, valid, err := uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, valid)

	// Expiration was persisted, not just reported
	stored := repo.get(s.ID)
	assert.Equal(t, session.StatusExpired, stored.Status)
	assert.Contains(t, invalidated, s.ID)

	// A second check gives the same answer
	_, valid, err = uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateSessionUseCase_Execute_StaleCacheEntryFallsThrough(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", time.Minute)
	repo.put(s)

	// Cache still holds a terminal copy; the store has the live row.
	staleCopy := cloneSession(s)
	staleCopy.Invalidate("user_logout", biztime.NowUTC())
	cache := &mockRecordCache{
		GetFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			return staleCopy, nil
		},
	}

	uc := NewValidateSessionUseCase(repo, cache, testLogger())

	_, valid, err := uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateSessionUseCase_Execute_CacheFailureIsSoft(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", time.Minute)
	repo.put(s)

	cache := &mockRecordCache{
		GetFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			return nil, assert.AnError
		},
		SetFunc: func(ctx context.Context, record *session.Session) error {
			return assert.AnError
		},
	}

	uc := NewValidateSessionUseCase(repo, cache, testLogger())

	_, valid, err := uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, valid)
}
