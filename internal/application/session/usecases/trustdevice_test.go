package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/shared/biztime"
	"tienda/internal/shared/errors"
)

func TestTrustDeviceUseCase_Execute_Success(t *testing.T) {
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

	uc := NewTrustDeviceUseCase(repo, cache, testLogger())

	result, err := uc.Execute(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, result.IsTrusted)
	assert.True(t, repo.get(s.ID).IsTrusted)
	assert.Contains(t, invalidated, s.ID)
}

func TestTrustDeviceUseCase_Execute_TerminalSession(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", time.Hour)
	s.Invalidate("user_logout", biztime.NowUTC())
	repo.put(s)

	uc := NewTrustDeviceUseCase(repo, &mockRecordCache{}, testLogger())

	_, err := uc.Execute(context.Background(), s.ID)
	assert.True(t, errors.IsSessionNotActiveError(err))
}

func TestTrustDeviceUseCase_Execute_ExpiredSession(t *testing.T) {
	repo := newMemorySessionRepository()
	s := newActiveSession(t, "user_1", 5*time.Hour)
	s.ExpiresAt = biztime.NowUTC().Add(-time.Minute)
	repo.put(s)

	uc := NewTrustDeviceUseCase(repo, &mockRecordCache{}, testLogger())

	_, err := uc.Execute(context.Background(), s.ID)
	assert.True(t, errors.IsSessionNotActiveError(err))
	assert.False(t, repo.get(s.ID).IsTrusted)
}

func TestTrustDeviceUseCase_Execute_UnknownSession(t *testing.T) {
	uc := NewTrustDeviceUseCase(newMemorySessionRepository(), &mockRecordCache{}, testLogger())

	_, err := uc.Execute(context.Background(), "sess_missing")
	assert.True(t, errors.IsNotFoundError(err))
}
