package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/shared/errors"
)

func TestSyncAllUsersUseCase_Execute_SkipsFailedUsers(t *testing.T) {
	repo := newMemorySessionRepository()

	ok := newActiveSession(t, "user_ok", time.Hour)
	ok.ProviderSessionID = "clerk_gone"
	repo.put(ok)
	failing := newActiveSession(t, "user_failing", time.Hour)
	failing.ProviderSessionID = "clerk_abc"
	repo.put(failing)

	provider := &mockIdentityProvider{
		ListActiveSessionIDsFunc: func(ctx context.Context, userID string) ([]string, error) {
			if userID == "user_failing" {
				return nil, errors.NewProviderUnavailableError("timeout")
			}
			return nil, nil
		},
	}

	syncUC := newSyncUseCase(repo, provider, &mockOrphanAudit{}, &mockEventPublisher{})
	uc := NewSyncAllUsersUseCase(repo, syncUC, testLogger())

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.UsersSynced)
	assert.Equal(t, 1, result.UsersSkipped)
	assert.Equal(t, 1, result.Revoked)
}

func TestSyncAllUsersUseCase_Execute_NoUsers(t *testing.T) {
	syncUC := newSyncUseCase(newMemorySessionRepository(), &mockIdentityProvider{}, &mockOrphanAudit{}, &mockEventPublisher{})
	uc := NewSyncAllUsersUseCase(newMemorySessionRepository(), syncUC, testLogger())

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.UsersSynced)
	assert.Zero(t, result.UsersSkipped)
}

func TestSyncAllUsersUseCase_Execute_StopsOnContextCancel(t *testing.T) {
	repo := newMemorySessionRepository()
	repo.put(newActiveSession(t, "user_1", time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	syncUC := newSyncUseCase(repo, &mockIdentityProvider{}, &mockOrphanAudit{}, &mockEventPublisher{})
	uc := NewSyncAllUsersUseCase(repo, syncUC, testLogger())

	_, err := uc.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
