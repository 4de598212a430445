package usecases

import (
	"context"
	stderrors "errors"

	"tienda/internal/domain/session"
	"tienda/internal/shared/errors"
)

// maxVersionRetries bounds re-reads when an optimistic update loses the race.
const maxVersionRetries = 3

// mutateWithRetry re-reads the session and applies mutate until the guarded
// update succeeds or the retry budget runs out. mutate may return an error to
// abort without writing; returning errSkipSave keeps the current state and
// reports success without touching the store.
func mutateWithRetry(
	ctx context.Context,
	repo session.Repository,
	sessionID string,
	mutate func(s *session.Session) error,
) (*session.Session, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		s, err := repo.GetByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		if err := mutate(s); err != nil {
			if err == errSkipSave {
				return s, nil
			}
			return nil, err
		}

		if err := repo.UpdateWithVersion(ctx, s); err != nil {
			if errors.IsConcurrencyConflictError(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return s, nil
	}
	return nil, lastErr
}

// errSkipSave signals mutateWithRetry that no write is needed.
var errSkipSave = stderrors.New("skip save")
