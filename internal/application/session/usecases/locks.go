package usecases

import "sync"

// UserLocks serializes multi-session mutations per user ID. The
// eviction-then-insert sequence in session creation and the bulk invalidation
// path must not interleave for the same user, or the per-user active-session
// cap could be breached. Single-session mutations rely on the store's
// optimistic version counter instead.
//
// Lock entries are never removed; the map is bounded by the number of
// distinct users seen by this process.
type UserLocks struct {
	locks sync.Map // userID -> *sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{}
}

// Lock acquires the mutex for the user and returns the unlock function.
func (l *UserLocks) Lock(userID string) func() {
	actual, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := actual.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
