package usecases

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"tienda/internal/domain/session"
	"tienda/internal/domain/shared/events"
	"tienda/internal/shared/biztime"
	"tienda/internal/shared/config"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSessionConfig() *config.SessionConfig {
	return &config.SessionConfig{
		MaxSessionsPerUser:     3,
		InactivityMinutes:      120,
		MaxLifetimeHours:       24,
		CacheTTLSeconds:        30,
		CleanupIntervalMinutes: 60,
		SyncIntervalMinutes:    360,
		RetentionDays:          30,
	}
}

type mockSessionRepository struct {
	CreateFunc                  func(ctx context.Context, s *session.Session) error
	GetByIDFunc                 func(ctx context.Context, sessionID string) (*session.Session, error)
	ListByUserFunc              func(ctx context.Context, userID string, statuses ...session.Status) ([]*session.Session, error)
	UpdateWithVersionFunc       func(ctx context.Context, s *session.Session) error
	ExpireDueFunc               func(ctx context.Context, now time.Time) (int64, error)
	PurgeTerminatedBeforeFunc   func(ctx context.Context, cutoff time.Time) (int64, error)
	ListActiveUserIDsFunc       func(ctx context.Context) ([]string, error)
	CountByStatusFunc           func(ctx context.Context) (map[session.Status]int64, error)
	CountActiveByDeviceTypeFunc func(ctx context.Context) (map[string]int64, error)
	CountTrustedFunc            func(ctx context.Context) (int64, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, s *session.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockSessionRepository) ListByUser(ctx context.Context, userID string, statuses ...session.Status) ([]*session.Session, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, statuses...)
	}
	return nil, nil
}

func (m *mockSessionRepository) UpdateWithVersion(ctx context.Context, s *session.Session) error {
	if m.UpdateWithVersionFunc != nil {
		return m.UpdateWithVersionFunc(ctx, s)
	}
	s.Version++
	return nil
}

func (m *mockSessionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	if m.ExpireDueFunc != nil {
		return m.ExpireDueFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockSessionRepository) PurgeTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.PurgeTerminatedBeforeFunc != nil {
		return m.PurgeTerminatedBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *mockSessionRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	if m.ListActiveUserIDsFunc != nil {
		return m.ListActiveUserIDsFunc(ctx)
	}
	return nil, nil
}

func (m *mockSessionRepository) CountByStatus(ctx context.Context) (map[session.Status]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[session.Status]int64{}, nil
}

func (m *mockSessionRepository) CountActiveByDeviceType(ctx context.Context) (map[string]int64, error) {
	if m.CountActiveByDeviceTypeFunc != nil {
		return m.CountActiveByDeviceTypeFunc(ctx)
	}
	return map[string]int64{}, nil
}

func (m *mockSessionRepository) CountTrusted(ctx context.Context) (int64, error) {
	if m.CountTrustedFunc != nil {
		return m.CountTrustedFunc(ctx)
	}
	return 0, nil
}

type mockRecordCache struct {
	GetFunc        func(ctx context.Context, sessionID string) (*session.Session, error)
	SetFunc        func(ctx context.Context, record *session.Session) error
	InvalidateFunc func(ctx context.Context, sessionIDs ...string) error
}

func (m *mockRecordCache) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockRecordCache) Set(ctx context.Context, record *session.Session) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, record)
	}
	return nil
}

func (m *mockRecordCache) Invalidate(ctx context.Context, sessionIDs ...string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, sessionIDs...)
	}
	return nil
}

type mockOrphanAudit struct {
	ReplaceOrphansFunc func(ctx context.Context, userID string, providerSessionIDs []string) error
	CountOrphansFunc   func(ctx context.Context) (int64, error)
}

func (m *mockOrphanAudit) ReplaceOrphans(ctx context.Context, userID string, providerSessionIDs []string) error {
	if m.ReplaceOrphansFunc != nil {
		return m.ReplaceOrphansFunc(ctx, userID, providerSessionIDs)
	}
	return nil
}

func (m *mockOrphanAudit) CountOrphans(ctx context.Context) (int64, error) {
	if m.CountOrphansFunc != nil {
		return m.CountOrphansFunc(ctx)
	}
	return 0, nil
}

type mockIdentityProvider struct {
	ListActiveSessionIDsFunc func(ctx context.Context, userID string) ([]string, error)
}

func (m *mockIdentityProvider) ListActiveSessionIDs(ctx context.Context, userID string) ([]string, error) {
	if m.ListActiveSessionIDsFunc != nil {
		return m.ListActiveSessionIDsFunc(ctx, userID)
	}
	return nil, nil
}

// mockEventPublisher records published events; safe for concurrent use.
type mockEventPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (m *mockEventPublisher) Publish(event events.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) Events() []events.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockEventPublisher) EventsOfType(eventType string) []events.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.DomainEvent
	for _, e := range m.events {
		if e.GetEventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// memorySessionRepository is an in-memory Repository used by tests that need
// real read-modify-write behavior, including version guarding.
type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{sessions: make(map[string]*session.Session)}
}

func (r *memorySessionRepository) put(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Version == 0 {
		s.Version = 1
	}
	r.sessions[s.ID] = cloneSession(s)
}

func (r *memorySessionRepository) get(sessionID string) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		return cloneSession(s)
	}
	return nil
}

func (r *memorySessionRepository) Create(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.ID]; exists {
		return errsConflict(s.ID)
	}
	if s.Version == 0 {
		s.Version = 1
	}
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *memorySessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, errsNotFound(sessionID)
	}
	return cloneSession(s), nil
}

func (r *memorySessionRepository) ListByUser(ctx context.Context, userID string, statuses ...session.Status) ([]*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*session.Session
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if s.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, cloneSession(s))
	}

	// last activity descending, matching the store contract
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].LastActivityAt.After(out[i].LastActivityAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *memorySessionRepository) UpdateWithVersion(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[s.ID]
	if !ok {
		return errsNotFound(s.ID)
	}
	if current.Version != s.Version {
		return errsConcurrency(s.ID)
	}
	s.Version++
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *memorySessionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sessions {
		if s.Status == session.StatusActive && !now.Before(s.ExpiresAt) {
			s.Status = session.StatusExpired
			s.Version++
			n++
		}
	}
	return n, nil
}

func (r *memorySessionRepository) PurgeTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *memorySessionRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, s := range r.sessions {
		if s.Status != session.StatusActive {
			continue
		}
		if _, ok := seen[s.UserID]; ok {
			continue
		}
		seen[s.UserID] = struct{}{}
		out = append(out, s.UserID)
	}
	return out, nil
}

func (r *memorySessionRepository) CountByStatus(ctx context.Context) (map[session.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[session.Status]int64{}
	for _, s := range r.sessions {
		counts[s.Status]++
	}
	return counts, nil
}

func (r *memorySessionRepository) CountActiveByDeviceType(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, s := range r.sessions {
		if s.Status == session.StatusActive {
			counts[s.Device.DeviceType]++
		}
	}
	return counts, nil
}

func (r *memorySessionRepository) CountTrusted(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sessions {
		if s.Status == session.StatusActive && s.IsTrusted {
			n++
		}
	}
	return n, nil
}

func errsNotFound(sessionID string) error {
	return errors.NewNotFoundError("session not found", sessionID)
}

func errsConflict(sessionID string) error {
	return errors.NewConflictError("session ID already exists", sessionID)
}

func errsConcurrency(sessionID string) error {
	return errors.NewConcurrencyConflictError("session was modified concurrently", sessionID)
}

// newActiveSession builds a valid active session for tests, backdating last
// activity so LRU ordering can be controlled.
func newActiveSession(t interface{ Fatal(args ...any) }, userID string, lastActivityAgo time.Duration) *session.Session {
	s, err := session.NewSession(
		userID,
		"clerk_"+userID,
		session.DeviceInfo{DeviceType: "desktop", OS: "Linux", Browser: "Firefox"},
		"198.51.100.4",
		"Mozilla/5.0",
		biztime.NowUTC().Add(2*time.Hour),
	)
	if err != nil {
		t.Fatal(err)
	}
	s.LastActivityAt = biztime.NowUTC().Add(-lastActivityAgo)
	return s
}

func cloneSession(s *session.Session) *session.Session {
	cp := *s
	if s.Metadata != nil {
		cp.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
