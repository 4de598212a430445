package session

import (
	"fmt"
	"time"

	"tienda/internal/shared/biztime"
	"tienda/internal/shared/id"
)

// Status is the lifecycle state of a session. A session moves from active to
// invalidated or expired and never backward; both are terminal.
type Status string

const (
	StatusActive      Status = "active"
	StatusInvalidated Status = "invalidated"
	StatusExpired     Status = "expired"
)

// IsTerminal reports whether the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusInvalidated || s == StatusExpired
}

// DeviceInfo describes the device/browser context captured at session
// creation. Descriptive only; never used for trust decisions on its own.
type DeviceInfo struct {
	DeviceType string
	DeviceName string
	OS         string
	Browser    string
}

// Metadata keys written by lifecycle transitions.
const (
	MetaRevokedAt     = "revoked_at"
	MetaRevokedReason = "revoked_reason"
	MetaExpiredAt     = "expired_at"
	MetaExpiredReason = "expired_reason"
)

// Session represents one authenticated device/browser context for a user.
type Session struct {
	ID                string
	UserID            string
	ProviderSessionID string
	Device            DeviceInfo
	IPAddress         string
	UserAgent         string
	Status            Status
	IsTrusted         bool
	Metadata          map[string]any
	CreatedAt         time.Time
	LastActivityAt    time.Time
	ExpiresAt         time.Time
	// Version is the optimistic concurrency counter, bumped by the store on
	// every successful update.
	Version uint
}

// NewSession creates an active session. expiresAt is computed by the caller
// from the configured policy.
func NewSession(userID, providerSessionID string, device DeviceInfo, ipAddress, userAgent string, expiresAt time.Time) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if ipAddress == "" {
		return nil, fmt.Errorf("ip address is required")
	}
	if device.DeviceType == "" {
		return nil, fmt.Errorf("device info is required")
	}

	sessionID, err := id.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := biztime.NowUTC()
	if !expiresAt.After(now) {
		return nil, fmt.Errorf("expiration must be in the future")
	}

	return &Session{
		ID:                sessionID,
		UserID:            userID,
		ProviderSessionID: providerSessionID,
		Device:            device,
		IPAddress:         ipAddress,
		UserAgent:         userAgent,
		Status:            StatusActive,
		Metadata:          map[string]any{},
		CreatedAt:         now,
		LastActivityAt:    now,
		ExpiresAt:         expiresAt,
	}, nil
}

// IsActive reports whether the session is in the active state. It does not
// consult the clock; see IsExpiredAt.
func (s *Session) IsActive() bool {
	return s.Status == StatusActive
}

// IsExpiredAt reports whether the session's expiration has passed at the
// given instant.
func (s *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Touch records activity at now: last activity never decreases, and the
// sliding expiration window pushes expires_at forward, capped at
// created_at + maxLifetime. expires_at never moves backward either, so
// repeated touches are safe under retries.
func (s *Session) Touch(now time.Time, window, maxLifetime time.Duration) error {
	if s.Status != StatusActive {
		return fmt.Errorf("cannot update activity of %s session", s.Status)
	}

	if now.After(s.LastActivityAt) {
		s.LastActivityAt = now
	}

	extended := now.Add(window)
	if cap := s.CreatedAt.Add(maxLifetime); extended.After(cap) {
		extended = cap
	}
	if extended.After(s.ExpiresAt) {
		s.ExpiresAt = extended
	}
	return nil
}

// Invalidate transitions the session to invalidated, recording the reason in
// metadata. Calling it on an already terminal session is a no-op.
func (s *Session) Invalidate(reason string, now time.Time) {
	if s.Status.IsTerminal() {
		return
	}
	s.Status = StatusInvalidated
	s.MergeMetadata(map[string]any{
		MetaRevokedAt:     biztime.FormatMetadataTime(now),
		MetaRevokedReason: reason,
	})
}

// Expire transitions the session to expired. Only the cleanup sweep and the
// lazy validity check reach this state. No-op on terminal sessions.
func (s *Session) Expire(reason string, now time.Time) {
	if s.Status.IsTerminal() {
		return
	}
	s.Status = StatusExpired
	s.MergeMetadata(map[string]any{
		MetaExpiredAt:     biztime.FormatMetadataTime(now),
		MetaExpiredReason: reason,
	})
}

// Trust marks the session's device as trusted.
func (s *Session) Trust() error {
	if s.Status != StatusActive {
		return fmt.Errorf("cannot trust device of %s session", s.Status)
	}
	s.IsTrusted = true
	return nil
}

// MergeMetadata merges the patch additively. An explicit nil value removes
// the key; existing keys are otherwise preserved.
func (s *Session) MergeMetadata(patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	if s.Metadata == nil {
		s.Metadata = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		if v == nil {
			delete(s.Metadata, k)
			continue
		}
		s.Metadata[k] = v
	}
}
