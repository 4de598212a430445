package dto

import (
	"time"

	"tienda/internal/domain/session"
)

// SessionDTO is the session shape handed to the API layer.
type SessionDTO struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	ProviderSessionID string         `json:"provider_session_id,omitempty"`
	DeviceType        string         `json:"device_type"`
	DeviceName        string         `json:"device_name,omitempty"`
	OS                string         `json:"os,omitempty"`
	Browser           string         `json:"browser,omitempty"`
	IPAddress         string         `json:"ip_address"`
	Status            string         `json:"status"`
	IsTrusted         bool           `json:"is_trusted"`
	// IsCurrent is a per-request view: true when this record matches the
	// caller's own session. It is never persisted.
	IsCurrent      bool           `json:"is_current"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivityAt time.Time      `json:"last_activity"`
	ExpiresAt      time.Time      `json:"expires_at"`
}

// FromEntity maps a domain session to its DTO. currentSessionID is the
// caller's own session ID, used to derive IsCurrent.
func FromEntity(s *session.Session, currentSessionID string) *SessionDTO {
	if s == nil {
		return nil
	}
	return &SessionDTO{
		ID:                s.ID,
		UserID:            s.UserID,
		ProviderSessionID: s.ProviderSessionID,
		DeviceType:        s.Device.DeviceType,
		DeviceName:        s.Device.DeviceName,
		OS:                s.Device.OS,
		Browser:           s.Device.Browser,
		IPAddress:         s.IPAddress,
		Status:            string(s.Status),
		IsTrusted:         s.IsTrusted,
		IsCurrent:         currentSessionID != "" && s.ID == currentSessionID,
		Metadata:          s.Metadata,
		CreatedAt:         s.CreatedAt,
		LastActivityAt:    s.LastActivityAt,
		ExpiresAt:         s.ExpiresAt,
	}
}

// FromEntities maps a slice of domain sessions preserving order.
func FromEntities(sessions []*session.Session, currentSessionID string) []*SessionDTO {
	out := make([]*SessionDTO, len(sessions))
	for i, s := range sessions {
		out[i] = FromEntity(s, currentSessionID)
	}
	return out
}

// SyncResultDTO summarizes one user's reconciliation pass.
type SyncResultDTO struct {
	UserID         string `json:"user_id"`
	Revoked        int    `json:"revoked"`
	Orphans        int    `json:"orphans"`
	ProviderActive int    `json:"provider_active"`
}

// SyncBatchResultDTO aggregates a batched reconciliation run.
type SyncBatchResultDTO struct {
	UsersSynced  int `json:"users_synced"`
	UsersSkipped int `json:"users_skipped"`
	Revoked      int `json:"revoked"`
	Orphans      int `json:"orphans"`
}

// CleanupResultDTO reports one cleanup sweep.
type CleanupResultDTO struct {
	Expired int64 `json:"expired"`
	Purged  int64 `json:"purged"`
}

// StatsDTO is the read-only aggregate over the session store.
type StatsDTO struct {
	Total        int64            `json:"total"`
	Active       int64            `json:"active"`
	Invalidated  int64            `json:"invalidated"`
	Expired      int64            `json:"expired"`
	Trusted      int64            `json:"trusted"`
	ByDeviceType map[string]int64 `json:"by_device_type"`
	Orphans      int64            `json:"orphans"`
}
