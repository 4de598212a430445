package dto

// CreateSessionRequest carries the inputs for registering a new session.
// Device details are derived from the user agent server-side.
type CreateSessionRequest struct {
	UserID            string         `json:"user_id" validate:"required"`
	ProviderSessionID string         `json:"provider_session_id"`
	IPAddress         string         `json:"ip_address" validate:"required"`
	UserAgent         string         `json:"user_agent"`
	DeviceName        string         `json:"device_name"`
	Metadata          map[string]any `json:"metadata"`
}

// UpdateActivityRequest carries an activity heartbeat for a session.
type UpdateActivityRequest struct {
	IPAddress string         `json:"ip_address"`
	Metadata  map[string]any `json:"metadata"`
}

// ListSessionsRequest shapes the per-user session listing.
type ListSessionsRequest struct {
	IncludeInactive bool `json:"include_inactive" form:"include_inactive"`
	// CurrentSessionID marks the caller's own session in the result.
	CurrentSessionID string `json:"current_session_id" form:"current_session_id"`
}
