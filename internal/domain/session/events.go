package session

import (
	"tienda/internal/domain/shared/events"
	"tienda/internal/shared/biztime"
)

const (
	EventSessionEvicted     = "session.evicted"
	EventSessionInvalidated = "session.invalidated"
)

// EvictedEvent is published when a session is forced out by the per-user
// concurrency limit, before the replacing session is inserted.
type EvictedEvent struct {
	events.BaseEvent
	UserID       string `json:"user_id"`
	EvictedBy    string `json:"evicted_by,omitempty"`
	LastActivity string `json:"last_activity"`
}

// NewEvictedEvent builds the eviction event for the session being evicted.
// evictedBy is the ID of the replacing session that pushed it over the cap.
func NewEvictedEvent(evicted *Session, evictedBy string) *EvictedEvent {
	return &EvictedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: evicted.ID,
			EventType:   EventSessionEvicted,
			OccurredAt:  biztime.NowUTC(),
			Version:     1,
		},
		UserID:       evicted.UserID,
		EvictedBy:    evictedBy,
		LastActivity: biztime.FormatMetadataTime(evicted.LastActivityAt),
	}
}

// InvalidatedEvent is published when a session transitions to invalidated.
type InvalidatedEvent struct {
	events.BaseEvent
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// NewInvalidatedEvent builds the invalidation event.
func NewInvalidatedEvent(s *Session, reason string) *InvalidatedEvent {
	return &InvalidatedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: s.ID,
			EventType:   EventSessionInvalidated,
			OccurredAt:  biztime.NowUTC(),
			Version:     1,
		},
		UserID: s.UserID,
		Reason: reason,
	}
}
