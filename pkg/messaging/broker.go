package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Event is the portal's push-event payload. Only Type and EntityID are
// relied upon; receivers refetch the related list rather than trusting any
// additional payload.
type Event struct {
	Type     string `json:"type"`
	EntityID string `json:"entity_id,omitempty"`
}

// Well-known event types published on the portal channel.
const (
	EventRegistrationCreated = "registration.created"
	EventSpaStatusChanged    = "spa.status_changed"
	EventTherapistStatus     = "therapist.status_changed"
	EventNotificationCreated = "notification.created"
)
