package model

type NotificationType string

const (
	NotificationTypeRegistration NotificationType = "registration"
	NotificationTypeStatusChange NotificationType = "status_change"
	NotificationTypePayment      NotificationType = "payment"
	NotificationTypeGeneral      NotificationType = "general"
)

// Notification is a feed item shown on the admin consoles.
type Notification struct {
	ID       string           `json:"id"`
	Type     NotificationType `json:"type"`
	Title    string           `json:"title"`
	Body     string           `json:"body"`
	EntityID string           `json:"entity_id,omitempty"`
	Read     bool             `json:"read"`
	Timestamps
}
