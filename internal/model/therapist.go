package model

type TherapistStatus string

const (
	TherapistStatusPending    TherapistStatus = "pending"
	TherapistStatusApproved   TherapistStatus = "approved"
	TherapistStatusRejected   TherapistStatus = "rejected"
	TherapistStatusResigned   TherapistStatus = "resigned"
	TherapistStatusTerminated TherapistStatus = "terminated"
	TherapistStatusSuspended  TherapistStatus = "suspended"
)

// ValidTherapistStatus reports whether s is part of the lifecycle vocabulary.
func ValidTherapistStatus(s string) bool {
	switch TherapistStatus(s) {
	case TherapistStatusPending, TherapistStatusApproved, TherapistStatusRejected,
		TherapistStatusResigned, TherapistStatusTerminated, TherapistStatusSuspended:
		return true
	}
	return false
}

// Therapist is a registered practitioner record as returned by the
// association API.
type Therapist struct {
	ID           string          `json:"id"`
	FullName     string          `json:"full_name"`
	NIC          string          `json:"nic"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	SpaID        string          `json:"spa_id"`
	SpaName      string          `json:"spa_name"`
	Status       TherapistStatus `json:"status"`
	StatusReason string          `json:"status_reason,omitempty"`
	Timestamps
}
