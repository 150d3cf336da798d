package model

type SpaStatus string

const (
	SpaStatusPending     SpaStatus = "pending"
	SpaStatusApproved    SpaStatus = "approved"
	SpaStatusRejected    SpaStatus = "rejected"
	SpaStatusBlacklisted SpaStatus = "blacklisted"
)

// ValidSpaStatus reports whether s is part of the lifecycle vocabulary.
func ValidSpaStatus(s string) bool {
	switch SpaStatus(s) {
	case SpaStatusPending, SpaStatusApproved, SpaStatusRejected, SpaStatusBlacklisted:
		return true
	}
	return false
}

// Spa is a member facility record as returned by the association API. The
// portal never mutates these directly; it requests status transitions and
// refetches.
type Spa struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerName    string    `json:"owner_name"`
	OwnerEmail   string    `json:"owner_email"`
	OwnerPhone   string    `json:"owner_phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Category     string    `json:"category"`
	Status       SpaStatus `json:"status"`
	StatusReason string    `json:"status_reason,omitempty"`
	Timestamps
}
