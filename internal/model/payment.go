package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusDue      PaymentStatus = "due"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentPlan is a membership fee plan offered by the association.
type PaymentPlan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PeriodDays  int             `json:"period_days"`
	Timestamps
}

// Payment is a recorded fee payment against a plan.
type Payment struct {
	ID       string          `json:"id"`
	SpaID    string          `json:"spa_id"`
	PlanID   string          `json:"plan_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Status   PaymentStatus   `json:"status"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
	Timestamps
}
