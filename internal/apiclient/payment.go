package apiclient

import (
	"context"

	"github.com/lankaspa/portal/internal/model"
)

// ListPaymentPlans fetches the association's membership fee plans.
func (c *Client) ListPaymentPlans(ctx context.Context) ([]model.PaymentPlan, error) {
	var plans []model.PaymentPlan
	if err := c.getJSON(ctx, "list_payment_plans", "/payment-plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// ListPayments fetches recorded payments, narrowed to one spa when spaID is
// non-empty.
func (c *Client) ListPayments(ctx context.Context, spaID string) ([]model.Payment, error) {
	var query map[string]string
	if spaID != "" {
		query = map[string]string{"spa_id": spaID}
	}

	var payments []model.Payment
	if err := c.getJSON(ctx, "list_payments", "/payments", query, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
