package payment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/listview"
	"github.com/lankaspa/portal/internal/model"
)

// API is the slice of the upstream client this service needs.
type API interface {
	ListPaymentPlans(ctx context.Context) ([]model.PaymentPlan, error)
	ListPayments(ctx context.Context, spaID string) ([]model.Payment, error)
}

type Service struct {
	api    API
	plans  *listview.View[model.PaymentPlan]
	logger zerolog.Logger
}

func NewService(api API, logger zerolog.Logger) *Service {
	s := &Service{
		api:    api,
		logger: logger.With().Str("component", "payment").Logger(),
	}
	s.plans = listview.NewView(
		func(ctx context.Context) ([]model.PaymentPlan, error) { return api.ListPaymentPlans(ctx) },
		listview.Accessors[model.PaymentPlan]{
			SearchFields: func(p model.PaymentPlan) []string { return []string{p.Name, p.Description} },
		},
	)
	return s
}

// Plans returns the filtered plan view. The view fetches on first use and
// again after any failed fetch, so a broken upstream never wedges the list
// until restart.
func (s *Service) Plans(ctx context.Context, filter model.ListFilter) ([]model.PaymentPlan, listview.State, error) {
	if state := s.plans.State(); state == listview.StateLoading || state == listview.StateFailed {
		if err := s.plans.Refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("plan fetch failed")
		}
	}
	return s.plans.Snapshot(filter)
}

// RetryPlans re-issues exactly one plan fetch.
func (s *Service) RetryPlans(ctx context.Context) error {
	return s.plans.Refresh(ctx)
}

// Payments fetches a spa's payment history. Histories are per-request rather
// than held views; the console shows them on demand.
func (s *Service) Payments(ctx context.Context, spaID string) ([]model.Payment, error) {
	return s.api.ListPayments(ctx, spaID)
}
