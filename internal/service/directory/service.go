// Package directory serves the spa and therapist console views: remote
// collections with client-side filtering, status transitions that refetch
// rather than mutate, and event-driven freshness.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/listview"
	"github.com/lankaspa/portal/internal/model"
	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/messaging"
	"github.com/lankaspa/portal/pkg/metrics"
)

// API is the slice of the upstream client this service needs.
type API interface {
	ListSpas(ctx context.Context) ([]model.Spa, error)
	ListTherapists(ctx context.Context, spaID string) ([]model.Therapist, error)
	TransitionSpaStatus(ctx context.Context, id string, status model.SpaStatus, reason string) error
	TransitionTherapistStatus(ctx context.Context, id string, status model.TherapistStatus, reason string) error
}

type Service struct {
	api        API
	spas       *listview.View[model.Spa]
	therapists *listview.View[model.Therapist]
	refreshers []*listview.Refresher
	bus        *messaging.EventBus
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Config for the directory views.
type Config struct {
	PollInterval   time.Duration
	DemoSpas       []model.Spa
	DemoTherapists []model.Therapist
}

func NewService(api API, cfg Config, bus *messaging.EventBus, m *metrics.Metrics, logger zerolog.Logger) *Service {
	s := &Service{
		api:     api,
		bus:     bus,
		metrics: m,
		logger:  logger.With().Str("component", "directory").Logger(),
	}

	s.spas = listview.NewView(
		func(ctx context.Context) ([]model.Spa, error) { return api.ListSpas(ctx) },
		listview.Accessors[model.Spa]{
			SearchFields: func(sp model.Spa) []string {
				return []string{sp.Name, sp.ID, sp.OwnerName, sp.OwnerEmail, sp.OwnerPhone}
			},
			Status:   func(sp model.Spa) string { return string(sp.Status) },
			Category: func(sp model.Spa) string { return sp.Category },
		},
	)
	s.therapists = listview.NewView(
		func(ctx context.Context) ([]model.Therapist, error) { return api.ListTherapists(ctx, "") },
		listview.Accessors[model.Therapist]{
			SearchFields: func(t model.Therapist) []string {
				return []string{t.FullName, t.ID, t.NIC, t.Email, t.Phone, t.SpaName}
			},
			Status: func(t model.Therapist) string { return string(t.Status) },
		},
	)

	if len(cfg.DemoSpas) > 0 {
		s.spas.WithFallback(cfg.DemoSpas)
	}
	if len(cfg.DemoTherapists) > 0 {
		s.therapists.WithFallback(cfg.DemoTherapists)
	}

	s.refreshers = []*listview.Refresher{
		s.newRefresher("spas", cfg.PollInterval,
			[]string{messaging.EventSpaStatusChanged},
			s.spas.Refresh),
		s.newRefresher("therapists", cfg.PollInterval,
			[]string{messaging.EventTherapistStatus, messaging.EventRegistrationCreated},
			s.therapists.Refresh),
	}

	return s
}

func (s *Service) newRefresher(name string, interval time.Duration, events []string, refresh func(context.Context) error) *listview.Refresher {
	r := listview.NewRefresher(name, interval, events, func(ctx context.Context) {
		if err := refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Str("view", name).Msg("refresh failed")
		}
	}, s.logger)
	if s.metrics != nil {
		r.OnTrigger(func(trigger string) {
			s.metrics.ListRefreshes.WithLabelValues(name, trigger).Inc()
		})
	}
	return r
}

// Start primes both views and begins polling and event handling.
func (s *Service) Start(ctx context.Context) error {
	// Initial load; failures are tolerated, views degrade to empty+retry.
	if err := s.spas.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("initial spa fetch failed")
	}
	if err := s.therapists.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("initial therapist fetch failed")
	}

	for _, r := range s.refreshers {
		if err := r.Start(ctx, s.bus); err != nil {
			return err
		}
	}
	return nil
}

// Stop halts polling and event handling.
func (s *Service) Stop() {
	for _, r := range s.refreshers {
		r.Stop()
	}
}

// Spas returns the filtered spa view.
func (s *Service) Spas(filter model.ListFilter) ([]model.Spa, listview.State, error) {
	return s.spas.Snapshot(filter)
}

// Therapists returns the filtered therapist view. spaID narrows the view for
// the per-spa console.
func (s *Service) Therapists(filter model.ListFilter, spaID string) ([]model.Therapist, listview.State, error) {
	items, state, err := s.therapists.Snapshot(filter)
	if spaID == "" {
		return items, state, err
	}

	narrowed := make([]model.Therapist, 0, len(items))
	for _, t := range items {
		if t.SpaID == spaID {
			narrowed = append(narrowed, t)
		}
	}
	return narrowed, state, err
}

// RetrySpas re-issues exactly one spa fetch, for the view's retry affordance.
func (s *Service) RetrySpas(ctx context.Context) error {
	return s.spas.Refresh(ctx)
}

// RetryTherapists re-issues exactly one therapist fetch.
func (s *Service) RetryTherapists(ctx context.Context) error {
	return s.therapists.Refresh(ctx)
}

// TransitionSpa requests a spa status change upstream, then refetches the
// list. Local state is never optimistically mutated.
func (s *Service) TransitionSpa(ctx context.Context, id string, status model.SpaStatus, reason string) error {
	if !model.ValidSpaStatus(string(status)) {
		return apperrors.Validation(fmt.Sprintf("unknown spa status %q", status))
	}
	if err := s.api.TransitionSpaStatus(ctx, id, status, reason); err != nil {
		return err
	}

	if err := s.spas.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("refetch after spa transition failed")
	}
	s.publish(ctx, messaging.Event{Type: messaging.EventSpaStatusChanged, EntityID: id})
	return nil
}

// TransitionTherapist requests a therapist status change upstream, then
// refetches the list.
func (s *Service) TransitionTherapist(ctx context.Context, id string, status model.TherapistStatus, reason string) error {
	if !model.ValidTherapistStatus(string(status)) {
		return apperrors.Validation(fmt.Sprintf("unknown therapist status %q", status))
	}
	if err := s.api.TransitionTherapistStatus(ctx, id, status, reason); err != nil {
		return err
	}

	if err := s.therapists.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("refetch after therapist transition failed")
	}
	s.publish(ctx, messaging.Event{Type: messaging.EventTherapistStatus, EntityID: id})
	return nil
}

func (s *Service) publish(ctx context.Context, evt messaging.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Str("type", evt.Type).Msg("failed to publish event")
	}
}
