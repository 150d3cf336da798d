// Package notification serves the console notification feeds: one polled,
// push-nudged view per audience.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/listview"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/pkg/messaging"
	"github.com/lankaspa/portal/pkg/metrics"
)

// API is the slice of the upstream client this service needs.
type API interface {
	ListNotifications(ctx context.Context, audience string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// AudienceLSA is the association-wide feed; spa consoles use their spa ID.
const AudienceLSA = "lsa"

type feed struct {
	view      *listview.View[model.Notification]
	refresher *listview.Refresher
}

type Service struct {
	mu       sync.Mutex
	api      API
	feeds    map[string]*feed
	interval time.Duration
	bus      *messaging.EventBus
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	ctx      context.Context
}

func NewService(api API, pollInterval time.Duration, bus *messaging.EventBus, m *metrics.Metrics, logger zerolog.Logger) *Service {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &Service{
		api:      api,
		feeds:    map[string]*feed{},
		interval: pollInterval,
		bus:      bus,
		metrics:  m,
		logger:   logger.With().Str("component", "notification").Logger(),
	}
}

// Start stores the lifecycle context feeds are bound to.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
}

// Stop tears down every feed's refresher.
func (s *Service) Stop() {
	s.mu.Lock()
	feeds := make([]*feed, 0, len(s.feeds))
	for _, f := range s.feeds {
		feeds = append(feeds, f)
	}
	s.mu.Unlock()

	for _, f := range feeds {
		f.refresher.Stop()
	}
}

// Feed returns the filtered notification feed for an audience, creating and
// priming it on first use.
func (s *Service) Feed(ctx context.Context, audience string, filter model.ListFilter) ([]model.Notification, listview.State, error) {
	f, err := s.feedFor(ctx, audience)
	if err != nil {
		return nil, listview.StateFailed, err
	}
	return f.view.Snapshot(filter)
}

// Retry re-issues exactly one fetch for an audience's feed.
func (s *Service) Retry(ctx context.Context, audience string) error {
	f, err := s.feedFor(ctx, audience)
	if err != nil {
		return err
	}
	return f.view.Refresh(ctx)
}

// MarkRead flags an item read upstream and refetches the feed.
func (s *Service) MarkRead(ctx context.Context, audience, id string) error {
	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}

	f, err := s.feedFor(ctx, audience)
	if err != nil {
		return err
	}
	if err := f.view.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("refetch after mark-read failed")
	}
	return nil
}

func (s *Service) feedFor(ctx context.Context, audience string) (*feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.feeds[audience]; ok {
		return f, nil
	}

	view := listview.NewView(
		func(ctx context.Context) ([]model.Notification, error) {
			return s.api.ListNotifications(ctx, audience)
		},
		listview.Accessors[model.Notification]{
			SearchFields: func(n model.Notification) []string {
				return []string{n.Title, n.Body, n.EntityID}
			},
			Category: func(n model.Notification) string { return string(n.Type) },
		},
	)

	refresher := listview.NewRefresher(
		"notifications:"+audience,
		s.interval,
		[]string{messaging.EventNotificationCreated, messaging.EventRegistrationCreated,
			messaging.EventSpaStatusChanged, messaging.EventTherapistStatus},
		func(ctx context.Context) {
			if err := view.Refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Str("audience", audience).Msg("feed refresh failed")
			}
		},
		s.logger,
	)
	if s.metrics != nil {
		refresher.OnTrigger(func(trigger string) {
			s.metrics.ListRefreshes.WithLabelValues("notifications", trigger).Inc()
		})
	}

	if err := view.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Str("audience", audience).Msg("initial feed fetch failed")
	}

	lifecycle := s.ctx
	if lifecycle == nil {
		lifecycle = context.Background()
	}
	if err := refresher.Start(lifecycle, s.bus); err != nil {
		return nil, err
	}

	f := &feed{view: view, refresher: refresher}
	s.feeds[audience] = f
	return f, nil
}
