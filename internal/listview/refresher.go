package listview

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/pkg/messaging"
)

// Refresher keeps a view fresh. A view declares "refetch every T and/or on
// event E"; both triggers funnel into the same refresh path. This replaces
// per-screen hand-rolled timers.
type Refresher struct {
	name     string
	interval time.Duration
	events   map[string]struct{}
	refresh  func(ctx context.Context)
	logger   zerolog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func(trigger string)
}

// NewRefresher builds a refresher for the named view. interval of zero
// disables polling; an empty eventTypes list disables event triggers.
func NewRefresher(name string, interval time.Duration, eventTypes []string, refresh func(ctx context.Context), logger zerolog.Logger) *Refresher {
	events := make(map[string]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		events[t] = struct{}{}
	}
	return &Refresher{
		name:     name,
		interval: interval,
		events:   events,
		refresh:  refresh,
		logger:   logger.With().Str("refresher", name).Logger(),
	}
}

// OnTrigger registers a hook invoked after every refresh, with the trigger
// that caused it ("interval" or "event:<type>"). Used for metrics and
// console nudges.
func (r *Refresher) OnTrigger(fn func(trigger string)) {
	r.onChange = fn
}

// Start begins polling and, when bus is non-nil, subscribes to push events.
// It returns immediately; refreshes run on background goroutines until Stop
// or ctx cancellation.
func (r *Refresher) Start(ctx context.Context, bus *messaging.EventBus) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	if bus != nil && len(r.events) > 0 {
		err := bus.Subscribe(ctx, func(evt messaging.Event) {
			if _, ok := r.events[evt.Type]; !ok {
				return
			}
			r.fire(ctx, "event:"+evt.Type)
		})
		if err != nil {
			cancel()
			close(r.done)
			return err
		}
	}

	go func() {
		defer close(r.done)

		if r.interval <= 0 {
			<-ctx.Done()
			return
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.fire(ctx, "interval")
			}
		}
	}()

	return nil
}

// Stop cancels polling and event handling and waits for the loop to exit.
// Safe to call when never started.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *Refresher) fire(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	r.refresh(ctx)
	r.logger.Debug().Str("trigger", trigger).Msg("view refreshed")
	if r.onChange != nil {
		r.onChange(trigger)
	}
}
