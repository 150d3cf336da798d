package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankaspa/portal/pkg/messaging"
)

func newTestBroker(t *testing.T) messaging.Broker {
	t.Helper()

	mr := miniredis.RunT(t)
	logger := zerolog.Nop()
	broker, err := NewRedisBroker(Config{URL: "redis://" + mr.Addr()}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })
	return broker
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	broker := newTestBroker(t)
	bus := messaging.NewEventBus(broker, "portal:events")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan messaging.Event, 1)
	require.NoError(t, bus.Subscribe(ctx, func(evt messaging.Event) {
		received <- evt
	}))

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, bus.Publish(ctx, messaging.Event{
		Type:     messaging.EventSpaStatusChanged,
		EntityID: "spa-1",
	}))

	select {
	case evt := <-received:
		assert.Equal(t, messaging.EventSpaStatusChanged, evt.Type)
		assert.Equal(t, "spa-1", evt.EntityID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribeStopsOnContextCancel(t *testing.T) {
	broker := newTestBroker(t)

	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := broker.Subscribe(ctx, "portal:events")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-msgs:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel did not close")
	}
}

func TestInvalidURLIsRejected(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewRedisBroker(Config{URL: "not a url"}, &logger)
	assert.Error(t, err)
}
