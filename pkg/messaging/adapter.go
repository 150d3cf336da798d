package messaging

import (
	"context"
	"encoding/json"
)

// EventBus narrows a Broker to typed portal events.
type EventBus struct {
	broker  Broker
	channel string
}

func NewEventBus(broker Broker, channel string) *EventBus {
	return &EventBus{broker: broker, channel: channel}
}

func (b *EventBus) Publish(ctx context.Context, evt Event) error {
	return b.broker.Publish(ctx, b.channel, evt)
}

// Subscribe delivers decoded events to handler until ctx is cancelled.
// Messages that fail to decode are skipped.
func (b *EventBus) Subscribe(ctx context.Context, handler func(Event)) error {
	msgChan, err := b.broker.Subscribe(ctx, b.channel)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgChan {
			var evt Event
			if err := json.Unmarshal(msg, &evt); err != nil {
				continue
			}
			handler(evt)
		}
	}()

	return nil
}

func (b *EventBus) Close() error {
	return b.broker.Close()
}
