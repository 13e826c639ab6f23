package bus

import (
	"context"

	evbus "github.com/asaskevich/EventBus"
)

// Publisher is the outbound event port of the account services.
type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

// EventBusPublisher publishes domain events on an in-process EventBus.
type EventBusPublisher struct {
	bus evbus.Bus
}

func NewEventBusPublisher() *EventBusPublisher {
	return &EventBusPublisher{bus: evbus.New()}
}

func NewEventBusPublisherWithBus(b evbus.Bus) *EventBusPublisher {
	return &EventBusPublisher{bus: b}
}

func (p *EventBusPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.bus.Publish(topic, message)
	return nil
}

// Subscribe registers a handler for a topic, used by in-process consumers
// (e.g. notification senders) and tests.
func (p *EventBusPublisher) Subscribe(topic string, fn interface{}) error {
	return p.bus.Subscribe(topic, fn)
}

func (p *EventBusPublisher) Unsubscribe(topic string, fn interface{}) error {
	return p.bus.Unsubscribe(topic, fn)
}
