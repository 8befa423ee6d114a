package domain

import (
	"context"

	"stationdesk/internal/core/id"
)

// Record change event types.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
	EventPaid    = "paid"
)

// Event is a change notification written to the outbox.
type Event struct {
	AggregateType string
	AggregateID   id.ID
	EventType     string
	Payload       any
}

// RoutingKey is "<aggregate>.<event>", e.g. vendor_invoice.paid.
func (e Event) RoutingKey() string {
	return e.AggregateType + "." + e.EventType
}

// EventPublisher persists events. Implementations must write within the
// transaction carried by ctx.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
