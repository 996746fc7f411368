package domain

import "time"

// Event is an immutable fact raised by an aggregate. Events are buffered on
// the aggregate and only become visible once the write that produced them
// survives commit.
type Event interface {
	Name() string
	OccurredAt() time.Time
}

// EventSource is anything that buffers events, i.e. an aggregate root.
type EventSource interface {
	CollectEvents() []Event
}

// EventBuffer is embedded by aggregate roots. Raise appends, CollectEvents
// drains. The buffer is never dispatched by the aggregate itself.
type EventBuffer struct {
	pending []Event
}

func (b *EventBuffer) Raise(e Event) {
	b.pending = append(b.pending, e)
}

// CollectEvents returns the buffered events and clears the buffer, so the
// same event can never be collected twice.
func (b *EventBuffer) CollectEvents() []Event {
	evs := b.pending
	b.pending = nil
	return evs
}
