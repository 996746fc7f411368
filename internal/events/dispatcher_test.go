package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
)

type testEvent struct {
	name string
}

func (e testEvent) Name() string          { return e.name }
func (e testEvent) OccurredAt() time.Time { return time.Time{} }

func TestDispatchFansOutInOrder(t *testing.T) {
	d := NewDispatcher(logger.Nop())

	var seen []string
	d.Subscribe("A", func(ctx context.Context, e domain.Event) error {
		seen = append(seen, "a1")
		return nil
	})
	d.Subscribe("A", func(ctx context.Context, e domain.Event) error {
		seen = append(seen, "a2")
		return nil
	})
	d.Subscribe("B", func(ctx context.Context, e domain.Event) error {
		seen = append(seen, "b")
		return nil
	})

	d.Dispatch(context.Background(), []domain.Event{testEvent{name: "A"}, testEvent{name: "B"}})
	assert.Equal(t, []string{"a1", "a2", "b"}, seen)
}

func TestDispatchIgnoresUnsubscribedEvents(t *testing.T) {
	d := NewDispatcher(logger.Nop())
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), []domain.Event{testEvent{name: "Nobody"}})
	})
}

func TestHandlerFailureDoesNotStopOthers(t *testing.T) {
	d := NewDispatcher(logger.Nop())

	var calls int
	d.Subscribe("A", func(ctx context.Context, e domain.Event) error {
		return errors.New("kafka unreachable")
	})
	d.Subscribe("A", func(ctx context.Context, e domain.Event) error {
		calls++
		return nil
	})

	d.Dispatch(context.Background(), []domain.Event{testEvent{name: "A"}})
	assert.Equal(t, 1, calls, "later handlers still run after a failure")
}
