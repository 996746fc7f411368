package events

import (
	"context"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
)

type Handler func(ctx context.Context, e domain.Event) error

// Dispatcher fans events out to subscribed handlers in FIFO order. It only
// ever runs post-commit: a handler failure is logged as a retryable
// downstream concern and never propagated back to the write path.
type Dispatcher struct {
	log      *logger.Logger
	handlers map[string][]Handler
}

func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{log: log, handlers: map[string][]Handler{}}
}

func (d *Dispatcher) Subscribe(eventName string, h Handler) {
	d.handlers[eventName] = append(d.handlers[eventName], h)
}

func (d *Dispatcher) Dispatch(ctx context.Context, evs []domain.Event) {
	for _, e := range evs {
		for _, h := range d.handlers[e.Name()] {
			if err := h(ctx, e); err != nil {
				d.log.Warn("event handler failed", "event", e.Name(), "error", err)
			}
		}
	}
}
