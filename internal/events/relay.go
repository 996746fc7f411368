package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	kafkax "github.com/ariefcatur/go-eshop-core.git/internal/kafka"
	"github.com/ariefcatur/go-eshop-core.git/internal/orders"
)

const (
	TopicOrderPlaced        = "order.placed"
	TopicOrderStatusChanged = "order.status.changed"
	TopicOrderCompleted     = "order.completed"
)

type orderPlacedPayload struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
}

type orderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type orderCompletedPayload struct {
	OrderID string `json:"order_id"`
}

// KafkaRelay publishes order events to kafka, partitioned by order id so
// one order's events keep their relative order.
type KafkaRelay struct {
	Producer *kafkax.Producer
	Service  string
}

// Register subscribes the relay to the order event stream.
func (r *KafkaRelay) Register(d *Dispatcher) {
	d.Subscribe("OrderPlaced", r.publish)
	d.Subscribe("OrderStatusChanged", r.publish)
	d.Subscribe("OrderCompleted", r.publish)
}

func (r *KafkaRelay) publish(ctx context.Context, e domain.Event) error {
	var (
		topic   string
		key     string
		payload any
	)
	switch ev := e.(type) {
	case orders.OrderPlaced:
		topic = TopicOrderPlaced
		key = ev.OrderID
		payload = orderPlacedPayload{OrderID: ev.OrderID, CustomerID: ev.CustomerID}
	case orders.OrderStatusChanged:
		topic = TopicOrderStatusChanged
		key = ev.OrderID
		payload = orderStatusChangedPayload{OrderID: ev.OrderID, From: string(ev.From), To: string(ev.To)}
	case orders.OrderCompleted:
		topic = TopicOrderCompleted
		key = ev.OrderID
		payload = orderCompletedPayload{OrderID: ev.OrderID}
	default:
		return nil
	}

	env := kafkax.Envelope{
		EventID:      uuid.NewString(),
		EventType:    e.Name(),
		EventVersion: 1,
		OccurredAt:   e.OccurredAt().UTC(),
		Producer:     r.Service,
		Payload:      kafkax.MustMarshal(payload),
	}
	r.Producer.Publish(topic, []byte(key), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(e.Name())},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}
