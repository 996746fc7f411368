package orders

import "time"

type OrderPlaced struct {
	OrderID    string
	CustomerID string
	At         time.Time
}

func (e OrderPlaced) Name() string          { return "OrderPlaced" }
func (e OrderPlaced) OccurredAt() time.Time { return e.At }

type OrderStatusChanged struct {
	OrderID string
	From    Status
	To      Status
	At      time.Time
}

func (e OrderStatusChanged) Name() string          { return "OrderStatusChanged" }
func (e OrderStatusChanged) OccurredAt() time.Time { return e.At }

type OrderCompleted struct {
	OrderID string
	At      time.Time
}

func (e OrderCompleted) Name() string          { return "OrderCompleted" }
func (e OrderCompleted) OccurredAt() time.Time { return e.At }
