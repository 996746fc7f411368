package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/money"
)

// Order is the aggregate root for a purchase. Status moves only through the
// transition table; Total is always the sum of item totals.
type Order struct {
	domain.EventBuffer

	ID                string
	CustomerID        string
	Status            Status
	TrackingNumber    TrackingNumber
	PurchaseDate      time.Time
	EstimatedDelivery time.Time
	ShippingAddressID string
	BillingAddressID  string
	PaymentCard       *PaymentCard
	Total             money.Money
	Items             []*OrderItem
}

func NewOrder(customerID string, tracking TrackingNumber, shippingAddressID, billingAddressID string,
	purchaseDate time.Time, card *PaymentCard, estimatedDelivery *time.Time) *Order {

	est := purchaseDate.AddDate(0, 0, 7)
	if estimatedDelivery != nil {
		est = *estimatedDelivery
	}
	o := &Order{
		ID:                uuid.NewString(),
		CustomerID:        customerID,
		Status:            StatusPending,
		TrackingNumber:    tracking,
		PurchaseDate:      purchaseDate,
		EstimatedDelivery: est,
		ShippingAddressID: shippingAddressID,
		BillingAddressID:  billingAddressID,
		PaymentCard:       card,
		Total:             money.Zero("USD"),
	}
	o.Raise(OrderPlaced{OrderID: o.ID, CustomerID: customerID, At: time.Now().UTC()})
	return o
}

// AddItem appends a line item and recomputes Total from the immutable
// per-item totals. Fails if the item's currency differs from the running
// total's.
func (o *Order) AddItem(item *OrderItem) error {
	total := money.Zero(item.TotalPrice.Currency)
	for _, it := range o.Items {
		t, err := total.Add(it.TotalPrice)
		if err != nil {
			return err
		}
		total = t
	}
	t, err := total.Add(item.TotalPrice)
	if err != nil {
		return err
	}
	o.Items = append(o.Items, item)
	o.Total = t
	return nil
}

// UpdateStatus applies one legal transition and raises OrderStatusChanged;
// entering Completed additionally raises OrderCompleted. Illegal transitions
// leave the status unchanged.
func (o *Order) UpdateStatus(to Status) error {
	if !CanTransition(o.Status, to) {
		return TransitionError(o.Status, to)
	}
	from := o.Status
	o.Status = to
	now := time.Now().UTC()
	o.Raise(OrderStatusChanged{OrderID: o.ID, From: from, To: to, At: now})
	if to == StatusCompleted {
		o.Raise(OrderCompleted{OrderID: o.ID, At: now})
	}
	return nil
}

// OrderItem is a child entity. UnitPrice*Quantity is snapshotted at
// construction and immune to later catalog price changes.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   int
	UnitPrice  money.Money
	TotalPrice money.Money
}

func NewOrderItem(orderID, productID string, quantity int, unitPrice money.Money) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	return &OrderItem{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.MulInt(quantity),
	}, nil
}
