package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-eshop-core.git/internal/catalog"
	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
	"github.com/ariefcatur/go-eshop-core.git/internal/orders"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

type OrderStore interface {
	ByID(ctx context.Context, id string) (*orders.Order, error)
	InsertOp(o *orders.Order) store.WriteOp
	UpdateOp(o *orders.Order) store.WriteOp
}

type CustomerStore interface {
	ByID(ctx context.Context, id string) (*customers.Customer, error)
	AddressByID(ctx context.Context, id string) (*customers.Address, error)
}

type ProductStore interface {
	ByID(ctx context.Context, id string) (*catalog.Product, error)
}

type CheckoutItem struct {
	ProductID string
	Quantity  int
}

type CheckoutInput struct {
	CustomerID        string
	Items             []CheckoutItem
	ShippingAddressID string // falls back to the customer default
	BillingAddressID  string
	CardNumber        string
	CardType          string
}

type OrderService struct {
	Orders    OrderStore
	Customers CustomerStore
	Products  ProductStore
	UoW       func() Coordinator
	Log       *logger.Logger
}

// Checkout builds one order from catalog prices and customer addresses and
// commits it as a single transaction.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*orders.Order, error) {
	if len(in.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	customer, err := s.Customers.ByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	shippingID := in.ShippingAddressID
	if shippingID == "" {
		shippingID = customer.DefaultShippingAddressID
	}
	billingID := in.BillingAddressID
	if billingID == "" {
		billingID = customer.DefaultBillingAddressID
	}
	if shippingID == "" || billingID == "" {
		return nil, errors.New("customer must have default addresses set")
	}

	shipping, err := s.Customers.AddressByID(ctx, shippingID)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	tracking, err := orders.GenerateTrackingNumber(shipping.Country)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	uow := s.UoW()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	order := orders.NewOrder(customer.ID, tracking, shippingID, billingID,
		time.Now().UTC(), orders.MaskCard(in.CardNumber, in.CardType), nil)

	for _, line := range in.Items {
		product, err := s.Products.ByID(ctx, line.ProductID)
		if err != nil {
			_ = uow.Rollback(ctx)
			return nil, fmt.Errorf("checkout: product %s: %w", line.ProductID, err)
		}
		item, err := orders.NewOrderItem(order.ID, product.ID, line.Quantity, product.Price)
		if err != nil {
			_ = uow.Rollback(ctx)
			return nil, err
		}
		if err := order.AddItem(item); err != nil {
			_ = uow.Rollback(ctx)
			return nil, err
		}
	}

	uow.Stage(order, s.Orders.InsertOp(order))
	if _, err := uow.SaveChanges(ctx); err != nil {
		_ = uow.Rollback(ctx)
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	return order, nil
}

// UpdateStatus applies one transition through the table and persists it; the
// OrderStatusChanged (and possibly OrderCompleted) events go out after the
// save commits.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	order, err := s.Orders.ByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	next, ok := orders.ParseStatus(status)
	if !ok {
		return fmt.Errorf("invalid order status: %s", status)
	}
	if err := order.UpdateStatus(next); err != nil {
		return err
	}

	uow := s.UoW()
	uow.Stage(order, s.Orders.UpdateOp(order))
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}
