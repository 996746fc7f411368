package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

var ErrAddressInUse = errors.New("cannot remove a default address")

// CustomerWriteStore extends the read side with the address write ops.
type CustomerWriteStore interface {
	CustomerStore
	UpdateOp(c *customers.Customer) store.WriteOp
	AddressInsertOp(a *customers.Address) store.WriteOp
	AddressDeleteOp(addressID string) store.WriteOp
}

type AddAddressInput struct {
	CustomerID string
	Line1      string
	City       string
	Country    string
	Type       customers.AddressType
}

type CustomerService struct {
	Customers CustomerWriteStore
	UoW       func() Coordinator
	Log       *logger.Logger
}

// AddAddress attaches a new address; when the customer has no default for
// the address's role yet, it becomes the default in the same save.
func (s *CustomerService) AddAddress(ctx context.Context, in AddAddressInput) (*customers.Address, error) {
	customer, err := s.Customers.ByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}

	addr := customers.NewAddress(customer.ID, in.Line1, in.City, in.Country, in.Type)

	promoted := false
	if (in.Type == customers.AddressShipping || in.Type == customers.AddressBoth) &&
		customer.DefaultShippingAddressID == "" {
		customer.SetDefaultShippingAddress(addr.ID)
		promoted = true
	}
	if (in.Type == customers.AddressBilling || in.Type == customers.AddressBoth) &&
		customer.DefaultBillingAddressID == "" {
		customer.SetDefaultBillingAddress(addr.ID)
		promoted = true
	}

	uow := s.UoW()
	uow.Stage(nil, s.Customers.AddressInsertOp(addr))
	if promoted {
		uow.Stage(customer, s.Customers.UpdateOp(customer))
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}
	return addr, nil
}

// RemoveAddress deletes an address the customer owns. Defaults stay: demote
// the address first, then remove it.
func (s *CustomerService) RemoveAddress(ctx context.Context, customerID, addressID string) error {
	customer, err := s.Customers.ByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("remove address: %w", err)
	}
	addr, err := s.Customers.AddressByID(ctx, addressID)
	if err != nil {
		return fmt.Errorf("remove address: %w", err)
	}
	if addr.CustomerID != customer.ID {
		return fmt.Errorf("address %s does not belong to customer %s", addressID, customerID)
	}
	if customer.DefaultShippingAddressID == addressID || customer.DefaultBillingAddressID == addressID {
		return ErrAddressInUse
	}

	uow := s.UoW()
	uow.Stage(nil, s.Customers.AddressDeleteOp(addressID))
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("remove address: %w", err)
	}
	return nil
}
