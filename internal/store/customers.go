package store

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
)

type CustomerRepo struct {
	db DB
}

func (r CustomerRepo) ByID(ctx context.Context, id string) (*customers.Customer, error) {
	var (
		c                   customers.Customer
		emailRaw, phoneRaw  string
		shipID, billID      *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, phone,
		       default_shipping_address_id, default_billing_address_id, created_at
		FROM customers WHERE id=$1`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName, &emailRaw, &phoneRaw, &shipID, &billID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("load customer %s: %w", id, err)
	}
	if c.Email, err = customers.NewEmail(emailRaw); err != nil {
		return nil, err
	}
	if c.Phone, err = customers.NewPhone(phoneRaw); err != nil {
		return nil, err
	}
	if shipID != nil {
		c.DefaultShippingAddressID = *shipID
	}
	if billID != nil {
		c.DefaultBillingAddressID = *billID
	}
	return &c, nil
}

func (r CustomerRepo) AddressByID(ctx context.Context, id string) (*customers.Address, error) {
	var a customers.Address
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, line1, city, country, type
		FROM addresses WHERE id=$1`, id).
		Scan(&a.ID, &a.CustomerID, &a.Line1, &a.City, &a.Country, &a.Type)
	if err != nil {
		return nil, fmt.Errorf("load address %s: %w", id, err)
	}
	return &a, nil
}

func (r CustomerRepo) InsertOp(c *customers.Customer) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO customers(id, first_name, last_name, email, phone,
			                      default_shipping_address_id, default_billing_address_id, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			c.ID, c.FirstName, c.LastName, c.Email.Value(), c.Phone.Value(),
			nullIfEmpty(c.DefaultShippingAddressID), nullIfEmpty(c.DefaultBillingAddressID), c.CreatedAt)
		return err
	}
}

func (r CustomerRepo) UpdateOp(c *customers.Customer) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			UPDATE customers SET first_name=$2, last_name=$3, phone=$4,
			       default_shipping_address_id=$5, default_billing_address_id=$6
			WHERE id=$1`,
			c.ID, c.FirstName, c.LastName, c.Phone.Value(),
			nullIfEmpty(c.DefaultShippingAddressID), nullIfEmpty(c.DefaultBillingAddressID))
		return err
	}
}

func (r CustomerRepo) AddressInsertOp(a *customers.Address) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO addresses(id, customer_id, line1, city, country, type)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			a.ID, a.CustomerID, a.Line1, a.City, a.Country, a.Type)
		return err
	}
}

// AddressDeleteOp is the one hard delete in the model.
func (r CustomerRepo) AddressDeleteOp(addressID string) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `DELETE FROM addresses WHERE id=$1`, addressID)
		return err
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
