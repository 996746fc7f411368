package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ariefcatur/go-eshop-core.git/internal/auth"
	"github.com/ariefcatur/go-eshop-core.git/internal/catalog"
	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
	"github.com/ariefcatur/go-eshop-core.git/internal/orders"
)

// Forwarders so *Store satisfies the consumers' gateway interfaces (the
// importer's in particular) without them reaching into individual repos.

func (s *Store) IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (s *Store) LedgerContains(ctx context.Context, checksum string) (bool, error) {
	return s.Ledger.Contains(ctx, checksum)
}

func (s *Store) LedgerInsertOp(checksum string, importedAt time.Time) WriteOp {
	return s.Ledger.InsertOp(checksum, importedAt)
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (*auth.UserAccount, error) {
	return s.Users.ByEmail(ctx, email)
}

func (s *Store) CustomerInsertOp(c *customers.Customer) WriteOp {
	return s.Customers.InsertOp(c)
}

func (s *Store) AddressInsertOp(a *customers.Address) WriteOp {
	return s.Customers.AddressInsertOp(a)
}

func (s *Store) ProductInsertOp(p *catalog.Product) WriteOp {
	return s.Products.InsertOp(p)
}

func (s *Store) OrderInsertOp(o *orders.Order) WriteOp {
	return s.Orders.InsertOp(o)
}

func (s *Store) AccountInsertOp(a *auth.UserAccount) WriteOp {
	return s.Users.InsertOp(a)
}
