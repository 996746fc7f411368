package store

import (
	"context"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
)

// Dispatcher receives events strictly after the write that produced them has
// committed. Implemented by the events package.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []domain.Event)
}

// Store is the persistence gateway: per-aggregate repositories plus the
// unit-of-work factory.
type Store struct {
	db   DB
	disp Dispatcher
	log  *logger.Logger

	Customers CustomerRepo
	Products  ProductRepo
	Orders    OrderRepo
	Users     UserRepo
	Activity  ActivityRepo
	Ledger    LedgerRepo
}

func New(db DB, disp Dispatcher, log *logger.Logger) *Store {
	return &Store{
		db:   db,
		disp: disp,
		log:  log,

		Customers: CustomerRepo{db: db},
		Products:  ProductRepo{db: db},
		Orders:    OrderRepo{db: db},
		Users:     UserRepo{db: db},
		Activity:  ActivityRepo{db: db},
		Ledger:    LedgerRepo{db: db},
	}
}

// NewUnitOfWork returns a private coordinator for one request; transaction
// state is never shared across requests.
func (s *Store) NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{db: s.db, disp: s.disp, log: s.log}
}
