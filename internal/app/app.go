// Package app holds the application services: use cases that load
// aggregates, mutate them, and push the writes through a unit of work.
package app

import (
	"context"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

// Coordinator is the transactional write coordinator each service drives;
// satisfied by *store.UnitOfWork. Services get a fresh one per operation.
type Coordinator interface {
	Begin(ctx context.Context) error
	Stage(src domain.EventSource, op store.WriteOp)
	SaveChanges(ctx context.Context) (int, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
