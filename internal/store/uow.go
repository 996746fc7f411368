package store

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
)

var (
	ErrTransactionActive = errors.New("a transaction is already in progress")
	ErrNoTransaction     = errors.New("no transaction in progress")
)

// WriteOp is one pending write, executed at SaveChanges time against the
// unit of work's current transaction.
type WriteOp func(ctx context.Context, q Querier) error

type stagedWrite struct {
	src domain.EventSource // nil for writes with no event-bearing aggregate
	op  WriteOp
}

// UnitOfWork coordinates writes and commit-gated event dispatch.
//
// Outside an explicit transaction, SaveChanges runs the staged writes in a
// short internal transaction and dispatches the drained events right after
// it commits. Inside an explicit transaction, SaveChanges persists writes
// into the open transaction and defers dispatch to Commit; Rollback discards
// the queue. An event is therefore observed only for a write that survived
// commit.
type UnitOfWork struct {
	db   DB
	disp Dispatcher
	log  *logger.Logger

	tx     Tx
	staged []stagedWrite
	queue  []domain.Event
}

// Stage registers a pending write. src may be nil when the write carries no
// aggregate (a ledger row, a token insert); otherwise the aggregate's
// buffered events are drained, in staging order, at the next SaveChanges.
func (u *UnitOfWork) Stage(src domain.EventSource, op WriteOp) {
	u.staged = append(u.staged, stagedWrite{src: src, op: op})
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionActive
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return err
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	if u.tx != nil {
		return u.flush(ctx, u.tx)
	}
	if len(u.staged) == 0 {
		return 0, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	count, err := u.flush(ctx, tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		u.queue = nil
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		u.queue = nil
		return 0, err
	}

	u.dispatch(ctx)
	return count, nil
}

// flush drains events from staged aggregates into the pending queue, then
// executes the staged writes in order.
func (u *UnitOfWork) flush(ctx context.Context, q Querier) (int, error) {
	staged := u.staged
	u.staged = nil
	for _, sw := range staged {
		if sw.src != nil {
			u.queue = append(u.queue, sw.src.CollectEvents()...)
		}
	}
	count := 0
	for _, sw := range staged {
		if err := sw.op(ctx, q); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Commit flushes any remaining staged writes, commits, and only then
// dispatches the accumulated events in FIFO order. On failure it rolls back
// and the events are discarded, never dispatched.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	if _, err := u.flush(ctx, u.tx); err != nil {
		_ = u.Rollback(ctx)
		return err
	}
	if err := u.tx.Commit(ctx); err != nil {
		_ = u.Rollback(ctx)
		return err
	}
	u.tx = nil

	u.dispatch(ctx)
	return nil
}

// Rollback aborts the transaction and unconditionally discards pending
// writes and the event queue. No-op when no transaction is active.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.staged = nil
	u.queue = nil
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	return tx.Rollback(ctx)
}

func (u *UnitOfWork) dispatch(ctx context.Context) {
	events := u.queue
	u.queue = nil
	if len(events) == 0 || u.disp == nil {
		return
	}
	// Post-commit: handler failures are downstream concerns, never a reason
	// to unwind the write.
	u.disp.Dispatch(ctx, events)
}
