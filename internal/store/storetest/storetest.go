// Package storetest provides in-memory fakes for the persistence seams so
// unit-of-work and service flows can be exercised without Postgres.
package storetest

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

// FakeDB counts transaction lifecycle calls and can be told to fail Begin or
// Commit. Queries always come back empty; tests stage recording closures
// instead of real SQL.
type FakeDB struct {
	BeginErr  error
	CommitErr error
	ExecErr   error

	Begun      int
	Committed  int
	RolledBack int
	ExecCalls  []string
}

func (db *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.ExecCalls = append(db.ExecCalls, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), db.ExecErr
}

func (db *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (db *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{err: pgx.ErrNoRows}
}

func (db *FakeDB) Begin(ctx context.Context) (store.Tx, error) {
	if db.BeginErr != nil {
		return nil, db.BeginErr
	}
	db.Begun++
	return &fakeTx{db: db}, nil
}

type fakeTx struct {
	db *FakeDB
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.db.CommitErr != nil {
		return t.db.CommitErr
	}
	t.db.Committed++
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.db.RolledBack++
	return nil
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error { return r.err }

// DispatchRecorder captures every post-commit batch in arrival order.
type DispatchRecorder struct {
	Batches [][]domain.Event
}

func (r *DispatchRecorder) Dispatch(ctx context.Context, events []domain.Event) {
	r.Batches = append(r.Batches, events)
}

// Events flattens the recorded batches.
func (r *DispatchRecorder) Events() []domain.Event {
	var all []domain.Event
	for _, b := range r.Batches {
		all = append(all, b...)
	}
	return all
}
