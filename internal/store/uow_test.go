package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
	"github.com/ariefcatur/go-eshop-core.git/internal/store/storetest"
)

type stubEvent struct {
	name string
	at   time.Time
}

func (e stubEvent) Name() string          { return e.name }
func (e stubEvent) OccurredAt() time.Time { return e.at }

type stubAggregate struct {
	domain.EventBuffer
}

func newHarness(db *storetest.FakeDB) (*store.UnitOfWork, *storetest.DispatchRecorder) {
	disp := &storetest.DispatchRecorder{}
	st := store.New(db, disp, logger.Nop())
	return st.NewUnitOfWork(), disp
}

func recordOp(log *[]string, name string) store.WriteOp {
	return func(ctx context.Context, q store.Querier) error {
		*log = append(*log, name)
		return nil
	}
}

func failOp(err error) store.WriteOp {
	return func(ctx context.Context, q store.Querier) error { return err }
}

func TestCommitDispatchesEventsAfterCommit(t *testing.T) {
	ctx := context.Background()
	db := &storetest.FakeDB{}
	uow, disp := newHarness(db)

	agg := &stubAggregate{}
	agg.Raise(stubEvent{name: "First"})
	agg.Raise(stubEvent{name: "Second"})

	var ran []string
	require.NoError(t, uow.Begin(ctx))
	uow.Stage(agg, recordOp(&ran, "write-a"))
	uow.Stage(nil, recordOp(&ran, "write-b"))

	count, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"write-a", "write-b"}, ran)
	assert.Empty(t, disp.Batches, "no dispatch before commit")

	require.NoError(t, uow.Commit(ctx))
	assert.Equal(t, 1, db.Committed)
	require.Len(t, disp.Batches, 1)
	require.Len(t, disp.Batches[0], 2)
	assert.Equal(t, "First", disp.Batches[0][0].Name())
	assert.Equal(t, "Second", disp.Batches[0][1].Name())
}

func TestRollbackDiscardsWritesAndEvents(t *testing.T) {
	ctx := context.Background()
	db := &storetest.FakeDB{}
	uow, disp := newHarness(db)

	agg := &stubAggregate{}
	agg.Raise(stubEvent{name: "Discarded"})

	var ran []string
	require.NoError(t, uow.Begin(ctx))
	uow.Stage(agg, recordOp(&ran, "write"))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, uow.Rollback(ctx))
	assert.Equal(t, 1, db.RolledBack)
	assert.Equal(t, 0, db.Committed)
	assert.Empty(t, disp.Batches, "rollback must discard the event queue")
}

func TestFIFOOrderAcrossAggregates(t *testing.T) {
	ctx := context.Background()
	uow, disp := newHarness(&storetest.FakeDB{})

	first := &stubAggregate{}
	first.Raise(stubEvent{name: "A1"})
	first.Raise(stubEvent{name: "A2"})
	second := &stubAggregate{}
	second.Raise(stubEvent{name: "B1"})

	var ran []string
	require.NoError(t, uow.Begin(ctx))
	uow.Stage(first, recordOp(&ran, "a"))
	uow.Stage(second, recordOp(&ran, "b"))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))

	events := disp.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "A1", events[0].Name())
	assert.Equal(t, "A2", events[1].Name())
	assert.Equal(t, "B1", events[2].Name())
}

func TestImplicitSaveChangesCommitsAndDispatches(t *testing.T) {
	ctx := context.Background()
	db := &storetest.FakeDB{}
	uow, disp := newHarness(db)

	agg := &stubAggregate{}
	agg.Raise(stubEvent{name: "Saved"})

	var ran []string
	uow.Stage(agg, recordOp(&ran, "write"))
	count, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, db.Begun)
	assert.Equal(t, 1, db.Committed)
	require.Len(t, disp.Batches, 1)
	assert.Equal(t, "Saved", disp.Batches[0][0].Name())
}

func TestImplicitSaveChangesWithNothingStaged(t *testing.T) {
	ctx := context.Background()
	db := &storetest.FakeDB{}
	uow, disp := newHarness(db)

	count, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, db.Begun, "no transaction opened for an empty save")
	assert.Empty(t, disp.Batches)
}

func TestBeginTwiceFails(t *testing.T) {
	ctx := context.Background()
	uow, _ := newHarness(&storetest.FakeDB{})

	require.NoError(t, uow.Begin(ctx))
	assert.ErrorIs(t, uow.Begin(ctx), store.ErrTransactionActive)
}

func TestCommitWithoutTransactionFails(t *testing.T) {
	uow, _ := newHarness(&storetest.FakeDB{})
	assert.ErrorIs(t, uow.Commit(context.Background()), store.ErrNoTransaction)
}

func TestRollbackWithoutTransactionIsNoop(t *testing.T) {
	db := &storetest.FakeDB{}
	uow, _ := newHarness(db)
	require.NoError(t, uow.Rollback(context.Background()))
	assert.Equal(t, 0, db.RolledBack)
}

func TestCommitFailureDiscardsEvents(t *testing.T) {
	ctx := context.Background()
	db := &storetest.FakeDB{CommitErr: errors.New("connection reset")}
	uow, disp := newHarness(db)

	agg := &stubAggregate{}
	agg.Raise(stubEvent{name: "Lost"})

	var ran []string
	require.NoError(t, uow.Begin(ctx))
	uow.Stage(agg, recordOp(&ran, "write"))

	err := uow.Commit(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, db.RolledBack)
	assert.Empty(t, disp.Batches, "a failed commit must never dispatch")
}

func TestWriteFailureAbortsImplicitSave(t *testing.T) {
	ctx := context.Background()
	db := &storetest.FakeDB{}
	uow, disp := newHarness(db)

	agg := &stubAggregate{}
	agg.Raise(stubEvent{name: "Lost"})

	boom := errors.New("duplicate key")
	uow.Stage(agg, failOp(boom))

	_, err := uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, db.RolledBack)
	assert.Equal(t, 0, db.Committed)
	assert.Empty(t, disp.Batches)
}

func TestEventsAreCollectedExactlyOnce(t *testing.T) {
	ctx := context.Background()
	uow, disp := newHarness(&storetest.FakeDB{})

	agg := &stubAggregate{}
	agg.Raise(stubEvent{name: "Once"})

	var ran []string
	require.NoError(t, uow.Begin(ctx))
	uow.Stage(agg, recordOp(&ran, "first"))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	// staging the same aggregate again must not duplicate the drained event
	uow.Stage(agg, recordOp(&ran, "second"))
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))

	assert.Len(t, disp.Events(), 1)
}
