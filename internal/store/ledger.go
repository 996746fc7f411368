package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
)

// LedgerRepo is the import idempotency witness: one row per dataset version,
// keyed by content checksum.
type LedgerRepo struct {
	db DB
}

func (r LedgerRepo) Contains(ctx context.Context, checksum string) (bool, error) {
	var importedAt time.Time
	err := r.db.QueryRow(ctx, `SELECT imported_at FROM import_ledger WHERE checksum=$1`, checksum).
		Scan(&importedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r LedgerRepo) InsertOp(checksum string, importedAt time.Time) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `INSERT INTO import_ledger(checksum, imported_at) VALUES ($1,$2)`,
			checksum, importedAt)
		return err
	}
}

// ActivityRepo appends activity rows. Writes happen post-commit from event
// handlers, outside any unit of work.
type ActivityRepo struct {
	db DB
}

func (r ActivityRepo) Insert(ctx context.Context, l *domain.ActivityLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO activity_logs(id, entity_type, entity_id, action, user_id, user_email, details, at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		l.ID, l.EntityType, l.EntityID, l.Action,
		nullIfEmpty(l.UserID), nullIfEmpty(l.UserEmail), nullIfEmpty(l.Details), l.Timestamp)
	return err
}
