package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ariefcatur/go-eshop-core.git/internal/auth"
	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
)

// ErrTokenRotated reports that a guarded revoke found the token already
// revoked, i.e. a concurrent rotation won the race.
var ErrTokenRotated = errors.New("refresh token already rotated")

type UserRepo struct {
	db DB
}

func (r UserRepo) ByEmail(ctx context.Context, email string) (*auth.UserAccount, error) {
	return r.one(ctx, `WHERE email=$1`, email)
}

// ByRefreshToken resolves the owning account of a token, with the whole
// token collection loaded. Returns pgx.ErrNoRows-wrapped error when unknown.
func (r UserRepo) ByRefreshToken(ctx context.Context, token string) (*auth.UserAccount, error) {
	return r.one(ctx, `WHERE id=(SELECT account_id FROM refresh_tokens WHERE token=$1)`, token)
}

func (r UserRepo) one(ctx context.Context, where string, arg any) (*auth.UserAccount, error) {
	var (
		a          auth.UserAccount
		emailRaw   string
		roleRaw    string
		customerID *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, email, role, customer_id, created_at, last_login_at
		FROM user_accounts `+where, arg).
		Scan(&a.ID, &emailRaw, &roleRaw, &customerID, &a.CreatedAt, &a.LastLoginAt)
	if err != nil {
		return nil, fmt.Errorf("load user account: %w", err)
	}
	if a.Email, err = customers.NewEmail(emailRaw); err != nil {
		return nil, err
	}
	a.Role = auth.Role(roleRaw)
	if customerID != nil {
		a.CustomerID = *customerID
	}
	if a.RefreshTokens, err = r.tokens(ctx, a.ID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r UserRepo) tokens(ctx context.Context, accountID string) ([]*auth.RefreshToken, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, token, expires_at, created_at, is_revoked, revoked_at
		FROM refresh_tokens WHERE account_id=$1 ORDER BY created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("load refresh tokens: %w", err)
	}
	defer rows.Close()

	var out []*auth.RefreshToken
	for rows.Next() {
		var t auth.RefreshToken
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Token, &t.ExpiresAt, &t.CreatedAt,
			&t.Revoked, &t.RevokedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r UserRepo) IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (r UserRepo) InsertOp(a *auth.UserAccount) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO user_accounts(id, email, role, customer_id, created_at, last_login_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			a.ID, a.Email.Value(), a.Role, nullIfEmpty(a.CustomerID), a.CreatedAt, a.LastLoginAt)
		return err
	}
}

func (r UserRepo) UpdateOp(a *auth.UserAccount) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `UPDATE user_accounts SET last_login_at=$2 WHERE id=$1`,
			a.ID, a.LastLoginAt)
		return err
	}
}

func (r UserRepo) TokenInsertOp(t *auth.RefreshToken) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO refresh_tokens(id, account_id, token, expires_at, created_at, is_revoked, revoked_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			t.ID, t.AccountID, t.Token, t.ExpiresAt, t.CreatedAt, t.Revoked, t.RevokedAt)
		return err
	}
}

// TokenRevokeOp flags the token revoked. The NOT is_revoked guard means a
// concurrent rotation of the same parent token makes this op fail with
// ErrTokenRotated instead of silently producing a second child.
func (r UserRepo) TokenRevokeOp(t *auth.RefreshToken) WriteOp {
	return func(ctx context.Context, q Querier) error {
		tag, err := q.Exec(ctx, `
			UPDATE refresh_tokens SET is_revoked=true, revoked_at=$2
			WHERE token=$1 AND NOT is_revoked`,
			t.Token, t.RevokedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrTokenRotated
		}
		return nil
	}
}

// TokenRevokeIdempotentOp is the logout variant: revoking an already-revoked
// token is "already logged out", not an error.
func (r UserRepo) TokenRevokeIdempotentOp(t *auth.RefreshToken) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			UPDATE refresh_tokens SET is_revoked=true, revoked_at=$2
			WHERE token=$1 AND NOT is_revoked`,
			t.Token, t.RevokedAt)
		return err
	}
}
