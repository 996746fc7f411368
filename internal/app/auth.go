package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-eshop-core.git/internal/auth"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

// ErrInvalidToken is the one answer for every failed refresh: existence,
// revocation and expiry failures are indistinguishable to the caller so the
// endpoint cannot be used as a guessing oracle.
var ErrInvalidToken = errors.New("invalid or expired refresh token")

var ErrUnknownAccount = errors.New("user not found")

// AccountStore is what the auth flows need from the persistence gateway.
type AccountStore interface {
	ByEmail(ctx context.Context, email string) (*auth.UserAccount, error)
	ByRefreshToken(ctx context.Context, token string) (*auth.UserAccount, error)
	IsNotFound(err error) bool
	UpdateOp(a *auth.UserAccount) store.WriteOp
	TokenInsertOp(t *auth.RefreshToken) store.WriteOp
	TokenRevokeOp(t *auth.RefreshToken) store.WriteOp
	TokenRevokeIdempotentOp(t *auth.RefreshToken) store.WriteOp
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	Accounts AccountStore
	Tokens   *auth.TokenIssuer
	UoW      func() Coordinator
	Log      *logger.Logger
}

// Login records the login and mints one access + one refresh token. The
// last-login update and the token insert commit together.
func (s *AuthService) Login(ctx context.Context, email string) (TokenPair, error) {
	account, err := s.Accounts.ByEmail(ctx, email)
	if err != nil {
		if s.Accounts.IsNotFound(err) {
			return TokenPair{}, ErrUnknownAccount
		}
		return TokenPair{}, fmt.Errorf("login: %w", err)
	}

	uow := s.UoW()
	if err := uow.Begin(ctx); err != nil {
		return TokenPair{}, err
	}

	account.RecordLogin()
	refresh, err := s.Tokens.NewRefreshToken(account.ID)
	if err != nil {
		_ = uow.Rollback(ctx)
		return TokenPair{}, err
	}
	account.AddRefreshToken(refresh)
	access, err := s.Tokens.AccessToken(account)
	if err != nil {
		_ = uow.Rollback(ctx)
		return TokenPair{}, err
	}

	uow.Stage(account, s.Accounts.UpdateOp(account))
	uow.Stage(nil, s.Accounts.TokenInsertOp(refresh))
	if _, err := uow.SaveChanges(ctx); err != nil {
		_ = uow.Rollback(ctx)
		return TokenPair{}, fmt.Errorf("login: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return TokenPair{}, fmt.Errorf("login: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh.Token}, nil
}

// Refresh rotates a refresh token: revoke the old, mint exactly one new,
// atomically. If anything fails after the revoke, the rollback restores the
// old token so a legitimate user is never locked out.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (TokenPair, error) {
	account, err := s.Accounts.ByRefreshToken(ctx, oldToken)
	if err != nil {
		if s.Accounts.IsNotFound(err) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	existing := account.FindRefreshToken(oldToken)
	if existing == nil || !existing.Valid(time.Now()) {
		return TokenPair{}, ErrInvalidToken
	}

	uow := s.UoW()
	if err := uow.Begin(ctx); err != nil {
		return TokenPair{}, err
	}

	revoked := account.RevokeRefreshToken(oldToken)
	replacement, err := s.Tokens.NewRefreshToken(account.ID)
	if err != nil {
		_ = uow.Rollback(ctx)
		return TokenPair{}, err
	}
	account.AddRefreshToken(replacement)
	access, err := s.Tokens.AccessToken(account)
	if err != nil {
		_ = uow.Rollback(ctx)
		return TokenPair{}, err
	}

	uow.Stage(account, s.Accounts.TokenRevokeOp(revoked))
	uow.Stage(nil, s.Accounts.TokenInsertOp(replacement))
	if _, err := uow.SaveChanges(ctx); err != nil {
		_ = uow.Rollback(ctx)
		if errors.Is(err, store.ErrTokenRotated) {
			// Lost a race against a concurrent rotation of the same token.
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: replacement.Token}, nil
}

// Logout revokes the token. Unknown or already-revoked tokens count as
// "already logged out": success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	account, err := s.Accounts.ByRefreshToken(ctx, token)
	if err != nil {
		if s.Accounts.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("logout: %w", err)
	}
	existing := account.FindRefreshToken(token)
	if existing == nil || existing.Revoked {
		return nil
	}

	account.RevokeRefreshToken(token)
	account.RecordLogout()

	uow := s.UoW()
	uow.Stage(account, s.Accounts.TokenRevokeIdempotentOp(existing))
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
