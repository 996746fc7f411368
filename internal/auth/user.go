package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// UserAccount is the aggregate root for authentication. It owns the refresh
// tokens issued to it; tokens are flagged revoked, never removed.
type UserAccount struct {
	domain.EventBuffer

	ID            string
	Email         customers.Email
	Role          Role
	CustomerID    string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
	RefreshTokens []*RefreshToken
}

func NewUserAccount(email customers.Email, role Role, customerID string) *UserAccount {
	return &UserAccount{
		ID:         uuid.NewString(),
		Email:      email,
		Role:       role,
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}
}

func (a *UserAccount) RecordLogin() {
	now := time.Now().UTC()
	a.LastLoginAt = &now
	a.Raise(UserLoggedIn{AccountID: a.ID, Email: a.Email.Value(), At: now})
}

func (a *UserAccount) RecordLogout() {
	a.Raise(UserLoggedOut{AccountID: a.ID, Email: a.Email.Value(), At: time.Now().UTC()})
}

func (a *UserAccount) AddRefreshToken(t *RefreshToken) {
	a.RefreshTokens = append(a.RefreshTokens, t)
}

func (a *UserAccount) FindRefreshToken(token string) *RefreshToken {
	for _, t := range a.RefreshTokens {
		if t.Token == token {
			return t
		}
	}
	return nil
}

// RevokeRefreshToken flags the matching token; returns it, or nil when the
// token is not owned by this account.
func (a *UserAccount) RevokeRefreshToken(token string) *RefreshToken {
	t := a.FindRefreshToken(token)
	if t != nil {
		t.Revoke()
	}
	return t
}

func (a *UserAccount) RevokeAllRefreshTokens() {
	for _, t := range a.RefreshTokens {
		if !t.Revoked {
			t.Revoke()
		}
	}
}

// RefreshToken is valid iff not revoked and not expired.
type RefreshToken struct {
	ID        string
	AccountID string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
	RevokedAt *time.Time
}

func (t *RefreshToken) Revoke() {
	if t.Revoked {
		return
	}
	now := time.Now().UTC()
	t.Revoked = true
	t.RevokedAt = &now
}

func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}

type UserLoggedIn struct {
	AccountID string
	Email     string
	At        time.Time
}

func (e UserLoggedIn) Name() string          { return "UserLoggedIn" }
func (e UserLoggedIn) OccurredAt() time.Time { return e.At }

type UserLoggedOut struct {
	AccountID string
	Email     string
	At        time.Time
}

func (e UserLoggedOut) Name() string          { return "UserLoggedOut" }
func (e UserLoggedOut) OccurredAt() time.Time { return e.At }
