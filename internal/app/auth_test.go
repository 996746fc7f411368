package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-eshop-core.git/internal/app"
	"github.com/ariefcatur/go-eshop-core.git/internal/auth"
	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
	"github.com/ariefcatur/go-eshop-core.git/internal/store/storetest"
)

var errAccountNotFound = errors.New("account not found")

// fakeAccounts keeps accounts in memory; the write ops it hands out mutate
// its "persisted" state only when the unit of work executes them.
type fakeAccounts struct {
	byEmail  map[string]*auth.UserAccount
	byID     map[string]*auth.UserAccount
	byToken  map[string]*auth.UserAccount
	revoked  map[string]bool
	inserted []string
	updates  int
}

func newFakeAccounts(accounts ...*auth.UserAccount) *fakeAccounts {
	f := &fakeAccounts{
		byEmail: map[string]*auth.UserAccount{},
		byID:    map[string]*auth.UserAccount{},
		byToken: map[string]*auth.UserAccount{},
		revoked: map[string]bool{},
	}
	for _, a := range accounts {
		f.byEmail[a.Email.Value()] = a
		f.byID[a.ID] = a
		for _, t := range a.RefreshTokens {
			f.byToken[t.Token] = a
		}
	}
	return f
}

func (f *fakeAccounts) ByEmail(ctx context.Context, email string) (*auth.UserAccount, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, errAccountNotFound
}

func (f *fakeAccounts) ByRefreshToken(ctx context.Context, token string) (*auth.UserAccount, error) {
	if a, ok := f.byToken[token]; ok {
		return a, nil
	}
	return nil, errAccountNotFound
}

func (f *fakeAccounts) IsNotFound(err error) bool {
	return errors.Is(err, errAccountNotFound)
}

func (f *fakeAccounts) UpdateOp(a *auth.UserAccount) store.WriteOp {
	return func(ctx context.Context, q store.Querier) error {
		f.updates++
		return nil
	}
}

func (f *fakeAccounts) TokenInsertOp(t *auth.RefreshToken) store.WriteOp {
	return func(ctx context.Context, q store.Querier) error {
		f.byToken[t.Token] = f.byID[t.AccountID]
		f.inserted = append(f.inserted, t.Token)
		return nil
	}
}

func (f *fakeAccounts) TokenRevokeOp(t *auth.RefreshToken) store.WriteOp {
	return func(ctx context.Context, q store.Querier) error {
		if f.revoked[t.Token] {
			return store.ErrTokenRotated
		}
		f.revoked[t.Token] = true
		return nil
	}
}

func (f *fakeAccounts) TokenRevokeIdempotentOp(t *auth.RefreshToken) store.WriteOp {
	return func(ctx context.Context, q store.Querier) error {
		f.revoked[t.Token] = true
		return nil
	}
}

func newAuthService(t *testing.T, accounts *fakeAccounts, db *storetest.FakeDB) (*app.AuthService, *storetest.DispatchRecorder) {
	t.Helper()
	disp := &storetest.DispatchRecorder{}
	st := store.New(db, disp, logger.Nop())
	svc := &app.AuthService{
		Accounts: accounts,
		Tokens:   auth.NewTokenIssuer("test-secret"),
		UoW:      func() app.Coordinator { return st.NewUnitOfWork() },
		Log:      logger.Nop(),
	}
	return svc, disp
}

func newAccount(t *testing.T, addr string) *auth.UserAccount {
	t.Helper()
	email, err := customers.NewEmail(addr)
	require.NoError(t, err)
	return auth.NewUserAccount(email, auth.RoleUser, "cust-1")
}

func TestLoginIssuesTokenPair(t *testing.T) {
	ctx := context.Background()
	account := newAccount(t, "user@example.com")
	accounts := newFakeAccounts(account)
	db := &storetest.FakeDB{}
	svc, disp := newAuthService(t, accounts, db)

	pair, err := svc.Login(ctx, "user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 64)

	claims, err := svc.Tokens.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.Subject)

	assert.NotNil(t, account.LastLoginAt)
	assert.Equal(t, []string{pair.RefreshToken}, accounts.inserted)
	assert.Equal(t, 1, accounts.updates)
	assert.Equal(t, 1, db.Committed)

	events := disp.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "UserLoggedIn", events[0].Name())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, disp := newAuthService(t, newFakeAccounts(), &storetest.FakeDB{})
	_, err := svc.Login(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, app.ErrUnknownAccount)
	assert.Empty(t, disp.Batches)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	account := newAccount(t, "user@example.com")
	accounts := newFakeAccounts(account)
	db := &storetest.FakeDB{}
	svc, _ := newAuthService(t, accounts, db)

	first, err := svc.Login(ctx, "user@example.com")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.True(t, accounts.revoked[first.RefreshToken], "old token revoked on rotation")

	// the replaced token is dead
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, app.ErrInvalidToken)

	// the replacement still works
	third, err := svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, second.RefreshToken, third.RefreshToken)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _ := newAuthService(t, newFakeAccounts(), &storetest.FakeDB{})
	_, err := svc.Refresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, app.ErrInvalidToken)
}

func TestRefreshExpiredToken(t *testing.T) {
	account := newAccount(t, "user@example.com")
	expired := &auth.RefreshToken{
		ID:        "rt-1",
		AccountID: account.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
	}
	account.AddRefreshToken(expired)

	svc, _ := newAuthService(t, newFakeAccounts(account), &storetest.FakeDB{})
	_, err := svc.Refresh(context.Background(), "expired-token")
	assert.ErrorIs(t, err, app.ErrInvalidToken)
}

func TestRefreshLostRace(t *testing.T) {
	// Another request committed a rotation of the same token between our
	// read and our write: the guarded revoke reports zero rows.
	account := newAccount(t, "user@example.com")
	tok := &auth.RefreshToken{
		ID:        "rt-1",
		AccountID: account.ID,
		Token:     "contested-token",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	account.AddRefreshToken(tok)

	accounts := newFakeAccounts(account)
	accounts.revoked["contested-token"] = true
	db := &storetest.FakeDB{}
	svc, disp := newAuthService(t, accounts, db)

	_, err := svc.Refresh(context.Background(), "contested-token")
	assert.ErrorIs(t, err, app.ErrInvalidToken)
	assert.Empty(t, accounts.inserted, "no replacement minted for the loser")
	assert.Equal(t, 1, db.RolledBack)
	assert.Empty(t, disp.Batches)
}

func TestLogoutRevokes(t *testing.T) {
	ctx := context.Background()
	account := newAccount(t, "user@example.com")
	accounts := newFakeAccounts(account)
	svc, disp := newAuthService(t, accounts, &storetest.FakeDB{})

	pair, err := svc.Login(ctx, "user@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	assert.True(t, accounts.revoked[pair.RefreshToken])

	events := disp.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "UserLoggedOut", events[1].Name())
}

func TestLogoutUnknownTokenSucceeds(t *testing.T) {
	db := &storetest.FakeDB{}
	svc, _ := newAuthService(t, newFakeAccounts(), db)
	require.NoError(t, svc.Logout(context.Background(), "never-issued"))
	assert.Equal(t, 0, db.Begun, "nothing to write for an unknown token")
}

func TestLogoutTwiceSucceeds(t *testing.T) {
	ctx := context.Background()
	account := newAccount(t, "user@example.com")
	accounts := newFakeAccounts(account)
	db := &storetest.FakeDB{}
	svc, _ := newAuthService(t, accounts, db)

	pair, err := svc.Login(ctx, "user@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	writes := db.Begun
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	assert.Equal(t, writes, db.Begun, "second logout is a read-only no-op")
}
