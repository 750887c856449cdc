package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/maaltijdbox/admin-api/internal/common"
)

type fakeStore struct {
	admins   map[string]Admin
	sessions map[string]Session
	resets   map[string]PasswordReset
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{admins: map[string]Admin{}, sessions: map[string]Session{}}
}

func (f *fakeStore) GetAdminByEmail(_ context.Context, email string) (Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (f *fakeStore) GetAdminByID(_ context.Context, id string) (Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) CreateSession(_ context.Context, s Session) (Session, error) {
	f.nextID++
	s.ID = string(rune('a' + f.nextID))
	f.sessions[s.TokenHash] = s
	return s, nil
}

func (f *fakeStore) GetSessionByTokenHash(_ context.Context, hash string) (Session, error) {
	s, ok := f.sessions[hash]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) RotateSession(_ context.Context, id, newHash string, expiresAt time.Time) error {
	for hash, s := range f.sessions {
		if s.ID == id {
			delete(f.sessions, hash)
			s.TokenHash = newHash
			s.ExpiresAt = expiresAt
			f.sessions[newHash] = s
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) DeleteSessionByTokenHash(_ context.Context, hash string) error {
	delete(f.sessions, hash)
	return nil
}

func (f *fakeStore) DeleteSessionsByAdmin(_ context.Context, adminID string) error {
	for hash, s := range f.sessions {
		if s.AdminID == adminID {
			delete(f.sessions, hash)
		}
	}
	return nil
}

func (f *fakeStore) UpdateAdminPassword(_ context.Context, adminID, passwordHash string) error {
	a, ok := f.admins[adminID]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = passwordHash
	f.admins[adminID] = a
	return nil
}

func (f *fakeStore) CreatePasswordReset(_ context.Context, r PasswordReset) error {
	if f.resets == nil {
		f.resets = map[string]PasswordReset{}
	}
	f.resets[r.TokenHash] = r
	return nil
}

func (f *fakeStore) GetPasswordResetByTokenHash(_ context.Context, hash string) (PasswordReset, error) {
	r, ok := f.resets[hash]
	if !ok {
		return PasswordReset{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) DeletePasswordResetsByAdmin(_ context.Context, adminID string) error {
	for hash, r := range f.resets {
		if r.AdminID == adminID {
			delete(f.resets, hash)
		}
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	hash, err := argon2id.CreateHash("sterk-wachtwoord", argon2id.DefaultParams)
	require.NoError(t, err)
	store.admins["admin-1"] = Admin{ID: "admin-1", Name: "Beheerder", Email: "admin@example.com", PasswordHash: hash}

	svc, err := NewService(Config{Store: store, Secret: "test-secret-test-secret"})
	require.NoError(t, err)
	return svc, store
}

func TestLoginIssuesValidAccessToken(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Login(context.Background(), "admin@example.com", "sterk-wachtwoord", "go-test", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	subject, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin-1", subject)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "admin@example.com", "fout-wachtwoord", "", "")
	require.Error(t, err)

	_, err = svc.Login(context.Background(), "nobody@example.com", "sterk-wachtwoord", "", "")
	require.Error(t, err)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, store := newTestService(t)

	login, err := svc.Login(context.Background(), "admin@example.com", "sterk-wachtwoord", "", "")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old token is gone after rotation.
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)

	_, ok := store.sessions[hashRefreshToken(refreshed.RefreshToken)]
	require.True(t, ok)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	svc, _ := newTestService(t)

	login, err := svc.Login(context.Background(), "admin@example.com", "sterk-wachtwoord", "", "")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().Add(48 * time.Hour) })
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	svc, _ := newTestService(t)

	login, err := svc.Login(context.Background(), "admin@example.com", "sterk-wachtwoord", "", "")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().Add(time.Hour) })
	_, err = svc.ParseAccessToken(login.AccessToken)
	require.Error(t, err)
}

func newResetTestService(t *testing.T) (*Service, *fakeStore, *common.InMemoryEmail) {
	t.Helper()
	store := newFakeStore()
	hash, err := argon2id.CreateHash("sterk-wachtwoord", argon2id.DefaultParams)
	require.NoError(t, err)
	store.admins["admin-1"] = Admin{ID: "admin-1", Name: "Beheerder", Email: "admin@example.com", PasswordHash: hash}

	mailer := &common.InMemoryEmail{}
	svc, err := NewService(Config{
		Store:            store,
		Secret:           "test-secret-test-secret",
		Mailer:           mailer,
		ResetBaseURL:     "https://admin.example.com",
		ExposeResetToken: true,
	})
	require.NoError(t, err)
	return svc, store, mailer
}

func TestForgotPasswordThenResetUpdatesCredentials(t *testing.T) {
	svc, _, mailer := newResetTestService(t)
	ctx := context.Background()

	initiation, err := svc.ForgotPassword(ctx, "Admin@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, initiation.Token)
	require.Len(t, mailer.Outbox, 1)
	require.Contains(t, mailer.Outbox[0].Body, initiation.Token)

	require.NoError(t, svc.ResetPassword(ctx, initiation.Token, "nieuw-wachtwoord"))

	_, err = svc.Login(ctx, "admin@example.com", "sterk-wachtwoord", "", "")
	require.Error(t, err)
	_, err = svc.Login(ctx, "admin@example.com", "nieuw-wachtwoord", "", "")
	require.NoError(t, err)
}

func TestForgotPasswordSilentOnUnknownEmail(t *testing.T) {
	svc, store, mailer := newResetTestService(t)

	initiation, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Empty(t, initiation.Token)
	require.Empty(t, mailer.Outbox)
	require.Empty(t, store.resets)
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	svc, _, _ := newResetTestService(t)
	ctx := context.Background()

	initiation, err := svc.ForgotPassword(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(ctx, initiation.Token, "nieuw-wachtwoord"))

	err = svc.ResetPassword(ctx, initiation.Token, "nog-een-wachtwoord")
	require.Error(t, err)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	svc, _, _ := newResetTestService(t)
	ctx := context.Background()

	initiation, err := svc.ForgotPassword(ctx, "admin@example.com")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().Add(25 * time.Hour) })
	err = svc.ResetPassword(ctx, initiation.Token, "nieuw-wachtwoord")
	require.Error(t, err)
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newResetTestService(t)
	ctx := context.Background()

	initiation, err := svc.ForgotPassword(ctx, "admin@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, initiation.Token, "kort")
	require.Error(t, err)
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	svc, store, _ := newResetTestService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", "sterk-wachtwoord", "", "")
	require.NoError(t, err)
	require.Len(t, store.sessions, 1)

	initiation, err := svc.ForgotPassword(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(ctx, initiation.Token, "nieuw-wachtwoord"))

	require.Empty(t, store.sessions)
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, store := newTestService(t)

	login, err := svc.Login(context.Background(), "admin@example.com", "sterk-wachtwoord", "", "")
	require.NoError(t, err)
	require.Len(t, store.sessions, 1)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
	require.Empty(t, store.sessions)
}
