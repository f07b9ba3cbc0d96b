package containers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
	"github.com/mmynk/billed/internal/session"
	"github.com/mmynk/billed/internal/store"
)

// fakeAccounts knows a fixed set of accounts.
type fakeAccounts struct {
	users      map[string]api.User
	passwords  map[string]string
	registered []string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		users: map[string]api.User{
			"admin@billed.test": {ID: "1", Email: "admin@billed.test", Type: models.RoleAdmin},
			"a@a":               {ID: "2", Email: "a@a", Type: models.RoleEmployee},
		},
		passwords: map[string]string{"admin@billed.test": "admin-password", "a@a": "employee-password"},
	}
}

func (f *fakeAccounts) Login(_ context.Context, email, password string, role models.Role) (*api.AuthResponse, error) {
	user, ok := f.users[email]
	if !ok || f.passwords[email] != password || user.Type != role {
		return nil, store.NewError(http.StatusUnauthorized)
	}
	return &api.AuthResponse{User: user, Token: "token-" + user.ID}, nil
}

func (f *fakeAccounts) Register(_ context.Context, email, password string) (*api.AuthResponse, error) {
	if _, ok := f.users[email]; ok {
		return nil, store.NewError(http.StatusConflict)
	}
	user := api.User{ID: "new", Email: email, Type: models.RoleEmployee}
	f.users[email] = user
	f.passwords[email] = password
	f.registered = append(f.registered, email)
	return &api.AuthResponse{User: user, Token: "token-new"}, nil
}

func TestLoginEmployee(t *testing.T) {
	var nav navigations
	var saved *session.Session
	l := NewLogin(Options{OnNavigate: nav.record}, newFakeAccounts(), func(s *session.Session) error {
		saved = s
		return nil
	})

	require.NoError(t, l.HandleSubmitEmployee(context.Background(), "a@a", "employee-password"))
	require.NotNil(t, saved)
	assert.Equal(t, session.Identity{Type: models.RoleEmployee, Email: "a@a"}, saved.Identity)
	assert.Equal(t, "token-2", saved.Token)
	assert.Equal(t, navigations{routes.Bills}, nav)
}

func TestLoginEmployeeCreatesAccount(t *testing.T) {
	var nav navigations
	accounts := newFakeAccounts()
	l := NewLogin(Options{OnNavigate: nav.record}, accounts, nil)

	require.NoError(t, l.HandleSubmitEmployee(context.Background(), "new@billed.test", "new-password"))
	assert.Equal(t, []string{"new@billed.test"}, accounts.registered)
	assert.Equal(t, navigations{routes.Bills}, nav)
}

func TestLoginEmployeeWrongPassword(t *testing.T) {
	var nav navigations
	accounts := newFakeAccounts()
	l := NewLogin(Options{OnNavigate: nav.record}, accounts, nil)

	err := l.HandleSubmitEmployee(context.Background(), "a@a", "wrong-password")
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Empty(t, accounts.registered)
	assert.Empty(t, nav)
}

func TestLoginAdmin(t *testing.T) {
	var nav navigations
	l := NewLogin(Options{OnNavigate: nav.record}, newFakeAccounts(), nil)

	require.NoError(t, l.HandleSubmitAdmin(context.Background(), "admin@billed.test", "admin-password"))
	assert.Equal(t, navigations{routes.Dashboard}, nav)
}

func TestLoginAdminIsNeverCreated(t *testing.T) {
	var nav navigations
	accounts := newFakeAccounts()
	l := NewLogin(Options{OnNavigate: nav.record}, accounts, nil)

	assert.ErrorIs(t, l.HandleSubmitAdmin(context.Background(), "boss@billed.test", "whatever-password"), ErrLoginFailed)
	assert.ErrorIs(t, l.HandleSubmitAdmin(context.Background(), "a@a", "employee-password"), ErrLoginFailed)
	assert.Empty(t, accounts.registered)
	assert.Empty(t, nav)
}
