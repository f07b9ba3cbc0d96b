package containers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
	"github.com/mmynk/billed/internal/session"
	"github.com/mmynk/billed/internal/store"
)

// ErrLoginFailed is returned when the credentials are refused.
var ErrLoginFailed = errors.New("identifiants invalides")

// Accounts is the auth side of the remote store.
type Accounts interface {
	Login(ctx context.Context, email, password string, role models.Role) (*api.AuthResponse, error)
	Register(ctx context.Context, email, password string) (*api.AuthResponse, error)
}

// Login drives the two login forms.
type Login struct {
	opts     Options
	accounts Accounts
	save     func(*session.Session) error
}

// NewLogin creates the login container. save persists the session of a
// successful login.
func NewLogin(opts Options, accounts Accounts, save func(*session.Session) error) *Login {
	return &Login{opts: opts, accounts: accounts, save: save}
}

// HandleSubmitEmployee logs an employee in, creating the account on first
// login, and opens the bills list.
func (l *Login) HandleSubmitEmployee(ctx context.Context, email, password string) error {
	resp, err := l.accounts.Login(ctx, email, password, models.RoleEmployee)
	if err != nil {
		resp, err = l.createEmployee(ctx, email, password, err)
		if err != nil {
			return err
		}
	}
	return l.open(resp, routes.Bills)
}

// HandleSubmitAdmin logs an admin in and opens the dashboard.
func (l *Login) HandleSubmitAdmin(ctx context.Context, email, password string) error {
	resp, err := l.accounts.Login(ctx, email, password, models.RoleAdmin)
	if err != nil {
		l.opts.logger().Warn("Admin login failed", "email", email, "error", err)
		return ErrLoginFailed
	}
	return l.open(resp, routes.Dashboard)
}

// createEmployee registers a first-time employee. An existing account
// means the password was wrong.
func (l *Login) createEmployee(ctx context.Context, email, password string, loginErr error) (*api.AuthResponse, error) {
	var storeErr *store.Error
	if !errors.As(loginErr, &storeErr) || storeErr.Status != http.StatusUnauthorized {
		return nil, fmt.Errorf("failed to log in: %w", loginErr)
	}

	resp, err := l.accounts.Register(ctx, email, password)
	if err != nil {
		l.opts.logger().Warn("Employee login failed", "email", email, "error", err)
		return nil, ErrLoginFailed
	}
	l.opts.logger().Info("Employee account created", "email", email)
	return resp, nil
}

func (l *Login) open(resp *api.AuthResponse, path routes.Path) error {
	s := &session.Session{
		Identity: session.Identity{Type: resp.User.Type, Email: resp.User.Email},
		Token:    resp.Token,
	}
	if l.save != nil {
		if err := l.save(s); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	l.opts.Session = s
	l.opts.navigate(path)
	return nil
}
