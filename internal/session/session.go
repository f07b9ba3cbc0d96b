// Package session keeps the logged-in identity in the "user" cookie.
//
// The cookie holds the API token issued at login. It is a signed JWT whose
// claims carry the identity, so reading the session is a token validation.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmynk/billed/internal/auth"
	"github.com/mmynk/billed/internal/models"
)

// CookieName is the name of the session cookie.
const CookieName = "user"

// ErrNoSession is returned by Load when the request carries no session.
var ErrNoSession = errors.New("no session")

// Identity is the logged-in user as the screens see it.
type Identity struct {
	Type  models.Role `json:"type"`
	Email string      `json:"email"`
}

// IsAdmin reports whether the identity belongs to an admin.
func (i Identity) IsAdmin() bool {
	return i.Type == models.RoleAdmin
}

// Session is an identity plus the token used to call the bills API.
type Session struct {
	Identity
	Token string
}

// Manager reads and writes session cookies.
type Manager struct {
	tokens *auth.JWTManager
	secure bool
}

// NewManager creates a manager validating cookies with tokens.
// secure marks cookies as HTTPS only.
func NewManager(tokens *auth.JWTManager, secure bool) *Manager {
	return &Manager{tokens: tokens, secure: secure}
}

// Load returns the session of r. It returns ErrNoSession when the cookie is
// missing and auth.ErrInvalidToken when it is tampered with or expired.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session cookie: %w", err)
	}

	claims, err := m.tokens.Validate(cookie.Value)
	if err != nil {
		return nil, err
	}

	return &Session{
		Identity: Identity{Type: claims.Type, Email: claims.Email},
		Token:    cookie.Value,
	}, nil
}

// Save writes s to the response. The token must be valid for this manager.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if s == nil || s.Token == "" {
		return fmt.Errorf("session has no token: %w", auth.ErrMissingToken)
	}
	if _, err := m.tokens.Validate(s.Token); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   int(m.tokens.TokenDuration() / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
